package repository

// This file implements the durable backend. Each collection lives in its own
// worksheet of an .xlsx workbook: the first row holds the column names and
// every following row is one record. Writes rebuild the worksheet from the
// full collection and replace the workbook file atomically; other worksheets
// in the same workbook are carried over untouched, so both collections may
// share a single file.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/room-reservation/internal/model"
)

const (
	ReservationsSheet = "Reservations"
	RoomsSheet        = "Rooms"
)

// maxCellChars is the longest text a worksheet cell holds; excelize cuts
// longer values.
const maxCellChars = 32767

// reservationColumns is the header row of the Reservations sheet.
var reservationColumns = []string{"name", "email", "checkin", "checkout", "roomtype", "time"}

// SheetBackend stores reservations and rooms in spreadsheet workbooks.
type SheetBackend struct {
	mu sync.Mutex // serializes file access; read-modify-write cycles are not covered

	ReservationsPath string
	RoomsPath        string
}

// NewSheetBackend returns a backend writing reservations and rooms to the
// given workbook paths. The paths may be equal.
func NewSheetBackend(reservationsPath, roomsPath string) *SheetBackend {
	return &SheetBackend{ReservationsPath: reservationsPath, RoomsPath: roomsPath}
}

func (b *SheetBackend) ReservationsExist(_ context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sheetExists(b.ReservationsPath, ReservationsSheet)
}

func (b *SheetBackend) ReadReservations(_ context.Context) ([]model.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := readSheet(b.ReservationsPath, ReservationsSheet)
	if err != nil {
		return nil, err
	}
	out := make([]model.Reservation, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Reservation{
			Name:     r["name"],
			Email:    r["email"],
			Checkin:  r["checkin"],
			Checkout: r["checkout"],
			RoomType: r["roomtype"],
			Time:     r["time"],
		})
	}
	return out, nil
}

func (b *SheetBackend) WriteReservations(_ context.Context, list []model.Reservation) error {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{r.Name, r.Email, r.Checkin, r.Checkout, r.RoomType, r.Time})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return writeSheet(b.ReservationsPath, ReservationsSheet, reservationColumns, rows)
}

func (b *SheetBackend) RoomsExist(_ context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sheetExists(b.RoomsPath, RoomsSheet)
}

// ReadRooms returns the raw catalog rows. Workbooks written by older
// versions carry the label in a "type" column; it is returned as is and
// normalized by the store.
func (b *SheetBackend) ReadRooms(_ context.Context) ([]model.RoomRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := readSheet(b.RoomsPath, RoomsSheet)
	if err != nil {
		return nil, err
	}
	out := make([]model.RoomRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.RoomRecord{Room: r["room"], Type: r["type"]})
	}
	return out, nil
}

func (b *SheetBackend) WriteRooms(_ context.Context, names []string) error {
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return writeSheet(b.RoomsPath, RoomsSheet, []string{"room"}, rows)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// sheetExists reports whether the workbook at path exists and holds sheet.
// A collection whose sheet is missing counts as never created, so sharing
// one workbook between collections still seeds each of them.
func sheetExists(path, sheet string) (bool, error) {
	exists, err := fileExists(path)
	if err != nil || !exists {
		return false, err
	}
	wb, err := openWorkbook(path)
	if err != nil {
		return false, err
	}
	defer wb.Close()

	idx, err := wb.GetSheetIndex(sheet)
	if err != nil {
		return false, fmt.Errorf("sheet %s in %s: %w", sheet, path, err)
	}
	return idx != -1, nil
}

// openWorkbook loads the whole workbook into memory and releases the file
// handle before returning, so the file can be replaced afterwards.
func openWorkbook(path string) (*excelize.File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	wb, err := excelize.OpenReader(fh)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return wb, nil
}

// readSheet returns the data rows of sheet keyed by the lower-cased header
// names. A missing sheet yields no rows; blank rows are skipped.
func readSheet(path, sheet string) ([]map[string]string, error) {
	wb, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	idx, err := wb.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s in %s: %w", sheet, path, err)
	}
	if idx == -1 {
		return nil, nil
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s in %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []map[string]string
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		blank := true
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if cell != "" {
				blank = false
			}
			rec[header[i]] = cell
		}
		if blank {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// writeSheet replaces sheet in the workbook at path with a header row and
// the given rows, creating the workbook if needed. The result is written to
// a temporary file next to path and renamed over it.
func writeSheet(path, sheet string, header []string, rows [][]string) error {
	for i, row := range rows {
		for j, v := range row {
			if err := checkCell(v); err != nil {
				return fmt.Errorf("row %d column %s of %s: %w", i+1, header[j], sheet, err)
			}
		}
	}

	exists, err := fileExists(path)
	if err != nil {
		return err
	}

	var wb *excelize.File
	if exists {
		if wb, err = openWorkbook(path); err != nil {
			return err
		}
	} else {
		wb = excelize.NewFile()
	}
	defer wb.Close()

	if err := resetSheet(wb, sheet, !exists); err != nil {
		return fmt.Errorf("prepare sheet %s in %s: %w", sheet, path, err)
	}

	if err := setRow(wb, sheet, 1, header); err != nil {
		return fmt.Errorf("write header of %s in %s: %w", sheet, path, err)
	}
	for i, row := range rows {
		if err := setRow(wb, sheet, i+2, row); err != nil {
			return fmt.Errorf("write row %d of %s in %s: %w", i+1, sheet, path, err)
		}
	}

	return replaceFile(path, wb)
}

// resetSheet leaves wb with an empty worksheet named sheet, set active. A
// fresh workbook only holds the default sheet, which is renamed.
func resetSheet(wb *excelize.File, sheet string, fresh bool) error {
	idx, err := wb.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	switch {
	case idx != -1:
		// A workbook must always keep one sheet, so the old one is renamed
		// out of the way before the replacement is created.
		old := sheet + "_old"
		if err := wb.SetSheetName(sheet, old); err != nil {
			return err
		}
		if _, err := wb.NewSheet(sheet); err != nil {
			return err
		}
		if err := wb.DeleteSheet(old); err != nil {
			return err
		}
	case fresh:
		if err := wb.SetSheetName(wb.GetSheetName(0), sheet); err != nil {
			return err
		}
	default:
		if _, err := wb.NewSheet(sheet); err != nil {
			return err
		}
	}

	idx, err = wb.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	wb.SetActiveSheet(idx)
	return nil
}

// checkCell rejects values a worksheet cell cannot store verbatim.
func checkCell(v string) error {
	if !utf8.ValidString(v) {
		return errors.New("value is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(v); n > maxCellChars {
		return fmt.Errorf("value of %d characters exceeds the %d a cell holds", n, maxCellChars)
	}
	for _, r := range v {
		if !isXMLChar(r) {
			return fmt.Errorf("value contains character %U not allowed in a workbook", r)
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func setRow(wb *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return wb.SetSheetRow(sheet, cell, &vals)
}

func replaceFile(path string, wb *excelize.File) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := wb.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
