package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/room-reservation/internal/model"
)

// RecordStore owns the reservation list and the room catalog. Every
// operation reads the affected collection in full, modifies it in memory
// and writes it back in full. Individual backend reads and writes are
// serialized by the backend, but a load-modify-save cycle is not: two
// overlapping adds may lose one of the updates.
type RecordStore struct {
	backend      Backend
	defaultRooms []string
	validate     *validator.Validate
	logger       *log.Logger
	now          func() time.Time
}

// NewRecordStore wires a store to its backend. defaultRooms is the catalog
// seeded on first access; when empty, model.DefaultRooms is used. A nil
// logger falls back to a logger with the "store" prefix.
func NewRecordStore(backend Backend, defaultRooms []string, logger *log.Logger) *RecordStore {
	if backend == nil {
		panic("nil backend passed to NewRecordStore")
	}
	if len(defaultRooms) == 0 {
		defaultRooms = model.DefaultRooms
	}
	if logger == nil {
		logger = log.New("store")
	}
	seed := make([]string, len(defaultRooms))
	copy(seed, defaultRooms)
	return &RecordStore{
		backend:      backend,
		defaultRooms: seed,
		validate:     validator.New(),
		logger:       logger,
		now:          time.Now,
	}
}

type collection int

const (
	reservationsCollection collection = iota
	roomsCollection
)

func (c collection) String() string {
	if c == roomsCollection {
		return "rooms"
	}
	return "reservations"
}

// ensureInitialized creates the backing object of a collection with its
// default content when it does not exist yet. It is a no-op afterwards.
func (s *RecordStore) ensureInitialized(ctx context.Context, c collection) error {
	var (
		exists bool
		err    error
	)
	switch c {
	case roomsCollection:
		exists, err = s.backend.RoomsExist(ctx)
	default:
		exists, err = s.backend.ReservationsExist(ctx)
	}
	if err != nil {
		return fmt.Errorf("check %s: %w", c, err)
	}
	if exists {
		return nil
	}

	switch c {
	case roomsCollection:
		err = s.backend.WriteRooms(ctx, s.defaultRooms)
	default:
		err = s.backend.WriteReservations(ctx, []model.Reservation{})
	}
	if err != nil {
		return fmt.Errorf("seed %s: %w", c, err)
	}
	s.logger.Infof("seeded %s store", c)
	return nil
}

// LoadReservations returns every stored reservation in insertion order.
// The result is never nil.
func (s *RecordStore) LoadReservations(ctx context.Context) ([]model.Reservation, error) {
	if err := s.ensureInitialized(ctx, reservationsCollection); err != nil {
		return nil, err
	}
	list, err := s.backend.ReadReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return list, nil
}

// SaveReservations overwrites the stored reservations with list.
func (s *RecordStore) SaveReservations(ctx context.Context, list []model.Reservation) error {
	if err := s.backend.WriteReservations(ctx, list); err != nil {
		return fmt.Errorf("save reservations: %w", err)
	}
	return nil
}

// AddReservation validates in, stamps the creation time and appends the
// reservation. Name and email are stored trimmed; the remaining fields are
// stored as given. A missing field yields an error wrapping ErrValidation
// and leaves the stored list untouched.
func (s *RecordStore) AddReservation(ctx context.Context, in model.ReservationInput) (model.Reservation, error) {
	trimmed := model.ReservationInput{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Checkin:  strings.TrimSpace(in.Checkin),
		Checkout: strings.TrimSpace(in.Checkout),
		RoomType: strings.TrimSpace(in.RoomType),
	}
	if err := s.validate.StructCtx(ctx, trimmed); err != nil {
		return model.Reservation{}, validationError(err)
	}

	list, err := s.LoadReservations(ctx)
	if err != nil {
		return model.Reservation{}, err
	}
	rec := model.Reservation{
		Name:     trimmed.Name,
		Email:    trimmed.Email,
		Checkin:  in.Checkin,
		Checkout: in.Checkout,
		RoomType: in.RoomType,
		Time:     s.now().UTC().Format(model.ReservationTimeLayout),
	}
	list = append(list, rec)
	if err := s.SaveReservations(ctx, list); err != nil {
		return model.Reservation{}, err
	}
	return rec, nil
}

// validationError turns validator output into an ErrValidation naming the
// offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(fields, ", "))
}

// LoadRooms returns the room catalog, seeding the defaults on first access.
// Rows stored under the legacy "type" column are reported like any other;
// rows without a label are dropped.
func (s *RecordStore) LoadRooms(ctx context.Context) ([]string, error) {
	if err := s.ensureInitialized(ctx, roomsCollection); err != nil {
		return nil, err
	}
	records, err := s.backend.ReadRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	return normalizeRooms(records), nil
}

func normalizeRooms(records []model.RoomRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if name := r.Name(); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// SaveRooms overwrites the room catalog with names.
func (s *RecordStore) SaveRooms(ctx context.Context, names []string) error {
	if err := s.backend.WriteRooms(ctx, names); err != nil {
		return fmt.Errorf("save rooms: %w", err)
	}
	return nil
}

// AddRoom appends name to the catalog and returns it trimmed. Names are
// unique regardless of case.
func (s *RecordStore) AddRoom(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: room name required", ErrValidation)
	}
	rooms, err := s.LoadRooms(ctx)
	if err != nil {
		return "", err
	}
	for _, r := range rooms {
		if strings.EqualFold(r, name) {
			return "", fmt.Errorf("%w: room %q already exists", ErrConflict, r)
		}
	}
	rooms = append(rooms, name)
	if err := s.SaveRooms(ctx, rooms); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveRoom deletes every catalog entry matching name case-insensitively.
// name may still be URL-encoded; it is decoded when it is valid escaping
// and used verbatim otherwise.
func (s *RecordStore) RemoveRoom(ctx context.Context, name string) (string, error) {
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: room name missing", ErrValidation)
	}
	rooms, err := s.LoadRooms(ctx)
	if err != nil {
		return "", err
	}
	remaining := make([]string, 0, len(rooms))
	for _, r := range rooms {
		if !strings.EqualFold(r, name) {
			remaining = append(remaining, r)
		}
	}
	if len(remaining) == len(rooms) {
		return "", fmt.Errorf("%w: room %q", ErrNotFound, name)
	}
	if err := s.SaveRooms(ctx, remaining); err != nil {
		return "", err
	}
	return name, nil
}
