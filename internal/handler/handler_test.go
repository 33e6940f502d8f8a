package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// fakeStore returns canned results and records the calls it receives.
type fakeStore struct {
	err      error
	added    []model.ReservationInput
	rooms    []string
	lastRoom string
}

func (f *fakeStore) LoadReservations(context.Context) ([]model.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.Reservation{}, nil
}

func (f *fakeStore) AddReservation(_ context.Context, in model.ReservationInput) (model.Reservation, error) {
	if f.err != nil {
		return model.Reservation{}, f.err
	}
	f.added = append(f.added, in)
	return model.Reservation{Name: in.Name, Time: "t"}, nil
}

func (f *fakeStore) LoadRooms(context.Context) ([]string, error) { return f.rooms, f.err }

func (f *fakeStore) AddRoom(_ context.Context, name string) (string, error) {
	f.lastRoom = name
	return name, f.err
}

func (f *fakeStore) RemoveRoom(_ context.Context, name string) (string, error) {
	f.lastRoom = name
	return name, f.err
}

type fakePublisher struct{ got chan model.Reservation }

func (p *fakePublisher) PublishReservationCreated(_ context.Context, rec model.Reservation) error {
	p.got <- rec
	return errors.New("broker down")
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func newEcho(store *fakeStore, pub ReservationPublisher) *echo.Echo {
	e := echo.New()
	e.Logger = quietLogger()
	b := NewBookingHandler(store, pub, quietLogger())
	a := NewAdminHandler(store, store)
	e.POST("/reserve", b.Reserve)
	e.GET("/admin/reservations", a.ListReservations)
	e.GET("/admin/rooms", a.ListRooms)
	e.POST("/admin/rooms", a.AddRoom)
	e.DELETE("/admin/rooms/:room", a.DeleteRoom)
	return e
}

func do(e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestReserve_PublishesInBackground(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{got: make(chan model.Reservation, 1)}
	e := newEcho(store, pub)

	rec, out := do(e, http.MethodPost, "/reserve", `{"name":"A","email":"a@x.com","checkin":"1","checkout":"2","roomtype":"Suite"}`)
	if rec.Code != http.StatusOK || out["success"] != true || out["message"] != "Reservation saved" {
		t.Fatalf("unexpected response %d %v", rec.Code, out)
	}
	if len(store.added) != 1 || store.added[0].RoomType != "Suite" {
		t.Fatalf("store not called with the body: %#v", store.added)
	}

	select {
	case got := <-pub.got:
		if got.Name != "A" {
			t.Errorf("published wrong record %#v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reservation was not published")
	}
}

func TestPublish_FailureNotLoggedByHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&buf)
	logger.SetLevel(log.DEBUG)

	pub := &fakePublisher{got: make(chan model.Reservation, 1)}
	h := NewBookingHandler(&fakeStore{}, pub, logger)
	h.publish(model.Reservation{Name: "A", Email: "a@x.com"})

	if buf.Len() != 0 {
		t.Fatalf("handler logged a failure the publisher already reports: %q", buf.String())
	}
}

func TestReserve_NonJSONBody(t *testing.T) {
	store := &fakeStore{}
	e := newEcho(store, nil)
	req := httptest.NewRequest(http.MethodPost, "/reserve", strings.NewReader("name=A&email=a@x.com"))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if rec.Code != http.StatusBadRequest || out["success"] != false || out["message"] != "Missing fields" {
		t.Fatalf("expected 400 Missing fields, got %d %v", rec.Code, out)
	}
	if len(store.added) != 0 {
		t.Fatalf("store should not be called: %#v", store.added)
	}
}

func TestReserve_InvalidBody(t *testing.T) {
	e := newEcho(&fakeStore{}, nil)
	rec, out := do(e, http.MethodPost, "/reserve", `{"name":`)
	if rec.Code != http.StatusBadRequest || out["success"] != false {
		t.Fatalf("expected 400 failure, got %d %v", rec.Code, out)
	}
}

func TestStoreFailureMapping(t *testing.T) {
	ioErr := errors.New("disk on fire")
	cases := []struct {
		name    string
		err     error
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{"reserve validation", fmt.Errorf("%w: missing email", repository.ErrValidation), http.MethodPost, "/reserve", `{}`, 400, "Missing fields"},
		{"reserve io", ioErr, http.MethodPost, "/reserve", `{}`, 500, "Internal server error"},
		{"list reservations io", ioErr, http.MethodGet, "/admin/reservations", "", 500, "Internal server error"},
		{"list rooms io", ioErr, http.MethodGet, "/admin/rooms", "", 500, "Internal server error"},
		{"add room blank", repository.ErrValidation, http.MethodPost, "/admin/rooms", `{"room":" "}`, 400, "Room name required"},
		{"add room dup", repository.ErrConflict, http.MethodPost, "/admin/rooms", `{"room":"Suite"}`, 409, "Room already exists"},
		{"delete blank", repository.ErrValidation, http.MethodDelete, "/admin/rooms/%20", "", 400, "Room name missing"},
		{"delete missing", repository.ErrNotFound, http.MethodDelete, "/admin/rooms/Nope", "", 404, "Room not found"},
		{"unexpected sentinel", repository.ErrNotFound, http.MethodPost, "/admin/rooms", `{"room":"x"}`, 500, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho(&fakeStore{err: tc.err}, nil)
			rec, out := do(e, tc.method, tc.target, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
			if out["success"] != false || out["message"] != tc.message {
				t.Fatalf("unexpected body %v", out)
			}
		})
	}
}

func TestDeleteRoom_PassesDecodedSegment(t *testing.T) {
	store := &fakeStore{}
	e := newEcho(store, nil)
	rec, out := do(e, http.MethodDelete, "/admin/rooms/Deluxe%20Room", "")
	if rec.Code != http.StatusOK || out["room"] != "Deluxe Room" {
		t.Fatalf("unexpected response %d %v", rec.Code, out)
	}
	if store.lastRoom != "Deluxe Room" {
		t.Errorf("store got %q", store.lastRoom)
	}
}

func TestListRooms_ReturnsArray(t *testing.T) {
	e := newEcho(&fakeStore{rooms: []string{"Suite"}}, nil)
	req := httptest.NewRequest(http.MethodGet, "/admin/rooms", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var rooms []string
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("body is not a string array: %s", rec.Body.String())
	}
	if len(rooms) != 1 || rooms[0] != "Suite" {
		t.Fatalf("unexpected rooms %v", rooms)
	}
}
