package handler

import (
    "context" // context is passed through to the record store
    "errors"  // errors.Is matches repository sentinels
    "net/http" // http provides status code constants

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/room-reservation/internal/model"      // model holds the reservation record
    "github.com/iliyamo/room-reservation/internal/repository" // repository exposes the error sentinels
)

// ReservationStore is the part of the record store the booking and admin
// handlers use for reservations.
type ReservationStore interface {
    LoadReservations(ctx context.Context) ([]model.Reservation, error)
    AddReservation(ctx context.Context, in model.ReservationInput) (model.Reservation, error)
}

// RoomStore is the part of the record store the admin handler uses for the
// room catalog.
type RoomStore interface {
    LoadRooms(ctx context.Context) ([]string, error)
    AddRoom(ctx context.Context, name string) (string, error)
    RemoveRoom(ctx context.Context, name string) (string, error)
}

// ReservationPublisher announces saved reservations to other services.
type ReservationPublisher interface {
    PublishReservationCreated(ctx context.Context, rec model.Reservation) error
}

// fail writes the {success:false, message} body shared by every error response
func fail(c echo.Context, status int, message string) error { // begin fail helper
    return c.JSON(status, echo.Map{"success": false, "message": message}) // JSON body with the status
}

// storeFailure maps a record store error onto an HTTP response. Client
// errors carry the given messages; anything else is a 500 and is logged.
func storeFailure(c echo.Context, err error, messages map[error]string) error { // begin storeFailure helper
    for _, sentinel := range []error{repository.ErrValidation, repository.ErrConflict, repository.ErrNotFound} { // check client errors in order
        if !errors.Is(err, sentinel) { // skip sentinels the error does not wrap
            continue
        }
        msg, ok := messages[sentinel] // look up the caller's message for this sentinel
        if !ok {                      // no message means the caller does not expect it
            break
        }
        return fail(c, statusFor(sentinel), msg) // respond with the mapped status
    }
    c.Logger().Errorf("store failure on %s %s: %v", c.Request().Method, c.Path(), err) // log unexpected failures
    return fail(c, http.StatusInternalServerError, "Internal server error")             // uncategorized failures are 500
}

func statusFor(sentinel error) int {
    switch sentinel {
    case repository.ErrConflict:
        return http.StatusConflict
    case repository.ErrNotFound:
        return http.StatusNotFound
    default:
        return http.StatusBadRequest
    }
}
