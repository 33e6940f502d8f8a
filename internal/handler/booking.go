package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// publishTimeout bounds the background publish of a reservation event.
const publishTimeout = 5 * time.Second

// BookingHandler serves the public reservation endpoint.
type BookingHandler struct {
	Store     ReservationStore
	Publisher ReservationPublisher // optional; nil disables events
	Logger    *log.Logger
}

// NewBookingHandler constructs a BookingHandler and panics if the store is nil.
func NewBookingHandler(store ReservationStore, publisher ReservationPublisher, logger *log.Logger) *BookingHandler {
	if store == nil {
		panic("nil store passed to NewBookingHandler")
	}
	if logger == nil {
		logger = log.New("booking")
	}
	return &BookingHandler{Store: store, Publisher: publisher, Logger: logger}
}

// Reserve handles POST /reserve. The JSON body must carry name, email,
// checkin, checkout and roomtype; a missing or blank field yields 400
// "Missing fields". On success the reservation is stored with a server time
// stamp and, when a publisher is configured, announced in the background.
func (h *BookingHandler) Reserve(c echo.Context) error {
	var body model.ReservationInput
	if err := c.Bind(&body); err != nil {
		// A body that is not JSON carries none of the fields.
		if errors.Is(err, echo.ErrUnsupportedMediaType) {
			return fail(c, http.StatusBadRequest, "Missing fields")
		}
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	rec, err := h.Store.AddReservation(c.Request().Context(), body)
	if err != nil {
		return storeFailure(c, err, map[error]string{repository.ErrValidation: "Missing fields"})
	}

	if h.Publisher != nil {
		go h.publish(rec)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Reservation saved"})
}

// publish runs detached from the request so a slow broker never delays
// the response. The publisher logs its own failures.
func (h *BookingHandler) publish(rec model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := h.Publisher.PublishReservationCreated(ctx, rec); err == nil {
		h.Logger.Debugf("reservation event published for %s", rec.Email)
	}
}
