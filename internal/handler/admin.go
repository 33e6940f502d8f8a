// Package handler defines the HTTP handlers for booking and for the
// administrator pages. The admin endpoints list reservations and manage the
// room catalog. Each request reads the full collection from the record
// store; nothing is cached between requests.
package handler

import (
    "net/http" // status code constants

    "github.com/labstack/echo/v4" // echo provides request/response handling

    "github.com/iliyamo/room-reservation/internal/repository" // repository defines error types
)

// AdminHandler bundles the stores used by the admin endpoints
type AdminHandler struct {
    Reservations ReservationStore // Reservations lists submitted bookings
    Rooms        RoomStore        // Rooms manages the room catalog
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil
func NewAdminHandler(reservations ReservationStore, rooms RoomStore) *AdminHandler {
    if reservations == nil || rooms == nil {
        panic("nil store passed to NewAdminHandler")
    }
    return &AdminHandler{Reservations: reservations, Rooms: rooms}
}

// ListReservations handles GET /admin/reservations and returns every
// reservation as a JSON array, oldest first.
func (h *AdminHandler) ListReservations(c echo.Context) error {
    list, err := h.Reservations.LoadReservations(c.Request().Context())
    if err != nil {
        return storeFailure(c, err, nil)
    }
    return c.JSON(http.StatusOK, list)
}

// ListRooms handles GET /admin/rooms and returns the catalog as a JSON
// array of names. The default catalog is seeded on the first call.
func (h *AdminHandler) ListRooms(c echo.Context) error {
    rooms, err := h.Rooms.LoadRooms(c.Request().Context())
    if err != nil {
        return storeFailure(c, err, nil)
    }
    return c.JSON(http.StatusOK, rooms)
}

// AddRoom handles POST /admin/rooms with a {"room": name} body. It returns
// 400 when the name is blank and 409 when the catalog already holds the
// name in any letter case.
func (h *AdminHandler) AddRoom(c echo.Context) error {
    var body struct {
        Room string `json:"room"`
    }
    if err := c.Bind(&body); err != nil {
        return fail(c, http.StatusBadRequest, "Invalid request body")
    }
    name, err := h.Rooms.AddRoom(c.Request().Context(), body.Room)
    if err != nil {
        return storeFailure(c, err, map[error]string{
            repository.ErrValidation: "Room name required",
            repository.ErrConflict:   "Room already exists",
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Room added", "room": name})
}

// DeleteRoom handles DELETE /admin/rooms/:room. The path segment is the
// URL-encoded room name, matched case-insensitively. It returns 400 when
// the name is blank and 404 when no room matched.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
    name, err := h.Rooms.RemoveRoom(c.Request().Context(), c.Param("room"))
    if err != nil {
        return storeFailure(c, err, map[error]string{
            repository.ErrValidation: "Room name missing",
            repository.ErrNotFound:   "Room not found",
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Room deleted", "room": name})
}
