package model

// Reservation records one guest booking request. Check-in and check-out
// dates are kept as the client sent them; RoomType is free text and is not
// checked against the room catalog.
//
// Fields:
//  Name     – guest name (trimmed).
//  Email    – guest email (trimmed).
//  Checkin  – check-in date, opaque text.
//  Checkout – check-out date, opaque text.
//  RoomType – requested room type label.
//  Time     – ISO-8601 creation instant assigned by the server.
type Reservation struct {
	Name     string `json:"name"`     // Reservations.name
	Email    string `json:"email"`    // Reservations.email
	Checkin  string `json:"checkin"`  // Reservations.checkin
	Checkout string `json:"checkout"` // Reservations.checkout
	RoomType string `json:"roomtype"` // Reservations.roomtype
	Time     string `json:"time"`     // Reservations.time
}

// ReservationInput is the client-supplied part of a reservation. Every
// field is required once surrounding whitespace is removed.
type ReservationInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Checkin  string `json:"checkin" validate:"required"`
	Checkout string `json:"checkout" validate:"required"`
	RoomType string `json:"roomtype" validate:"required"`
}

// ReservationTimeLayout is the layout used for Reservation.Time (UTC,
// millisecond precision).
const ReservationTimeLayout = "2006-01-02T15:04:05.000Z"
