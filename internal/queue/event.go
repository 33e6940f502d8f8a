package queue

// ReservationQueueName is the durable queue carrying ReservationCreatedEvent.
const ReservationQueueName = "reservation.created"

// ReservationCreatedEvent is published after a reservation has been saved.
// It carries the full record so consumers never need to read the store.
type ReservationCreatedEvent struct {
	EventID   string `json:"event_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Checkin   string `json:"checkin"`
	Checkout  string `json:"checkout"`
	RoomType  string `json:"roomtype"`
	CreatedAt string `json:"created_at"`
}
