package model

// RoomRecord is a raw row of the room catalog as stored by a backend.
// Older catalogs kept the label in a "type" column instead of "room".
type RoomRecord struct {
	Room string // Rooms.room
	Type string // Rooms.type (legacy)
}

// Name returns the room label carried by the record, preferring the
// current column over the legacy one. An empty result means the row
// carries no label.
func (r RoomRecord) Name() string {
	if r.Room != "" {
		return r.Room
	}
	return r.Type
}

// DefaultRooms is the catalog seeded when no catalog exists yet.
var DefaultRooms = []string{"Deluxe Room", "Suite", "Standard Room"}
