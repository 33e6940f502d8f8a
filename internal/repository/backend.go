package repository

import (
	"context"

	"github.com/iliyamo/room-reservation/internal/model"
)

// Backend is the storage medium behind a RecordStore. Each collection is
// read and written as a whole; backends never apply partial updates.
// Exists reports whether the backing object for a collection has been
// created, which drives first-access seeding in the store.
type Backend interface {
	ReservationsExist(ctx context.Context) (bool, error)
	ReadReservations(ctx context.Context) ([]model.Reservation, error)
	WriteReservations(ctx context.Context, list []model.Reservation) error

	RoomsExist(ctx context.Context) (bool, error)
	ReadRooms(ctx context.Context) ([]model.RoomRecord, error)
	WriteRooms(ctx context.Context, names []string) error
}
