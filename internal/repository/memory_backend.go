package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/room-reservation/internal/model"
)

// MemoryBackend keeps both collections for the lifetime of the process.
// Reads hand out copies so callers can modify the returned slices freely.
type MemoryBackend struct {
	mu sync.Mutex

	reservations    []model.Reservation
	hasReservations bool
	rooms           []string
	hasRooms        bool
}

// NewMemoryBackend returns an empty backend. Nothing exists until the
// first write.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) ReservationsExist(_ context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasReservations, nil
}

func (b *MemoryBackend) ReadReservations(_ context.Context) ([]model.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Reservation, len(b.reservations))
	copy(out, b.reservations)
	return out, nil
}

func (b *MemoryBackend) WriteReservations(_ context.Context, list []model.Reservation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reservations = make([]model.Reservation, len(list))
	copy(b.reservations, list)
	b.hasReservations = true
	return nil
}

func (b *MemoryBackend) RoomsExist(_ context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasRooms, nil
}

func (b *MemoryBackend) ReadRooms(_ context.Context) ([]model.RoomRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.RoomRecord, 0, len(b.rooms))
	for _, name := range b.rooms {
		out = append(out, model.RoomRecord{Room: name})
	}
	return out, nil
}

func (b *MemoryBackend) WriteRooms(_ context.Context, names []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = make([]string, len(names))
	copy(b.rooms, names)
	b.hasRooms = true
	return nil
}
