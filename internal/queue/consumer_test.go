package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendEvent_WritesOneLinePerEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reservation.log")
	for _, name := range []string{"A", "B"} {
		body, _ := json.Marshal(ReservationCreatedEvent{
			EventID:   "id-" + name,
			Name:      name,
			Email:     "a@x.com",
			Checkin:   "2025-01-01",
			Checkout:  "2025-01-03",
			RoomType:  "Suite",
			CreatedAt: "2025-01-01T00:00:00.000Z",
		})
		if err := appendEvent(path, body); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "event_id=id-A") || !strings.Contains(lines[1], `name="B"`) {
		t.Errorf("unexpected log contents %q", data)
	}
}

func TestAppendEvent_RejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reservation.log")
	if err := appendEvent(path, []byte("{not json")); err == nil {
		t.Fatal("expected an error for malformed body")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("log file should not be created for a rejected message")
	}
}

func TestShouldRequeue(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	body, _ := json.Marshal(ReservationCreatedEvent{EventID: "id", Name: "A"})

	// The log directory cannot be created below a regular file.
	writeErr := appendEvent(filepath.Join(blocker, "logs", "reservation.log"), body)
	if writeErr == nil {
		t.Fatal("expected a write failure")
	}
	if !shouldRequeue(writeErr) {
		t.Errorf("write failure should be requeued: %v", writeErr)
	}

	decodeErr := appendEvent(filepath.Join(dir, "reservation.log"), []byte("{not json"))
	if !errors.Is(decodeErr, errMalformedEvent) || shouldRequeue(decodeErr) {
		t.Errorf("malformed message should be dropped: %v", decodeErr)
	}
}

func TestSleep_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleep(ctx, time.Hour) {
		t.Fatal("sleep should report interruption")
	}
	if !sleep(context.Background(), time.Millisecond) {
		t.Fatal("sleep should complete")
	}
}
