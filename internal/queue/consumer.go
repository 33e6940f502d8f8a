// Package queue contains the background consumer that listens to the
// reservation.created queue and appends one line per event to a log file.
// It also defines the message payloads exchanged over the broker.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the reservation.created queue into LogPath.
type Consumer struct {
	URL     string
	LogPath string
	Logger  *log.Logger
}

// Run connects to the broker, declares the queue and consumes until ctx is
// cancelled, reconnecting with exponential backoff (capped at 30s) whenever
// the connection drops. Malformed messages are rejected without requeue so
// the consumer never spins on them; messages that fail to be written to the
// log file are requeued.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Logger.Warnf("reservation-consumer: dial failed: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Logger.Warnf("reservation-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Logger.Warnf("reservation-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(ReservationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, ReservationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendEvent(c.LogPath, d.Body); err != nil {
			requeue := shouldRequeue(err)
			c.Logger.Errorf("reservation-consumer: handle message failed (requeue=%t): %v", requeue, err)
			_ = d.Nack(false, requeue)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// errMalformedEvent marks a message body that is not a ReservationCreatedEvent.
var errMalformedEvent = errors.New("malformed reservation event")

// shouldRequeue reports whether a message that failed with err may succeed
// when delivered again.
func shouldRequeue(err error) bool {
	return !errors.Is(err, errMalformedEvent)
}

// appendEvent decodes one ReservationCreatedEvent and appends a single
// human-readable line for it to path, creating parent directories.
func appendEvent(path string, body []byte) error {
	var ev ReservationCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Reservation saved | event_id=%s | name=%q | email=%q | roomtype=%q | checkin=%s | checkout=%s\n",
		ev.CreatedAt, ev.EventID, ev.Name, ev.Email, ev.RoomType, ev.Checkin, ev.Checkout)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// sleep waits for d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
