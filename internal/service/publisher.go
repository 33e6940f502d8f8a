// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
)

// AMQPPublisher publishes reservation events to RabbitMQ. Each publish
// opens its own connection; reservations are rare enough that a pooled
// connection is not worth its reconnect handling.
type AMQPPublisher struct {
	URL    string
	Logger *log.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, logger *log.Logger) *AMQPPublisher {
	if logger == nil {
		logger = log.New("publisher")
	}
	return &AMQPPublisher{URL: url, Logger: logger}
}

// NewReservationEvent builds the event announcing rec, with a fresh id.
func NewReservationEvent(rec model.Reservation) queue.ReservationCreatedEvent {
	return queue.ReservationCreatedEvent{
		EventID:   uuid.NewString(),
		Name:      rec.Name,
		Email:     rec.Email,
		Checkin:   rec.Checkin,
		Checkout:  rec.Checkout,
		RoomType:  rec.RoomType,
		CreatedAt: rec.Time,
	}
}

// PublishReservationCreated publishes a ReservationCreatedEvent for rec to
// the durable reservation.created queue. Messages are persistent and carry
// the event id as MessageId.
func (p *AMQPPublisher) PublishReservationCreated(ctx context.Context, rec model.Reservation) error {
	event := NewReservationEvent(rec)

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Logger.Errorf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Errorf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.ReservationQueueName, // name
		true,                       // durable
		false,                      // autoDelete
		false,                      // exclusive
		false,                      // noWait
		nil,                        // args
	); err != nil {
		p.Logger.Errorf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.Logger.Errorf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ReservationQueueName, false, false, pub); err != nil {
		p.Logger.Errorf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
