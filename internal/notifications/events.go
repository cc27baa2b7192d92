package notifications

import (
	"time"

	"github.com/google/uuid"
)

// BookingEvent is the message published for booking lifecycle changes,
// consumed by downstream notification and analytics services.
type BookingEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  string    `json:"event_type"`
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	Status     string    `json:"status"`
	Amount     float64   `json:"total_amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes booking events to the message bus.
type Producer interface {
	Publish(event *BookingEvent) error
	HealthCheck() error
	Close() error
}

// NoopProducer swallows events, used when Kafka is disabled.
type NoopProducer struct{}

func NewNoopProducer() *NoopProducer {
	return &NoopProducer{}
}

func (NoopProducer) Publish(event *BookingEvent) error { return nil }
func (NoopProducer) HealthCheck() error                { return nil }
func (NoopProducer) Close() error                      { return nil }
