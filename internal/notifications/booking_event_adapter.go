package notifications

import (
	"context"
	"time"

	"busline/internal/bookings"

	"github.com/google/uuid"
)

// BookingEventAdapter implements the bookings.EventPublisher interface on
// top of the Kafka producer.
type BookingEventAdapter struct {
	producer Producer
}

func NewBookingEventAdapter(producer Producer) *BookingEventAdapter {
	return &BookingEventAdapter{producer: producer}
}

func (a *BookingEventAdapter) PublishBookingEvent(ctx context.Context, eventType string, booking *bookings.Booking) error {
	return a.producer.Publish(&BookingEvent{
		EventID:    uuid.New(),
		EventType:  eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		ScheduleID: booking.ScheduleID,
		Status:     string(booking.Status),
		Amount:     booking.TotalAmount,
		OccurredAt: time.Now().UTC(),
	})
}

// PublishReclaimEvent announces a booking written off by the expiry sweep.
// The sweep hands over bare IDs, so the event carries no user or amount.
func (a *BookingEventAdapter) PublishReclaimEvent(ctx context.Context, bookingID, scheduleID uuid.UUID) error {
	return a.producer.Publish(&BookingEvent{
		EventID:    uuid.New(),
		EventType:  "booking.reclaimed",
		BookingID:  bookingID,
		ScheduleID: scheduleID,
		Status:     "CANCELLED",
		OccurredAt: time.Now().UTC(),
	})
}
