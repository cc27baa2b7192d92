package notifications

import (
	"context"
	"time"

	"busline/internal/payments"

	"github.com/google/uuid"
)

// PaymentEventAdapter implements the payments.EventPublisher interface on
// top of the Kafka producer. A multi-booking transaction fans out into one
// event per settled booking.
type PaymentEventAdapter struct {
	producer Producer
}

func NewPaymentEventAdapter(producer Producer) *PaymentEventAdapter {
	return &PaymentEventAdapter{producer: producer}
}

func (a *PaymentEventAdapter) PublishPaymentEvent(ctx context.Context, eventType string, txn *payments.Transaction) error {
	status := "CONFIRMED"
	if eventType == "payment.failed" {
		status = "PAYMENT_FAILED"
	}
	for _, tb := range txn.Bookings {
		event := &BookingEvent{
			EventID:    uuid.New(),
			EventType:  eventType,
			BookingID:  tb.BookingID,
			UserID:     txn.UserID,
			ScheduleID: txn.ScheduleID,
			Status:     status,
			Amount:     tb.Amount,
			OccurredAt: time.Now().UTC(),
		}
		if err := a.producer.Publish(event); err != nil {
			return err
		}
	}
	return nil
}
