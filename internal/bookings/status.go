package bookings

// Status tracks a booking through its lifecycle. PENDING bookings hold
// RESERVED seats until payment settles, the user backs out or the expiry
// sweep reclaims them.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusCancelled      Status = "CANCELLED"
	StatusCompleted      Status = "COMPLETED"
	StatusPaymentPending Status = "PAYMENT_PENDING"
	StatusPaymentFailed  Status = "PAYMENT_FAILED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusPaymentPending, StatusPaymentFailed:
		return true
	}
	return false
}

// IsCancellable reports whether the user may still cancel the booking.
// Confirmed bookings are settled money and go through a different flow.
func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusPaymentFailed
}

// PaymentStatus is the payment-side annotation kept on the booking row.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)
