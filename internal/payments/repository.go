package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a payment or transaction does not resolve to
// an active record.
var ErrNotFound = errors.New("payment not found")

// ErrSeatConflict is returned when a successful charge cannot be settled
// because the booking's seats are no longer all RESERVED. The settlement is
// rolled back so the booking never reads CONFIRMED over seats it lost.
var ErrSeatConflict = errors.New("booking seats are no longer reserved")

// PayableBooking is the slice of a booking row the payment flow needs.
type PayableBooking struct {
	ID          uuid.UUID `gorm:"column:id"`
	UserID      uuid.UUID `gorm:"column:user_id"`
	ScheduleID  uuid.UUID `gorm:"column:schedule_id"`
	Status      string    `gorm:"column:status"`
	TotalAmount float64   `gorm:"column:total_amount"`
}

type Repository interface {
	GetPayableBookings(ctx context.Context, bookingIDs []uuid.UUID) ([]PayableBooking, error)
	CreateAttempt(ctx context.Context, txn *Transaction, payment *Payment) error
	Settle(ctx context.Context, txn *Transaction, payment *Payment, result *ChargeResult) error

	GetTransactionByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetAllPayments(ctx context.Context) ([]Payment, error)
	GetPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	UpdatePayment(ctx context.Context, payment *Payment) error
	SoftDeletePayment(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPayableBookings(ctx context.Context, bookingIDs []uuid.UUID) ([]PayableBooking, error) {
	var bookings []PayableBooking
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("id, user_id, schedule_id, status, total_amount").
		Where("id IN ?", bookingIDs).
		Scan(&bookings).Error
	return bookings, err
}

// CreateAttempt records the transaction, its per-booking split and the
// payment record, and flags the bookings as payment-pending, all in one
// transaction.
func (r *repository) CreateAttempt(ctx context.Context, txn *Transaction, payment *Payment) error {
	bookingIDs := make([]uuid.UUID, 0, len(txn.Bookings))
	for _, tb := range txn.Bookings {
		bookingIDs = append(bookingIDs, tb.BookingID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		payment.TransactionID = txn.ID
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		return tx.Table("bookings").
			Where("id IN ?", bookingIDs).
			Updates(map[string]interface{}{
				"status":         "PAYMENT_PENDING",
				"payment_status": "PENDING",
				"transaction_id": txn.ID,
			}).Error
	})
}

// Settle applies the gateway verdict: transaction, split rows, payment,
// bookings and seats all move together or not at all. On success seats go
// RESERVED to BOOKED; on failure they return to AVAILABLE and the bookings
// become PAYMENT_FAILED so the user can retry or cancel.
func (r *repository) Settle(ctx context.Context, txn *Transaction, payment *Payment, result *ChargeResult) error {
	bookingIDs := make([]uuid.UUID, 0, len(txn.Bookings))
	for _, tb := range txn.Bookings {
		bookingIDs = append(bookingIDs, tb.BookingID)
	}

	txnStatus := TransactionFailed
	bookingStatus := "PAYMENT_FAILED"
	paymentStatus := "FAILED"
	seatStatus := "AVAILABLE"
	if result.Succeeded {
		txnStatus = TransactionCompleted
		bookingStatus = "CONFIRMED"
		paymentStatus = "COMPLETED"
		seatStatus = "BOOKED"
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Transaction{}).
			Where("id = ?", txn.ID).
			Update("status", txnStatus).Error; err != nil {
			return err
		}

		if err := tx.Model(&TransactionBooking{}).
			Where("transaction_id = ?", txn.ID).
			Update("status", txnStatus).Error; err != nil {
			return err
		}

		if err := tx.Table("bookings").
			Where("id IN ?", bookingIDs).
			Updates(map[string]interface{}{
				"status":         bookingStatus,
				"payment_status": paymentStatus,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"status":                   PaymentStatus(paymentStatus),
				"gateway_transaction_id":   result.GatewayTransactionID,
				"gateway_response_code":    result.ResponseCode,
				"gateway_response_message": result.ResponseMessage,
				"failure_reason":           result.FailureReason,
			}).Error; err != nil {
			return err
		}

		var seatIDs []uuid.UUID
		if err := tx.Table("booking_seats").
			Where("booking_id IN ?", bookingIDs).
			Pluck("seat_id", &seatIDs).Error; err != nil {
			return err
		}
		if len(seatIDs) == 0 {
			return nil
		}

		seatUpdate := tx.Table("seats").
			Where("id IN ? AND status = ?", seatIDs, "RESERVED").
			Updates(map[string]interface{}{
				"status":    seatStatus,
				"locked_at": nil,
			})
		if seatUpdate.Error != nil {
			return seatUpdate.Error
		}
		// A successful charge must book every seat or none. The failure path
		// stays lenient: a seat already freed by the sweep is simply skipped.
		if result.Succeeded && seatUpdate.RowsAffected != int64(len(seatIDs)) {
			return ErrSeatConflict
		}
		return nil
	})
}

func (r *repository) GetTransactionByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var txn Transaction
	err := r.db.WithContext(ctx).
		Preload("Bookings").
		First(&txn, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		First(&payment, "id = ? AND deleted = ?", id, false).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetAllPayments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) GetPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted = ?", userID, false).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) UpdatePayment(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *repository) SoftDeletePayment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
