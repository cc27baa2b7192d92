package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"busline/pkg/logger"
	"busline/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBookingCancelled = errors.New("cannot process payment for cancelled booking")
	ErrAlreadyPaid      = errors.New("booking is already paid")
	ErrNotOwner         = errors.New("booking belongs to another user")
	ErrBookingMissing   = errors.New("one or more bookings do not exist")
)

// SeatCacheInvalidator drops cached seat views after settlement moves seats
// (to avoid circular dependency).
type SeatCacheInvalidator interface {
	InvalidateScheduleCache(ctx context.Context, scheduleID string)
}

// EventPublisher broadcasts settlement outcomes (to avoid circular
// dependency).
type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, eventType string, txn *Transaction) error
}

type Service interface {
	ProcessPayment(ctx context.Context, userID uuid.UUID, req ProcessPaymentRequest) (*PaymentResult, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetAllPayments(ctx context.Context) ([]Payment, error)
	GetUserPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        Repository
	gateway     Gateway
	invalidator SeatCacheInvalidator
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(repo Repository, gateway Gateway, invalidator SeatCacheInvalidator, publisher EventPublisher, log *logger.Logger) Service {
	return &service{
		repo:        repo,
		gateway:     gateway,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

// ProcessPayment charges one or more of the caller's bookings in a single
// transaction. The amount is the sum of the booking totals; each booking's
// share is recorded on its TransactionBooking row. A gateway decline settles
// everything as FAILED and frees the seats, and is reported as a normal
// result rather than an error.
func (s *service) ProcessPayment(ctx context.Context, userID uuid.UUID, req ProcessPaymentRequest) (*PaymentResult, error) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod)))
	if !method.IsValid() {
		return nil, fmt.Errorf("unsupported payment method %q", req.PaymentMethod)
	}

	bookingIDs, err := parseBookingIDs(req.BookingIDs)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.GetPayableBookings(ctx, bookingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	if len(bookings) != len(bookingIDs) {
		return nil, ErrBookingMissing
	}

	total := decimal.Zero
	txnBookings := make([]TransactionBooking, 0, len(bookings))
	scheduleIDs := make(map[uuid.UUID]bool, len(bookings))
	for _, b := range bookings {
		if b.UserID != userID {
			return nil, ErrNotOwner
		}
		switch b.Status {
		case "CANCELLED":
			return nil, ErrBookingCancelled
		case "CONFIRMED", "COMPLETED":
			return nil, ErrAlreadyPaid
		}
		txnBookings = append(txnBookings, TransactionBooking{
			BookingID: b.ID,
			Amount:    b.TotalAmount,
			Status:    TransactionPending,
		})
		total = total.Add(decimal.NewFromFloat(b.TotalAmount))
		scheduleIDs[b.ScheduleID] = true
	}

	txn := &Transaction{
		UserID:        userID,
		ScheduleID:    bookings[0].ScheduleID,
		TotalAmount:   total.Round(2).InexactFloat64(),
		PaymentMethod: method,
		Reference:     GenerateTransactionReference(),
		Status:        TransactionPending,
		Active:        true,
		Bookings:      txnBookings,
	}
	payment := &Payment{
		UserID:               userID,
		TotalPrice:           txn.TotalAmount,
		PaymentMethod:        method,
		Status:               PaymentPending,
		TransactionReference: txn.Reference,
		PaymentDate:          s.now().UTC(),
		CardLastFourDigits:   req.CardLastFourDigits,
		CardType:             req.CardType,
		BankName:             req.BankName,
		UpiID:                req.UpiID,
		WalletName:           req.WalletName,
	}

	if err := s.repo.CreateAttempt(ctx, txn, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		Reference: txn.Reference,
		Amount:    txn.TotalAmount,
		Method:    method,
	})
	if err != nil {
		// The gateway never answered; settle as failed so the seats free up,
		// then surface the infrastructure error.
		failure := &ChargeResult{
			Succeeded:       false,
			ResponseCode:    "GATEWAY_ERROR",
			ResponseMessage: "Payment gateway unreachable",
			FailureReason:   err.Error(),
		}
		if settleErr := s.settle(ctx, txn, payment, failure, scheduleIDs); settleErr != nil {
			s.logger.WithError(settleErr).Error("failed to settle after gateway error")
		}
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}

	if err := s.settle(ctx, txn, payment, result, scheduleIDs); err != nil {
		return nil, err
	}

	status := PaymentFailed
	if result.Succeeded {
		status = PaymentCompleted
	}

	return &PaymentResult{
		TransactionID: txn.ID.String(),
		Reference:     txn.Reference,
		BookingIDs:    req.BookingIDs,
		Status:        status,
		PaymentMethod: method,
		Amount:        txn.TotalAmount,
		Message:       result.ResponseMessage,
		Success:       result.Succeeded,
		ProcessedAt:   s.now().UTC(),
	}, nil
}

func (s *service) settle(ctx context.Context, txn *Transaction, payment *Payment, result *ChargeResult, scheduleIDs map[uuid.UUID]bool) error {
	if err := s.repo.Settle(ctx, txn, payment, result); err != nil {
		return fmt.Errorf("failed to settle payment: %w", err)
	}

	status := "failed"
	eventType := "payment.failed"
	if result.Succeeded {
		status = "completed"
		eventType = "payment.completed"
	}
	metrics.PaymentsProcessed.WithLabelValues(status).Inc()
	for _, tb := range txn.Bookings {
		s.logger.LogPaymentSettled(ctx, txn.ID.String(), tb.BookingID.String(), status)
	}
	if s.invalidator != nil {
		for scheduleID := range scheduleIDs {
			s.invalidator.InvalidateScheduleCache(ctx, scheduleID.String())
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishPaymentEvent(ctx, eventType, txn); err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"event_type":     eventType,
				"transaction_id": txn.ID.String(),
			}).Warn("failed to publish payment event")
		}
	}
	return nil
}

func parseBookingIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid booking ID %q: %w", r, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate booking ID %q", r)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	payment, err := s.repo.GetPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (s *service) GetAllPayments(ctx context.Context) ([]Payment, error) {
	return s.repo.GetAllPayments(ctx)
}

func (s *service) GetUserPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	return s.repo.GetPaymentsByUser(ctx, userID)
}

// UpdatePayment lets the user correct the instrument details on a payment
// record. Settlement state never changes here.
func (s *service) UpdatePayment(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CardLastFourDigits != "" {
		payment.CardLastFourDigits = req.CardLastFourDigits
	}
	if req.CardType != "" {
		payment.CardType = req.CardType
	}
	if req.BankName != "" {
		payment.BankName = req.BankName
	}
	if req.UpiID != "" {
		payment.UpiID = req.UpiID
	}
	if req.WalletName != "" {
		payment.WalletName = req.WalletName
	}

	if err := s.repo.UpdatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return payment, nil
}

func (s *service) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDeletePayment(ctx, id)
}
