package bookings

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
	ErrNotFound         = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking belongs to another user")
	ErrNotCancellable   = errors.New("booking can no longer be cancelled")
	ErrNotPending       = errors.New("booking is not pending")
	ErrUserNotFound     = errors.New("user not found")
	ErrScheduleNotFound = errors.New("schedule not found")
)

// SeatService interface for seat-related operations (to avoid circular dependency)
type SeatService interface {
	GetSeatsForBooking(ctx context.Context, scheduleID string, seatIDs []string) ([]SeatInfo, error)
	InvalidateScheduleCache(ctx context.Context, scheduleID string)
}

// SeatInfo represents seat information as the booking flow sees it
type SeatInfo struct {
	ID         string  `json:"id"`
	SeatNumber string  `json:"seat_number"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
}

// EventPublisher publishes booking lifecycle events (to avoid circular dependency)
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *Booking) error
}

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error
	UnlockBookingSeats(ctx context.Context, bookingID, userID uuid.UUID) (int64, error)
}

type service struct {
	repo        Repository
	seatService SeatService
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(repo Repository, seatService SeatService, publisher EventPublisher, log *logger.Logger) Service {
	return &service{
		repo:        repo,
		seatService: seatService,
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

// CreateBooking validates the request, snapshots each rider's details and
// seat price onto the booking seats, reserves the seats and persists the
// booking as PENDING in a single transaction. Passengers pair with seats by
// position: passenger i rides seat i.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*Booking, error) {
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID: %w", err)
	}
	if len(req.Passengers) != len(req.SeatIDs) {
		return nil, fmt.Errorf("expected one passenger per seat: %d seats, %d passengers",
			len(req.SeatIDs), len(req.Passengers))
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID %q: %w", raw, err)
		}
		seatIDs = append(seatIDs, id)
	}

	passengers, err := buildPassengers(req.Passengers, seatIDs)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, userID, scheduleID); err != nil {
		return nil, err
	}

	seatInfos, err := s.seatService.GetSeatsForBooking(ctx, req.ScheduleID, req.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seats: %w", err)
	}
	if len(seatInfos) != len(req.SeatIDs) {
		return nil, fmt.Errorf("some seats do not exist on this schedule")
	}

	infoBySeat := make(map[uuid.UUID]SeatInfo, len(seatInfos))
	for _, info := range seatInfos {
		if info.Status == "BOOKED" || info.Status == "BLOCKED" {
			return nil, ErrSeatConflict
		}
		seatID, err := uuid.Parse(info.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID from seat service: %w", err)
		}
		infoBySeat[seatID] = info
	}

	bookingSeats := make([]BookingSeat, 0, len(seatIDs))
	total := decimal.Zero
	for i, seatID := range seatIDs {
		info, ok := infoBySeat[seatID]
		if !ok {
			return nil, fmt.Errorf("some seats do not exist on this schedule")
		}
		rider := passengers[i]
		bookingSeats = append(bookingSeats, BookingSeat{
			SeatID:          seatID,
			SeatNumber:      info.SeatNumber,
			Price:           info.Price,
			PassengerName:   rider.Name,
			PassengerAge:    rider.Age,
			PassengerGender: rider.Gender,
			PassengerPhone:  rider.Phone,
			PassengerEmail:  rider.Email,
		})
		total = total.Add(decimal.NewFromFloat(info.Price))
	}

	now := s.now().UTC()
	booking := &Booking{
		UserID:        userID,
		ScheduleID:    scheduleID,
		Status:        StatusPending,
		PaymentStatus: PaymentStatusPending,
		TotalAmount:   total.Round(2).InexactFloat64(),
		BookedAt:      now,
		Active:        true,
		Seats:         bookingSeats,
		Passengers:    passengers,
	}

	if err := s.repo.Create(ctx, booking, now); err != nil {
		return nil, err
	}

	s.seatService.InvalidateScheduleCache(ctx, req.ScheduleID)
	metrics.BookingsCreated.Inc()
	s.logger.LogBookingCreated(ctx, booking.ID.String(), req.ScheduleID, userID.String())
	s.publishEvent(ctx, "booking.created", booking)

	return booking, nil
}

// checkReferences confirms the caller and the schedule exist before any seat
// work happens. A stale reference is a not-found error, not a conflict.
func (s *service) checkReferences(ctx context.Context, userID, scheduleID uuid.UUID) error {
	userOK, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	if !userOK {
		return ErrUserNotFound
	}
	scheduleOK, err := s.repo.ScheduleExists(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to verify schedule: %w", err)
	}
	if !scheduleOK {
		return ErrScheduleNotFound
	}
	return nil
}

func buildPassengers(reqs []PassengerRequest, seatIDs []uuid.UUID) ([]Passenger, error) {
	passengers := make([]Passenger, 0, len(reqs))
	for i, p := range reqs {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("passenger %d: name is required", i+1)
		}
		if p.Age < 1 || p.Age > 120 {
			return nil, fmt.Errorf("passenger %d: age must be between 1 and 120", i+1)
		}
		if strings.TrimSpace(p.Gender) == "" {
			return nil, fmt.Errorf("passenger %d: gender is required", i+1)
		}
		phone, err := normalizePhone(p.Phone)
		if err != nil {
			return nil, fmt.Errorf("passenger %d: %w", i+1, err)
		}
		email := strings.ToLower(strings.TrimSpace(p.Email))
		if email == "" {
			return nil, fmt.Errorf("passenger %d: email is required", i+1)
		}
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("passenger %d: email %q is not valid", i+1, p.Email)
		}
		passengers = append(passengers, Passenger{
			SeatID: seatIDs[i],
			UID:    uuid.New().String(),
			Name:   name,
			Age:    p.Age,
			Gender: strings.ToUpper(strings.TrimSpace(p.Gender)),
			Phone:  phone,
			Email:  email,
		})
	}
	return passengers, nil
}

// normalizePhone strips formatting and country prefixes, keeping the trailing
// ten digits.
func normalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 10 {
		return "", fmt.Errorf("phone number must have at least 10 digits")
	}
	return d[len(d)-10:], nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// CancelBooking cancels a PENDING or PAYMENT_FAILED booking owned by the
// caller and frees its seats. Confirmed bookings are out of scope here.
func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := s.GetBooking(ctx, bookingID, userID)
	if err != nil {
		return err
	}
	if !booking.Status.IsCancellable() {
		return ErrNotCancellable
	}

	seatIDs := make([]uuid.UUID, 0, len(booking.Seats))
	for _, bs := range booking.Seats {
		seatIDs = append(seatIDs, bs.SeatID)
	}

	if err := s.repo.Cancel(ctx, booking, seatIDs); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.seatService.InvalidateScheduleCache(ctx, booking.ScheduleID.String())
	metrics.BookingsCancelled.WithLabelValues("user").Inc()
	s.logger.LogBookingCancelled(ctx, bookingID.String(), userID.String())
	s.publishEvent(ctx, "booking.cancelled", booking)
	return nil
}

// UnlockBookingSeats frees the seats of a PENDING booking without touching
// the booking itself, for users backing out of seat selection. The release
// is idempotent.
func (s *service) UnlockBookingSeats(ctx context.Context, bookingID, userID uuid.UUID) (int64, error) {
	booking, err := s.GetBooking(ctx, bookingID, userID)
	if err != nil {
		return 0, err
	}
	if booking.Status != StatusPending {
		return 0, ErrNotPending
	}

	seatIDs := make([]uuid.UUID, 0, len(booking.Seats))
	for _, bs := range booking.Seats {
		seatIDs = append(seatIDs, bs.SeatID)
	}

	released, err := s.repo.ReleaseBookingSeats(ctx, booking, seatIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to release seats: %w", err)
	}
	if released > 0 {
		s.seatService.InvalidateScheduleCache(ctx, booking.ScheduleID.String())
	}
	return released, nil
}

func (s *service) publishEvent(ctx context.Context, eventType string, booking *Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, eventType, booking); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"event_type": eventType,
			"booking_id": booking.ID.String(),
		}).Warn("failed to publish booking event")
	}
}
