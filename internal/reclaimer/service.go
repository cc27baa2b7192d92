package reclaimer

import (
	"context"
	"fmt"
	"time"

	"busline/pkg/logger"
	"busline/pkg/metrics"

	"github.com/google/uuid"
)

// SeatCacheInvalidator drops cached seat views for schedules whose seats a
// sweep touched (to avoid circular dependency).
type SeatCacheInvalidator interface {
	InvalidateScheduleCache(ctx context.Context, scheduleID string)
}

// EventPublisher announces bookings written off by the sweep (to avoid
// circular dependency).
type EventPublisher interface {
	PublishReclaimEvent(ctx context.Context, bookingID, scheduleID uuid.UUID) error
}

// SweepReport summarizes one full reclamation pass.
type SweepReport struct {
	BookingsReclaimed int       `json:"bookings_reclaimed"`
	SeatsReclaimed    int       `json:"seats_reclaimed"`
	RanAt             time.Time `json:"ran_at"`
}

type Service interface {
	SweepExpiredBookings(ctx context.Context) (int, error)
	SweepExpiredSeats(ctx context.Context) (int, error)
	RunNow(ctx context.Context) (*SweepReport, error)
}

// Config carries the two expiry thresholds. The seat TTL is shorter than the
// booking TTL, so an abandoned lock frees up before its booking is written
// off.
type Config struct {
	SeatLockTTL time.Duration
	BookingTTL  time.Duration
}

type service struct {
	repo        Repository
	invalidator SeatCacheInvalidator
	publisher   EventPublisher
	config      Config
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(repo Repository, invalidator SeatCacheInvalidator, publisher EventPublisher, config Config, log *logger.Logger) Service {
	return &service{
		repo:        repo,
		invalidator: invalidator,
		publisher:   publisher,
		config:      config,
		logger:      log,
		now:         time.Now,
	}
}

// SweepExpiredBookings cancels PENDING bookings older than the booking TTL
// and frees their seats.
func (s *service) SweepExpiredBookings(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.config.BookingTTL)

	expired, err := s.repo.ReclaimExpiredBookings(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim expired bookings: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	metrics.BookingsReclaimed.Add(float64(len(expired)))
	metrics.BookingsCancelled.WithLabelValues("expired").Add(float64(len(expired)))
	s.invalidateSchedules(ctx, scheduleIDsOfBookings(expired))
	s.publishReclaimed(ctx, expired)
	return len(expired), nil
}

// SweepExpiredSeats frees every RESERVED seat whose lock is older than the
// seat TTL. A seat attached to a still-PENDING booking is released too; the
// booking itself stays on the longer booking clock.
func (s *service) SweepExpiredSeats(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.config.SeatLockTTL)

	reclaimed, err := s.repo.ReclaimExpiredSeats(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim expired seats: %w", err)
	}
	if len(reclaimed) == 0 {
		return 0, nil
	}

	metrics.SeatsReclaimed.Add(float64(len(reclaimed)))
	s.invalidateSchedules(ctx, scheduleIDsOfSeats(reclaimed))
	return len(reclaimed), nil
}

// RunNow executes both sweeps immediately, for the operator endpoint. The
// booking sweep runs first so seats it frees are not double-counted by the
// seat sweep.
func (s *service) RunNow(ctx context.Context) (*SweepReport, error) {
	bookings, err := s.SweepExpiredBookings(ctx)
	if err != nil {
		return nil, err
	}
	seats, err := s.SweepExpiredSeats(ctx)
	if err != nil {
		return nil, err
	}
	return &SweepReport{
		BookingsReclaimed: bookings,
		SeatsReclaimed:    seats,
		RanAt:             s.now().UTC(),
	}, nil
}

func (s *service) publishReclaimed(ctx context.Context, expired []ExpiredBooking) {
	if s.publisher == nil {
		return
	}
	for _, b := range expired {
		if err := s.publisher.PublishReclaimEvent(ctx, b.ID, b.ScheduleID); err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"booking_id": b.ID.String(),
			}).Warn("failed to publish reclaim event")
		}
	}
}

func (s *service) invalidateSchedules(ctx context.Context, ids map[uuid.UUID]bool) {
	if s.invalidator == nil {
		return
	}
	for id := range ids {
		s.invalidator.InvalidateScheduleCache(ctx, id.String())
	}
}

func scheduleIDsOfBookings(bookings []ExpiredBooking) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(bookings))
	for _, b := range bookings {
		ids[b.ScheduleID] = true
	}
	return ids
}

func scheduleIDsOfSeats(seats []ReclaimedSeat) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(seats))
	for _, s := range seats {
		ids[s.ScheduleID] = true
	}
	return ids
}
