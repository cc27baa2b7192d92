package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busline/internal/shared/constants"
	"busline/pkg/cache"
	"busline/pkg/logger"
	"busline/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a seat lookup does not resolve.
var ErrNotFound = errors.New("seat not found")

const seatsPerRow = 4

type Service interface {
	GenerateForSchedule(ctx context.Context, scheduleID uuid.UUID, basePrice float64, totalSeats int) error
	ListSeats(ctx context.Context, scheduleID string) ([]Seat, error)
	CountAvailable(ctx context.Context, scheduleID string) (int64, error)
	SelectSeats(ctx context.Context, scheduleID string, seatIDs []string) (*SeatSelectionResult, error)
	LockSeats(ctx context.Context, scheduleID string, seatIDs []string) error
	ReleaseSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error)
	MarkBooked(ctx context.Context, scheduleID string, seatIDs []string) error
	InvalidateScheduleCache(ctx context.Context, scheduleID string)
}

type service struct {
	repo   Repository
	cache  cache.Service
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		logger: log,
		now:    time.Now,
	}
}

// GenerateForSchedule bulk-creates the seat map for a schedule: four seats
// per row, outer columns as window seats and inner columns as aisle seats.
// Window seats carry a 10% premium, aisle seats 5%, and the first three
// rows another 5%, all on top of the schedule's base price.
func (s *service) GenerateForSchedule(ctx context.Context, scheduleID uuid.UUID, basePrice float64, totalSeats int) error {
	if totalSeats <= 0 {
		return fmt.Errorf("total seats must be positive")
	}

	seats := make([]Seat, 0, totalSeats)
	for i := 0; i < totalSeats; i++ {
		row := i/seatsPerRow + 1
		col := i%seatsPerRow + 1

		seatType := TypeAisle
		if col == 1 || col == seatsPerRow {
			seatType = TypeWindow
		}

		seats = append(seats, Seat{
			ScheduleID: scheduleID,
			SeatNumber: fmt.Sprintf("%02d", i+1),
			Row:        row,
			Column:     col,
			SeatType:   seatType,
			Price:      seatPrice(basePrice, seatType, row),
			Status:     StatusAvailable,
		})
	}

	if err := s.repo.CreateSeats(ctx, seats); err != nil {
		return fmt.Errorf("failed to create seats: %w", err)
	}

	s.invalidateScheduleCache(ctx, scheduleID.String())
	return nil
}

func seatPrice(basePrice float64, seatType SeatType, row int) float64 {
	price := decimal.NewFromFloat(basePrice)

	switch seatType {
	case TypeWindow:
		price = price.Add(price.Mul(decimal.NewFromFloat(0.10)))
	case TypeAisle:
		price = price.Add(decimal.NewFromFloat(basePrice).Mul(decimal.NewFromFloat(0.05)))
	}
	if row <= 3 {
		price = price.Add(decimal.NewFromFloat(basePrice).Mul(decimal.NewFromFloat(0.05)))
	}

	return price.Round(2).InexactFloat64()
}

func (s *service) ListSeats(ctx context.Context, scheduleID string) ([]Seat, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID: %w", err)
	}

	cacheKey := constants.BuildSeatListKey(scheduleID)
	var seats []Seat
	err = s.cache.GetOrSet(ctx, cacheKey, constants.TTL_SEATS_LIST, func() (interface{}, error) {
		return s.repo.GetSeatsBySchedule(ctx, id)
	}, &seats)
	if err != nil {
		// Cache trouble should not take seat listings down.
		s.logger.WithError(err).Warn("seat list cache lookup failed, reading from database")
		return s.repo.GetSeatsBySchedule(ctx, id)
	}
	return seats, nil
}

func (s *service) CountAvailable(ctx context.Context, scheduleID string) (int64, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule ID: %w", err)
	}

	cacheKey := constants.BuildSeatCountKey(scheduleID)
	var count int64
	err = s.cache.GetOrSet(ctx, cacheKey, constants.TTL_SEATS_COUNT, func() (interface{}, error) {
		return s.repo.CountAvailable(ctx, id)
	}, &count)
	if err != nil {
		s.logger.WithError(err).Warn("seat count cache lookup failed, reading from database")
		return s.repo.CountAvailable(ctx, id)
	}
	return count, nil
}

// SelectSeats is the pre-lock availability check. It reads current state and
// prices without mutating anything, so the answer can go stale the moment it
// is returned. LockSeats is the only authority on who gets a seat.
func (s *service) SelectSeats(ctx context.Context, scheduleID string, seatIDs []string) (*SeatSelectionResult, error) {
	schedID, ids, err := parseSeatRequest(scheduleID, seatIDs)
	if err != nil {
		return nil, err
	}

	seats, err := s.repo.GetSeatsByIDs(ctx, schedID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}
	if len(seats) != len(ids) {
		return nil, ErrNotFound
	}

	result := &SeatSelectionResult{Seats: seats, AllAvailable: true}
	total := decimal.Zero
	for _, seat := range seats {
		if seat.Status != StatusAvailable {
			result.AllAvailable = false
			result.UnavailableSeats = append(result.UnavailableSeats, seat.SeatNumber)
			continue
		}
		total = total.Add(decimal.NewFromFloat(seat.Price))
	}
	if result.AllAvailable {
		result.TotalPrice = total.Round(2).InexactFloat64()
	}
	return result, nil
}

func (s *service) LockSeats(ctx context.Context, scheduleID string, seatIDs []string) error {
	schedID, ids, err := parseSeatRequest(scheduleID, seatIDs)
	if err != nil {
		return err
	}

	if err := s.repo.LockSeats(ctx, schedID, ids, s.now().UTC()); err != nil {
		if errors.Is(err, ErrSeatConflict) {
			metrics.SeatLockConflicts.Inc()
		}
		return err
	}

	metrics.SeatsLocked.Add(float64(len(ids)))
	s.invalidateScheduleCache(ctx, scheduleID)
	return nil
}

func (s *service) ReleaseSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error) {
	schedID, ids, err := parseSeatRequest(scheduleID, seatIDs)
	if err != nil {
		return 0, err
	}

	released, err := s.repo.ReleaseSeats(ctx, schedID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to release seats: %w", err)
	}
	if released > 0 {
		s.invalidateScheduleCache(ctx, scheduleID)
	}
	return released, nil
}

func (s *service) MarkBooked(ctx context.Context, scheduleID string, seatIDs []string) error {
	schedID, ids, err := parseSeatRequest(scheduleID, seatIDs)
	if err != nil {
		return err
	}

	if err := s.repo.MarkBooked(ctx, schedID, ids); err != nil {
		return err
	}
	s.invalidateScheduleCache(ctx, scheduleID)
	return nil
}

func parseSeatRequest(scheduleID string, seatIDs []string) (uuid.UUID, []uuid.UUID, error) {
	schedID, err := uuid.Parse(scheduleID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid schedule ID: %w", err)
	}
	if len(seatIDs) == 0 {
		return uuid.Nil, nil, fmt.Errorf("at least one seat ID is required")
	}

	ids := make([]uuid.UUID, 0, len(seatIDs))
	seen := make(map[uuid.UUID]bool, len(seatIDs))
	for _, raw := range seatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("invalid seat ID %q: %w", raw, err)
		}
		if seen[id] {
			return uuid.Nil, nil, fmt.Errorf("duplicate seat ID %q", raw)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return schedID, ids, nil
}

// InvalidateScheduleCache drops every cached seat view for a schedule. Other
// services call this after they touch the seats table directly.
func (s *service) InvalidateScheduleCache(ctx context.Context, scheduleID string) {
	s.invalidateScheduleCache(ctx, scheduleID)
}

func (s *service) invalidateScheduleCache(ctx context.Context, scheduleID string) {
	if err := s.cache.DeletePattern(ctx, constants.SeatKeysPattern(scheduleID)); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate seat cache")
	}
}

// IsNotFound reports whether err means the seats do not exist rather than
// being unavailable.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
