package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a schedule reference does not resolve.
var ErrNotFound = errors.New("schedule not found")

// SeatGenerator creates the seat inventory for a newly published schedule
// (implemented by the seats service, injected to avoid a package cycle).
type SeatGenerator interface {
	GenerateForSchedule(ctx context.Context, scheduleID uuid.UUID, basePrice float64, totalSeats int) error
}

type Service interface {
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
	ListActive(ctx context.Context) ([]Schedule, error)
	PublishSchedule(ctx context.Context, schedule *Schedule) (*Schedule, error)
}

type service struct {
	repo          Repository
	seatGenerator SeatGenerator
}

func NewService(repo Repository, seatGenerator SeatGenerator) Service {
	return &service{
		repo:          repo,
		seatGenerator: seatGenerator,
	}
}

func (s *service) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	scheduleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID: %w", err)
	}

	schedule, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return schedule, nil
}

func (s *service) ListActive(ctx context.Context) ([]Schedule, error) {
	return s.repo.ListActive(ctx)
}

// PublishSchedule stores a schedule reference and bulk-creates its seats.
// Seats exist for the lifetime of the schedule and are only mutated through
// the seat inventory after this point.
func (s *service) PublishSchedule(ctx context.Context, schedule *Schedule) (*Schedule, error) {
	if schedule.TotalSeats <= 0 {
		return nil, fmt.Errorf("schedule must have at least one seat")
	}
	if schedule.BasePrice <= 0 {
		return nil, fmt.Errorf("schedule base price must be positive")
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	if err := s.seatGenerator.GenerateForSchedule(ctx, schedule.ID, schedule.BasePrice, schedule.TotalSeats); err != nil {
		return nil, fmt.Errorf("failed to generate seats: %w", err)
	}

	return schedule, nil
}
