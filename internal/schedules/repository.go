package schedules

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	Create(ctx context.Context, schedule *Schedule) error
	ListActive(ctx context.Context) ([]Schedule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	var schedule Schedule
	err := r.db.WithContext(ctx).First(&schedule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) Create(ctx context.Context, schedule *Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *repository) ListActive(ctx context.Context) ([]Schedule, error) {
	var list []Schedule
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("schedule_date ASC, departure_time ASC").
		Find(&list).Error
	return list, err
}
