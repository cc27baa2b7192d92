package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSeatConflict is returned when a conditional status transition could not
// be applied to every requested seat. The enclosing transaction is rolled
// back, so a partial lock never becomes visible.
var ErrSeatConflict = errors.New("one or more seats are not available")

type Repository interface {
	CreateSeats(ctx context.Context, seats []Seat) error
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)
	CountAvailable(ctx context.Context, scheduleID uuid.UUID) (int64, error)

	// Status transitions. All of these are conditional updates: the WHERE
	// clause carries the expected current status so concurrent writers
	// cannot double-apply a transition.
	LockSeats(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID, lockedAt time.Time) error
	ReleaseSeats(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) (int64, error)
	MarkBooked(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	return r.db.WithContext(ctx).Create(&seats).Error
}

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("row ASC, col ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByIDs(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND id IN ?", scheduleID, seatIDs).
		Find(&seats).Error
	return seats, err
}

func (r *repository) CountAvailable(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("schedule_id = ? AND status = ?", scheduleID, StatusAvailable).
		Count(&count).Error
	return count, err
}

// LockSeats atomically moves every requested seat from AVAILABLE to RESERVED
// and stamps LockedAt. If any seat is already taken the whole lock fails with
// ErrSeatConflict and nothing is changed.
func (r *repository) LockSeats(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID, lockedAt time.Time) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("no seat IDs provided")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("schedule_id = ? AND id IN ? AND status = ?", scheduleID, seatIDs, StatusAvailable).
			Updates(map[string]interface{}{
				"status":    StatusReserved,
				"locked_at": lockedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return ErrSeatConflict
		}
		return nil
	})
}

// ReleaseSeats moves RESERVED seats back to AVAILABLE and clears LockedAt.
// Seats that are not RESERVED are skipped, so releasing twice is harmless.
func (r *repository) ReleaseSeats(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&Seat{}).
		Where("schedule_id = ? AND id IN ? AND status = ?", scheduleID, seatIDs, StatusReserved).
		Updates(map[string]interface{}{
			"status":    StatusAvailable,
			"locked_at": nil,
		})
	return result.RowsAffected, result.Error
}

// MarkBooked finalizes RESERVED seats to BOOKED. Like LockSeats this is
// all-or-nothing: a seat that lost its reservation in the meantime fails
// the whole batch.
func (r *repository) MarkBooked(ctx context.Context, scheduleID uuid.UUID, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("no seat IDs provided")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("schedule_id = ? AND id IN ? AND status = ?", scheduleID, seatIDs, StatusReserved).
			Updates(map[string]interface{}{
				"status":    StatusBooked,
				"locked_at": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return ErrSeatConflict
		}
		return nil
	})
}
