package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSeatConflict is returned when the seats for a booking could not all be
// reserved. The booking row is never created in that case.
var ErrSeatConflict = errors.New("one or more seats are not available")

type Repository interface {
	Create(ctx context.Context, booking *Booking, lockedAt time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	Cancel(ctx context.Context, booking *Booking, seatIDs []uuid.UUID) error
	ReleaseBookingSeats(ctx context.Context, booking *Booking, seatIDs []uuid.UUID) (int64, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	ScheduleExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create reserves the booking's seats and inserts the booking with its seat
// and passenger rows in one transaction. The seat update is conditional on
// each seat still being AVAILABLE or RESERVED, so a seat that went BOOKED
// under a competing booking fails the whole creation. Only seats coming from
// AVAILABLE get a fresh lock stamp; an existing hold keeps its original
// locked_at so re-booking cannot renew it past the reclamation window.
func (r *repository) Create(ctx context.Context, booking *Booking, lockedAt time.Time) error {
	seatIDs := make([]uuid.UUID, 0, len(booking.Seats))
	for _, bs := range booking.Seats {
		seatIDs = append(seatIDs, bs.SeatID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Table("seats").
			Where("schedule_id = ? AND id IN ? AND status IN ?", booking.ScheduleID, seatIDs,
				[]string{"AVAILABLE", "RESERVED"}).
			Updates(map[string]interface{}{
				"locked_at": gorm.Expr("CASE WHEN status = 'AVAILABLE' THEN ? ELSE locked_at END", lockedAt),
				"status":    "RESERVED",
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return ErrSeatConflict
		}

		return tx.Create(booking).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Passengers").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Passengers").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// Cancel flips the booking to CANCELLED and frees its RESERVED seats in one
// transaction, so the booking state and the seat map cannot diverge.
func (r *repository) Cancel(ctx context.Context, booking *Booking, seatIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"status": StatusCancelled,
				"active": false,
			})
		if result.Error != nil {
			return result.Error
		}

		if len(seatIDs) > 0 {
			err := tx.Table("seats").
				Where("schedule_id = ? AND id IN ? AND status = ?", booking.ScheduleID, seatIDs, "RESERVED").
				Updates(map[string]interface{}{
					"status":    "AVAILABLE",
					"locked_at": nil,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReleaseBookingSeats frees the booking's RESERVED seats without changing
// the booking itself. Used when a user backs out of seat selection but keeps
// the booking open.
func (r *repository) ReleaseBookingSeats(ctx context.Context, booking *Booking, seatIDs []uuid.UUID) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Table("seats").
		Where("schedule_id = ? AND id IN ? AND status = ?", booking.ScheduleID, seatIDs, "RESERVED").
		Updates(map[string]interface{}{
			"status":    "AVAILABLE",
			"locked_at": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("users").Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) ScheduleExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("schedules").Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
