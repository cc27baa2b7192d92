package reclaimer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpiredBooking identifies one stale booking picked up by a sweep.
type ExpiredBooking struct {
	ID         uuid.UUID `gorm:"column:id"`
	ScheduleID uuid.UUID `gorm:"column:schedule_id"`
}

// ReclaimedSeat identifies one seat freed by the seat sweep.
type ReclaimedSeat struct {
	ID         uuid.UUID `gorm:"column:id"`
	ScheduleID uuid.UUID `gorm:"column:schedule_id"`
}

type Repository interface {
	// ReclaimExpiredBookings cancels PENDING bookings created before the
	// cutoff and frees their RESERVED seats, all in one transaction.
	ReclaimExpiredBookings(ctx context.Context, cutoff time.Time) ([]ExpiredBooking, error)

	// ReclaimExpiredSeats frees RESERVED seats locked before the cutoff:
	// orphan locks and seats of PENDING or PAYMENT_FAILED bookings. Seats
	// whose booking is mid-settlement or already paid are never touched.
	ReclaimExpiredSeats(ctx context.Context, cutoff time.Time) ([]ReclaimedSeat, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReclaimExpiredBookings(ctx context.Context, cutoff time.Time) ([]ExpiredBooking, error) {
	var expired []ExpiredBooking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("bookings").
			Select("id, schedule_id").
			Where("status = ? AND created_at < ?", "PENDING", cutoff).
			Scan(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		bookingIDs := make([]uuid.UUID, 0, len(expired))
		for _, b := range expired {
			bookingIDs = append(bookingIDs, b.ID)
		}

		if err := tx.Table("bookings").
			Where("id IN ?", bookingIDs).
			Updates(map[string]interface{}{
				"status":         "CANCELLED",
				"payment_status": "FAILED",
				"active":         false,
			}).Error; err != nil {
			return err
		}

		seatSubquery := tx.Table("booking_seats").
			Select("seat_id").
			Where("booking_id IN ?", bookingIDs)

		return tx.Table("seats").
			Where("id IN (?) AND status = ?", seatSubquery, "RESERVED").
			Updates(map[string]interface{}{
				"status":    "AVAILABLE",
				"locked_at": nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func (r *repository) ReclaimExpiredSeats(ctx context.Context, cutoff time.Time) ([]ReclaimedSeat, error) {
	var reclaimed []ReclaimedSeat

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The seat threshold is shorter than the booking threshold, so a
		// seat can go back to AVAILABLE while its PENDING booking is still
		// inside its own window; the booking sweep catches the booking on
		// its own clock. A seat whose booking is PAYMENT_PENDING has a
		// gateway call in flight and must not be pulled out from under it.
		protected := tx.Table("booking_seats bs").
			Select("bs.seat_id").
			Joins("JOIN bookings b ON b.id = bs.booking_id").
			Where("b.status IN ?", []string{"PAYMENT_PENDING", "CONFIRMED", "COMPLETED"})

		if err := tx.Table("seats").
			Select("id, schedule_id").
			Where("status = ? AND locked_at < ? AND id NOT IN (?)", "RESERVED", cutoff, protected).
			Scan(&reclaimed).Error; err != nil {
			return err
		}
		if len(reclaimed) == 0 {
			return nil
		}

		seatIDs := make([]uuid.UUID, 0, len(reclaimed))
		for _, s := range reclaimed {
			seatIDs = append(seatIDs, s.ID)
		}

		return tx.Table("seats").
			Where("id IN ? AND status = ?", seatIDs, "RESERVED").
			Updates(map[string]interface{}{
				"status":    "AVAILABLE",
				"locked_at": nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return reclaimed, nil
}
