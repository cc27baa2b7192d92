package database

import (
	"busline/internal/bookings"
	"busline/internal/payments"
	"busline/internal/schedules"
	"busline/internal/seats"
	"busline/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&schedules.Schedule{},
		&seats.Seat{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Passenger{},
		&payments.Transaction{},
		&payments.TransactionBooking{},
		&payments.Payment{},
	)
}
