package bookings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is one user's claim on a set of seats for a schedule. TotalAmount
// and the per-seat prices are snapshots taken at creation time so later
// price changes never affect an existing booking.
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	ScheduleID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"schedule_id"`
	TransactionID *uuid.UUID    `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	Status        Status        `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	TotalAmount   float64       `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	BookedAt      time.Time     `gorm:"not null" json:"booked_at"`
	Active        bool          `gorm:"not null" json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Seats      []BookingSeat `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"seats,omitempty"`
	Passengers []Passenger   `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"passengers,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingSeat joins a booking to one seat. The rider's details and the
// seat's price are snapshotted at booking time, so the row stands on its own
// even if the passenger record or the seat price changes later.
type BookingSeat struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID       uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	SeatID          uuid.UUID `gorm:"type:uuid;not null;index" json:"seat_id"`
	SeatNumber      string    `gorm:"type:varchar(10);not null" json:"seat_number"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	PassengerName   string    `gorm:"type:varchar(255);not null" json:"passenger_name"`
	PassengerAge    int       `gorm:"not null" json:"passenger_age"`
	PassengerGender string    `gorm:"type:varchar(20);not null" json:"passenger_gender"`
	PassengerPhone  string    `gorm:"type:varchar(20);not null" json:"passenger_phone"`
	PassengerEmail  string    `gorm:"type:varchar(255);not null" json:"passenger_email"`
	CreatedAt       time.Time `json:"created_at"`
}

func (bs *BookingSeat) BeforeCreate(tx *gorm.DB) error {
	if bs.ID == uuid.Nil {
		bs.ID = uuid.New()
	}
	return nil
}

func (BookingSeat) TableName() string {
	return "booking_seats"
}

// Passenger carries the traveller details collected at booking time, one
// per booked seat. UID is a stable identifier printed on the ticket.
type Passenger struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	SeatID    uuid.UUID `gorm:"type:uuid;not null;index" json:"seat_id"`
	UID       string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"uid"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Age       int       `gorm:"not null" json:"age"`
	Gender    string    `gorm:"type:varchar(20);not null" json:"gender"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Passenger) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Passenger) TableName() string {
	return "passengers"
}
