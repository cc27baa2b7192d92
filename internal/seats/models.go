package seats

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seat is one sellable seat on a schedule. Status transitions are
// AVAILABLE -> RESERVED -> BOOKED, with RESERVED dropping back to
// AVAILABLE on release, cancellation or lock expiry. LockedAt is set
// exactly when the seat is RESERVED and cleared on every other transition.
type Seat struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ScheduleID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_schedule_seat_number" json:"schedule_id"`
	SeatNumber string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_schedule_seat_number" json:"seat_number"`
	Row        int        `gorm:"not null" json:"row"`
	Column     int        `gorm:"not null;column:col" json:"column"`
	SeatType   SeatType   `gorm:"type:varchar(20);not null" json:"seat_type"`
	Price      float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Status     SeatStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	LockedAt   *time.Time `gorm:"index" json:"locked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *Seat) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Seat) TableName() string {
	return "seats"
}
