package schedules

import (
	"time"

	"github.com/google/uuid"

	"gorm.io/gorm"
)

// Schedule is a read-only reference to a published bus departure. Catalog
// management (cities, buses, vendors, routes) lives outside this core; the
// only mutation this service performs is seat generation when a schedule is
// published.
type Schedule struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BusName       string    `json:"bus_name" gorm:"not null"`
	Source        string    `json:"source" gorm:"not null"`
	Destination   string    `json:"destination" gorm:"not null"`
	ScheduleDate  time.Time `json:"schedule_date" gorm:"not null"`
	DepartureTime string    `json:"departure_time" gorm:"not null"`
	ArrivalTime   string    `json:"arrival_time" gorm:"not null"`
	BasePrice     float64   `json:"base_price" gorm:"not null"`
	TotalSeats    int       `json:"total_seats" gorm:"not null"`
	Active        bool      `json:"active" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Schedule) TableName() string {
	return "schedules"
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
