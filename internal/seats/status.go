package seats

// SeatStatus tracks a seat through the booking lifecycle.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "AVAILABLE"
	StatusReserved  SeatStatus = "RESERVED"
	StatusBooked    SeatStatus = "BOOKED"
	StatusBlocked   SeatStatus = "BLOCKED"
)

func (s SeatStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusBooked, StatusBlocked:
		return true
	}
	return false
}

// SeatType drives the pricing premium applied on top of a schedule's base price.
type SeatType string

const (
	TypeWindow SeatType = "WINDOW"
	TypeAisle  SeatType = "AISLE"
	TypeMiddle SeatType = "MIDDLE"
)

func (t SeatType) IsValid() bool {
	switch t {
	case TypeWindow, TypeAisle, TypeMiddle:
		return true
	}
	return false
}
