package seats

// SeatSelectionResult is the outcome of a pre-lock availability check.
type SeatSelectionResult struct {
	Seats            []Seat   `json:"seats"`
	AllAvailable     bool     `json:"all_available"`
	UnavailableSeats []string `json:"unavailable_seats,omitempty"`
	TotalPrice       float64  `json:"total_price"`
}

type SelectSeatsRequest struct {
	ScheduleID string   `json:"schedule_id" binding:"required"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1"`
}

type LockSeatsRequest struct {
	ScheduleID string   `json:"schedule_id" binding:"required"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1"`
}

type ReleaseSeatsRequest struct {
	ScheduleID string   `json:"schedule_id" binding:"required"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1"`
}

type SeatListResponse struct {
	ScheduleID string `json:"schedule_id"`
	Seats      []Seat `json:"seats"`
	Available  int    `json:"available"`
	Total      int    `json:"total"`
}
