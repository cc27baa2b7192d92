package schedules

import "time"

type PublishScheduleRequest struct {
	BusName       string  `json:"bus_name" binding:"required"`
	Source        string  `json:"source" binding:"required"`
	Destination   string  `json:"destination" binding:"required"`
	ScheduleDate  string  `json:"schedule_date" binding:"required"` // YYYY-MM-DD
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	BasePrice     float64 `json:"base_price" binding:"required,gt=0"`
	TotalSeats    int     `json:"total_seats" binding:"required,gt=0"`
}

type ScheduleResponse struct {
	ID            string  `json:"id"`
	BusName       string  `json:"bus_name"`
	Source        string  `json:"source"`
	Destination   string  `json:"destination"`
	ScheduleDate  string  `json:"schedule_date"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	BasePrice     float64 `json:"base_price"`
	TotalSeats    int     `json:"total_seats"`
	Active        bool    `json:"active"`
}

func ToScheduleResponse(s *Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:            s.ID.String(),
		BusName:       s.BusName,
		Source:        s.Source,
		Destination:   s.Destination,
		ScheduleDate:  s.ScheduleDate.Format("2006-01-02"),
		DepartureTime: s.DepartureTime,
		ArrivalTime:   s.ArrivalTime,
		BasePrice:     s.BasePrice,
		TotalSeats:    s.TotalSeats,
		Active:        s.Active,
	}
}

func (r PublishScheduleRequest) ToSchedule() (*Schedule, error) {
	date, err := time.Parse("2006-01-02", r.ScheduleDate)
	if err != nil {
		return nil, err
	}
	return &Schedule{
		BusName:       r.BusName,
		Source:        r.Source,
		Destination:   r.Destination,
		ScheduleDate:  date,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		BasePrice:     r.BasePrice,
		TotalSeats:    r.TotalSeats,
		Active:        true,
	}, nil
}
