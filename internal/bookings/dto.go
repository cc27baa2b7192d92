package bookings

import "time"

type PassengerRequest struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required"`
	Gender string `json:"gender" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Email  string `json:"email" binding:"required"`
}

type CreateBookingRequest struct {
	ScheduleID string             `json:"schedule_id" binding:"required"`
	SeatIDs    []string           `json:"seat_ids" binding:"required,min=1"`
	Passengers []PassengerRequest `json:"passengers" binding:"required,min=1,dive"`
}

type BookingSeatResponse struct {
	SeatID         string  `json:"seat_id"`
	SeatNumber     string  `json:"seat_number"`
	Price          float64 `json:"price"`
	PassengerName  string  `json:"passenger_name"`
	PassengerEmail string  `json:"passenger_email"`
}

type PassengerResponse struct {
	UID    string `json:"uid"`
	SeatID string `json:"seat_id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

type BookingResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"user_id"`
	ScheduleID    string                `json:"schedule_id"`
	Status        Status                `json:"status"`
	PaymentStatus PaymentStatus         `json:"payment_status"`
	TotalAmount   float64               `json:"total_amount"`
	BookedAt      time.Time             `json:"booked_at"`
	Seats         []BookingSeatResponse `json:"seats"`
	Passengers    []PassengerResponse   `json:"passengers"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		ScheduleID:    b.ScheduleID.String(),
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalAmount:   b.TotalAmount,
		BookedAt:      b.BookedAt,
	}
	for _, seat := range b.Seats {
		resp.Seats = append(resp.Seats, BookingSeatResponse{
			SeatID:         seat.SeatID.String(),
			SeatNumber:     seat.SeatNumber,
			Price:          seat.Price,
			PassengerName:  seat.PassengerName,
			PassengerEmail: seat.PassengerEmail,
		})
	}
	for _, p := range b.Passengers {
		resp.Passengers = append(resp.Passengers, PassengerResponse{
			UID:    p.UID,
			SeatID: p.SeatID.String(),
			Name:   p.Name,
			Age:    p.Age,
			Gender: p.Gender,
			Phone:  p.Phone,
			Email:  p.Email,
		})
	}
	return resp
}
