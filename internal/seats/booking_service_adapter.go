package seats

import (
	"context"
	"fmt"

	"busline/internal/bookings"

	"github.com/google/uuid"
)

// BookingServiceAdapter implements the bookings.SeatService interface on top
// of the seat repository. It keeps the bookings package free of a direct
// dependency on seat internals.
type BookingServiceAdapter struct {
	repo    Repository
	service Service
}

func NewBookingServiceAdapter(repo Repository, service Service) *BookingServiceAdapter {
	return &BookingServiceAdapter{
		repo:    repo,
		service: service,
	}
}

// GetSeatsForBooking resolves the requested seats on a schedule and returns
// them in the shape the booking flow expects.
func (a *BookingServiceAdapter) GetSeatsForBooking(ctx context.Context, scheduleID string, seatIDs []string) ([]bookings.SeatInfo, error) {
	schedID, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(seatIDs))
	for _, raw := range seatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	seats, err := a.repo.GetSeatsByIDs(ctx, schedID, ids)
	if err != nil {
		return nil, err
	}

	infos := make([]bookings.SeatInfo, 0, len(seats))
	for _, seat := range seats {
		infos = append(infos, bookings.SeatInfo{
			ID:         seat.ID.String(),
			SeatNumber: seat.SeatNumber,
			Price:      seat.Price,
			Status:     string(seat.Status),
		})
	}
	return infos, nil
}

// InvalidateScheduleCache forwards cache invalidation to the seat service.
func (a *BookingServiceAdapter) InvalidateScheduleCache(ctx context.Context, scheduleID string) {
	a.service.InvalidateScheduleCache(ctx, scheduleID)
}
