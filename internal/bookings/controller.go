package bookings

import (
	"busline/internal/shared/utils/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// userID pulls the caller identity from the X-User-ID header. Identity is
// issued upstream of this service, so the header is trusted as-is.
func userID(ctx *gin.Context) (uuid.UUID, bool) {
	raw := ctx.GetHeader("X-User-ID")
	if raw == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "X-User-ID header is required", nil, "missing user ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func bookingStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrScheduleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrSeatConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotCancellable), errors.Is(err, ErrNotPending):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (c *Controller) CreateBooking(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), uid, req)
	if err != nil {
		response.RespondJSON(ctx, "error", bookingStatusCode(err), "Failed to create booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", ToBookingResponse(booking), nil)
}

func (c *Controller) GetBooking(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, uid)
	if err != nil {
		response.RespondJSON(ctx, "error", bookingStatusCode(err), "Failed to get booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", ToBookingResponse(booking), nil)
}

func (c *Controller) GetUserBookings(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	bookings, err := c.service.GetUserBookings(ctx.Request.Context(), uid)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get bookings", nil, err.Error())
		return
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, ToBookingResponse(&bookings[i]))
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", resp, nil)
}

func (c *Controller) CancelBooking(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	if err := c.service.CancelBooking(ctx.Request.Context(), bookingID, uid); err != nil {
		response.RespondJSON(ctx, "error", bookingStatusCode(err), "Failed to cancel booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", gin.H{
		"booking_id": bookingID.String(),
	}, nil)
}

func (c *Controller) UnlockBookingSeats(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	released, err := c.service.UnlockBookingSeats(ctx.Request.Context(), bookingID, uid)
	if err != nil {
		response.RespondJSON(ctx, "error", bookingStatusCode(err), "Failed to unlock seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats unlocked successfully", gin.H{
		"booking_id": bookingID.String(),
		"released":   released,
	}, nil)
}
