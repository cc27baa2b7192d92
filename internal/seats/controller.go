package seats

import (
	"busline/internal/shared/utils/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) GetSeats(ctx *gin.Context) {
	scheduleID := ctx.Param("scheduleId")
	if scheduleID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Schedule ID is required", nil, "missing schedule ID")
		return
	}

	seats, err := c.service.ListSeats(ctx.Request.Context(), scheduleID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get seats", nil, err.Error())
		return
	}

	available := 0
	for _, seat := range seats {
		if seat.Status == StatusAvailable {
			available++
		}
	}

	resp := SeatListResponse{
		ScheduleID: scheduleID,
		Seats:      seats,
		Available:  available,
		Total:      len(seats),
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", resp, nil)
}

func (c *Controller) GetAvailableCount(ctx *gin.Context) {
	scheduleID := ctx.Param("scheduleId")
	if scheduleID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Schedule ID is required", nil, "missing schedule ID")
		return
	}

	count, err := c.service.CountAvailable(ctx.Request.Context(), scheduleID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to count seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Available seat count retrieved", gin.H{
		"schedule_id": scheduleID,
		"available":   count,
	}, nil)
}

func (c *Controller) SelectSeats(ctx *gin.Context) {
	var req SelectSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.SelectSeats(ctx.Request.Context(), req.ScheduleID, req.SeatIDs)
	if err != nil {
		statusCode := http.StatusBadRequest
		if IsNotFound(err) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to check seats", nil, err.Error())
		return
	}

	if !result.AllAvailable {
		response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are not available", result, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Seats are available", result, nil)
}

func (c *Controller) LockSeats(ctx *gin.Context) {
	var req LockSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	if err := c.service.LockSeats(ctx.Request.Context(), req.ScheduleID, req.SeatIDs); err != nil {
		if errors.Is(err, ErrSeatConflict) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "One or more seats are already taken", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to lock seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats locked successfully", gin.H{
		"schedule_id": req.ScheduleID,
		"seat_ids":    req.SeatIDs,
	}, nil)
}

func (c *Controller) ReleaseSeats(ctx *gin.Context) {
	var req ReleaseSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	released, err := c.service.ReleaseSeats(ctx.Request.Context(), req.ScheduleID, req.SeatIDs)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to release seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats released successfully", gin.H{
		"schedule_id": req.ScheduleID,
		"released":    released,
	}, nil)
}
