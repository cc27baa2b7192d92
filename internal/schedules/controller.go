package schedules

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

func (c *Controller) PublishSchedule(ctx *gin.Context) {
	var req PublishScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	schedule, err := req.ToSchedule()
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid schedule date", nil, err.Error())
		return
	}

	created, err := c.service.PublishSchedule(ctx.Request.Context(), schedule)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to publish schedule", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Schedule published successfully", ToScheduleResponse(created), nil)
}

func (c *Controller) GetSchedule(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Schedule ID is required", nil, "missing schedule ID")
		return
	}

	schedule, err := c.service.GetSchedule(ctx.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get schedule", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Schedule retrieved successfully", ToScheduleResponse(schedule), nil)
}

func (c *Controller) ListSchedules(ctx *gin.Context) {
	list, err := c.service.ListActive(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list schedules", nil, err.Error())
		return
	}

	resp := make([]ScheduleResponse, 0, len(list))
	for i := range list {
		resp = append(resp, ToScheduleResponse(&list[i]))
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Schedules retrieved successfully", resp, nil)
}
