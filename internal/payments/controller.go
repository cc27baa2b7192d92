package payments

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

func paymentStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBookingMissing):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrBookingCancelled), errors.Is(err, ErrAlreadyPaid), errors.Is(err, ErrSeatConflict):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (c *Controller) ProcessPayment(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	var req ProcessPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.ProcessPayment(ctx.Request.Context(), uid, req)
	if err != nil {
		response.RespondJSON(ctx, "error", paymentStatusCode(err), "Failed to process payment", nil, err.Error())
		return
	}

	// A decline is still a processed payment: 200 with success false.
	message := "Payment processed successfully"
	if !result.Success {
		message = "Payment declined"
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, result, nil)
}

func (c *Controller) GetPayment(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid payment ID", nil, err.Error())
		return
	}

	payment, err := c.service.GetPayment(ctx.Request.Context(), id)
	if err != nil {
		response.RespondJSON(ctx, "error", paymentStatusCode(err), "Failed to get payment", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment retrieved successfully", ToPaymentResponse(payment), nil)
}

func (c *Controller) GetAllPayments(ctx *gin.Context) {
	payments, err := c.service.GetAllPayments(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get payments", nil, err.Error())
		return
	}

	resp := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, ToPaymentResponse(&payments[i]))
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", resp, nil)
}

func (c *Controller) GetUserPayments(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	payments, err := c.service.GetUserPayments(ctx.Request.Context(), uid)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get payments", nil, err.Error())
		return
	}

	resp := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, ToPaymentResponse(&payments[i]))
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", resp, nil)
}

func (c *Controller) UpdatePayment(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid payment ID", nil, err.Error())
		return
	}

	var req UpdatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	payment, err := c.service.UpdatePayment(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondJSON(ctx, "error", paymentStatusCode(err), "Failed to update payment", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment updated successfully", ToPaymentResponse(payment), nil)
}

func (c *Controller) DeletePayment(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid payment ID", nil, err.Error())
		return
	}

	if err := c.service.DeletePayment(ctx.Request.Context(), id); err != nil {
		response.RespondJSON(ctx, "error", paymentStatusCode(err), "Failed to delete payment", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment deleted successfully", gin.H{
		"payment_id": id.String(),
	}, nil)
}
