package reclaimer

import (
	"busline/internal/shared/utils/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// RunSweep triggers a full reclamation pass on demand, for operators who do
// not want to wait for the next scheduled sweep.
func (c *Controller) RunSweep(ctx *gin.Context) {
	report, err := c.service.RunNow(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Sweep failed", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Sweep completed", report, nil)
}
