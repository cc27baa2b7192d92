package reclaimer

import "github.com/gin-gonic/gin"

func SetupReclaimerRoutes(rg *gin.RouterGroup, controller *Controller) {
	seats := rg.Group("/seats")
	{
		seats.POST("/unlock-expired", controller.RunSweep) // POST /api/v1/seats/unlock-expired
	}
}
