package seats

import "github.com/gin-gonic/gin"

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	seats := rg.Group("/seats")
	{
		seats.GET("/schedule/:scheduleId", controller.GetSeats)                    // GET /api/v1/seats/schedule/:scheduleId
		seats.GET("/schedule/:scheduleId/available", controller.GetAvailableCount) // GET /api/v1/seats/schedule/:scheduleId/available
		seats.POST("/select", controller.SelectSeats)                              // POST /api/v1/seats/select
		seats.POST("/lock", controller.LockSeats)                                  // POST /api/v1/seats/lock
		seats.POST("/release", controller.ReleaseSeats)                            // POST /api/v1/seats/release
	}
}
