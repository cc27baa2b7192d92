package schedules

import "github.com/gin-gonic/gin"

func SetupScheduleRoutes(rg *gin.RouterGroup, controller *Controller) {
	schedules := rg.Group("/schedules")
	{
		schedules.POST("", controller.PublishSchedule) // POST /api/v1/schedules
		schedules.GET("", controller.ListSchedules)    // GET /api/v1/schedules
		schedules.GET("/:id", controller.GetSchedule)  // GET /api/v1/schedules/:id
	}
}
