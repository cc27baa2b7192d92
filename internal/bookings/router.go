package bookings

import "github.com/gin-gonic/gin"

func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", controller.CreateBooking)                 // POST /api/v1/bookings
		bookings.GET("", controller.GetUserBookings)                // GET /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)                 // GET /api/v1/bookings/:id
		bookings.POST("/:id/cancel", controller.CancelBooking)      // POST /api/v1/bookings/:id/cancel
		bookings.POST("/:id/unlock", controller.UnlockBookingSeats) // POST /api/v1/bookings/:id/unlock
	}
}
