package payments

import "github.com/gin-gonic/gin"

func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	payments := rg.Group("/payments")
	{
		payments.POST("/process", controller.ProcessPayment) // POST /api/v1/payments/process
		payments.GET("", controller.GetUserPayments)         // GET /api/v1/payments
		payments.GET("/all", controller.GetAllPayments)      // GET /api/v1/payments/all
		payments.GET("/:id", controller.GetPayment)          // GET /api/v1/payments/:id
		payments.PUT("/:id", controller.UpdatePayment)       // PUT /api/v1/payments/:id
		payments.DELETE("/:id", controller.DeletePayment)    // DELETE /api/v1/payments/:id
	}
}
