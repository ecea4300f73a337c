package routes

import (
	"github.com/Govind-619/Wanderlust/config"
	"github.com/Govind-619/Wanderlust/controllers"
	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-gonic/gin"
)

// Per client IP: a checkout needs one order and one verification.
const (
	paymentRatePerSecond = 2
	paymentRateBurst     = 10
)

func initPaymentRoutes(router *gin.Engine, h *controllers.Handler, cfg *config.Config) {
	limiter := utils.NewIPRateLimiter(paymentRatePerSecond, paymentRateBurst)

	router.GET("/booking", h.BookingPage)
	router.POST("/create-order", utils.RateLimitMiddleware(limiter), h.CreateOrder)
	router.POST("/verify-payment", utils.RateLimitMiddleware(limiter), h.VerifyPayment)
	router.GET("/bookings/:id/receipt", middleware.RequireLogin(), h.BookingReceipt)

	if cfg.IsDevelopment() {
		router.POST("/dev/simulate-payment", h.SimulatePayment)
		router.GET("/dev/simulate-payment", h.SimulatePayment)
	}
}
