package routes

import (
	"github.com/Govind-619/Wanderlust/controllers"
	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/gin-gonic/gin"
)

// initListingRoutes wires listings, their reviews and the owner tools
func initListingRoutes(router *gin.Engine, h *controllers.Handler, auth *middleware.Auth) {
	listings := router.Group("/listings")
	{
		listings.GET("", h.ListListings)
		listings.POST("", middleware.RequireLogin(), h.CreateListing)
		listings.GET("/new", middleware.RequireLogin(), h.NewListingForm)
		listings.GET("/booking", middleware.RequireLogin(), h.BookingPage)

		listings.GET("/:id", h.ShowListing)
		listings.PUT("/:id", middleware.RequireLogin(), auth.IsOwner(), h.UpdateListing)
		listings.DELETE("/:id", middleware.RequireLogin(), auth.IsOwner(), h.DeleteListing)
		listings.GET("/:id/edit", middleware.RequireLogin(), auth.IsOwner(), h.EditListingForm)
		listings.GET("/:id/bookings/export", middleware.RequireLogin(), auth.IsOwner(), h.ExportBookings)

		// Reviews
		listings.POST("/:id/reviews", middleware.RequireLogin(), h.CreateReview)
		listings.DELETE("/:id/reviews/:reviewId", middleware.RequireLogin(), auth.IsReviewAuthor(), h.DeleteReview)
	}
}
