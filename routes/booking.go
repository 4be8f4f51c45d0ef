package routes

import (
	"homefix/handlers"
	"homefix/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the booking list and booking actions.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/bookings")
	{
		bookingGroup.Use(middleware.RequireSession(middleware.PolicyRedirectToLogin))
		bookingGroup.GET("", hb.ListBookingsHandler)
		bookingGroup.GET("/new", hb.NewBookingHandler)
		bookingGroup.POST("", hb.CreateBookingHandler)
		bookingGroup.POST("/:id/edit", hb.UpdateBookingHandler)
		bookingGroup.POST("/:id/status", hb.UpdateStatusHandler)
		bookingGroup.POST("/:id/delete", hb.DeleteBookingHandler)
	}
}

// RegisterReviewRoutes sets up the reviews page and the rating form.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reviews := r.Group("/reviews")
	{
		reviews.Use(middleware.RequireSession(middleware.PolicyRedirectToLogin))
		reviews.GET("", hb.ReviewsHandler)
		reviews.POST("/:id/rating", hb.EditRatingHandler)
		reviews.POST("/:id/rating/delete", hb.ClearRatingHandler)
	}

	rate := r.Group("/rate-service")
	{
		rate.Use(middleware.RequireSession(middleware.PolicyRedirectToLogin))
		rate.GET("/:bookingId", hb.RatePageHandler)
		rate.POST("/:bookingId", hb.RateHandler)
	}
}
