// File: homefix/handlers/bundle.go
package handlers

import (
	"homefix/middleware"
	"homefix/services/chat"
	"homefix/services/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and what routes need to wire them.
type HandlerBundle struct {
	Sessions              user.SessionService
	Cookie                middleware.CookieOptions
	CORSOrigins           []string
	MaxAuthAttemptsPerMin int

	// Public pages
	HomeHandler    gin.HandlerFunc
	HealthHandler  gin.HandlerFunc
	SessionHandler gin.HandlerFunc

	// Auth endpoints
	LoginPageHandler        gin.HandlerFunc
	LoginHandler            gin.HandlerFunc
	RegistrationPageHandler gin.HandlerFunc
	RegisterHandler         gin.HandlerFunc
	LogoutHandler           gin.HandlerFunc

	// Booking endpoints
	DashboardHandler     gin.HandlerFunc
	ListBookingsHandler  gin.HandlerFunc
	NewBookingHandler    gin.HandlerFunc
	CreateBookingHandler gin.HandlerFunc
	UpdateBookingHandler gin.HandlerFunc
	UpdateStatusHandler  gin.HandlerFunc
	DeleteBookingHandler gin.HandlerFunc

	// Review endpoints
	ReviewsHandler     gin.HandlerFunc
	EditRatingHandler  gin.HandlerFunc
	ClearRatingHandler gin.HandlerFunc
	RatePageHandler    gin.HandlerFunc
	RateHandler        gin.HandlerFunc

	// Chat endpoints
	ChatPageHandler      gin.HandlerFunc
	SendMessageHandler   gin.HandlerFunc
	EditMessageHandler   gin.HandlerFunc
	DeleteMessageHandler gin.HandlerFunc
}

// NewHandlerBundle wires every page handler over the given session service
// and chat transcript store.
func NewHandlerBundle(sessions user.SessionService, transcripts chat.TranscriptStore) *HandlerBundle {
	authHandler := NewAuthHandler(transcripts)
	bookingHandler := NewBookingHandler()
	chatHandler := NewChatHandler(transcripts)

	return &HandlerBundle{
		Sessions: sessions,

		HomeHandler:    Home,
		HealthHandler:  Health,
		SessionHandler: authHandler.Session,

		LoginPageHandler:        authHandler.LoginPage,
		LoginHandler:            authHandler.Login,
		RegistrationPageHandler: authHandler.RegistrationPage,
		RegisterHandler:         authHandler.Register,
		LogoutHandler:           authHandler.Logout,

		DashboardHandler:     bookingHandler.Dashboard,
		ListBookingsHandler:  bookingHandler.List,
		NewBookingHandler:    bookingHandler.NewPage,
		CreateBookingHandler: bookingHandler.Create,
		UpdateBookingHandler: bookingHandler.Update,
		UpdateStatusHandler:  bookingHandler.UpdateStatus,
		DeleteBookingHandler: bookingHandler.Delete,

		ReviewsHandler:     bookingHandler.Reviews,
		EditRatingHandler:  bookingHandler.EditRating,
		ClearRatingHandler: bookingHandler.ClearRating,
		RatePageHandler:    bookingHandler.RatePage,
		RateHandler:        bookingHandler.Rate,

		ChatPageHandler:      chatHandler.Page,
		SendMessageHandler:   chatHandler.Send,
		EditMessageHandler:   chatHandler.Edit,
		DeleteMessageHandler: chatHandler.Delete,
	}
}
