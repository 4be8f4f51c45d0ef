package routes

import (
	"strings"
	"time"

	"homefix/handlers"
	"homefix/middleware"
	"homefix/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterAuthRoutes registers login, registration and logout pages.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	limit := middleware.RateLimitMiddleware(hb.MaxAuthAttemptsPerMin)

	guest := r.Group("")
	guest.Use(middleware.RequireSession(middleware.PolicyRedirectIfAuthenticated))
	{
		guest.GET("/login", hb.LoginPageHandler)
		guest.POST("/login", limit, hb.LoginHandler)
		guest.GET("/registration", hb.RegistrationPageHandler)
		guest.POST("/registration", limit, hb.RegisterHandler)
	}
	r.POST("/logout", hb.LogoutHandler)
}

// RegisterPublicRoutes registers pages that work with or without a session.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", middleware.RequireSession(middleware.PolicyPublic), hb.HomeHandler)
	r.GET("/dashboard", middleware.RequireSession(middleware.PolicyDegrade), hb.DashboardHandler)
}

// RegisterSessionRoute registers the JSON session snapshot with CORS so
// other HomeFix origins can read it with credentials.
func RegisterSessionRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(sessionCORS(hb.CORSOrigins))
	{
		api.GET("/session", middleware.RequireSession(middleware.PolicyPublic), hb.SessionHandler)
		// Preflight requests are answered by the CORS middleware.
		api.OPTIONS("/session", func(*gin.Context) {})
	}
}

// sessionCORS lets the configured origins read the session with credentials.
// With no usable origin the endpoint stays same-origin only.
func sessionCORS(origins []string) gin.HandlerFunc {
	var allowed []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	cfg := cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if err := cfg.Validate(); err != nil {
		utils.GetLogger().Warn("CORS disabled for /api", zap.Strings("origins", origins), zap.Error(err))
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cfg)
}

// RegisterChatRoutes registers the support chat.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	chat := r.Group("/chat")
	chat.Use(middleware.RequireSession(middleware.PolicyRedirectToLogin))
	{
		chat.GET("", hb.ChatPageHandler)
		chat.POST("/messages", hb.SendMessageHandler)
		chat.POST("/messages/:id/edit", hb.EditMessageHandler)
		chat.POST("/messages/:id/delete", hb.DeleteMessageHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes sets up the session middleware and every route group.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Registered before the session middleware: probes get no cookie.
	RegisterHealthRoute(r, hb)

	r.Use(middleware.ClientSession(hb.Sessions, hb.Cookie))
	RegisterSessionRoute(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	r.NoRoute(handlers.NotFound)
}
