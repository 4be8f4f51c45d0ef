// File: homefix/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homefix/config"
	clientRepo "homefix/database/repository/client"
	"homefix/handlers"
	"homefix/middleware"
	"homefix/routes"
	"homefix/services/api"
	"homefix/services/chat"
	"homefix/services/user"
	"homefix/utils"
	"homefix/web"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Client storage and chat transcripts.
	var (
		storage      clientRepo.ClientStorage
		transcripts  chat.TranscriptStore
		redisClients []*redis.Client
	)
	switch cfg.StorageDriver {
	case "memory":
		logger.Sugar().Warn("main: using in-memory client storage; sessions will not survive a restart")
		storage = clientRepo.NewMemoryClientStorage()
		transcripts = chat.NewMemoryTranscriptStore()
	default:
		utils.InitRedis()
		defer utils.CloseRedis()
		storage = clientRepo.NewRedisClientStorage(utils.GetSessionCacheClient(), cfg.ClientStorageTTL)
		transcripts = chat.NewRedisTranscriptStore(utils.GetChatCacheClient(), cfg.ChatTranscriptTTL)
		redisClients = []*redis.Client{utils.GetSessionCacheClient(), utils.GetChatCacheClient()}
	}

	// Backend API client.
	apiClient, err := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger.Named("api"))
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	utils.StartHealthMonitor(healthCtx, redisClients, apiClient.BaseURL(), apiClient.HTTPClient())

	sessions := &user.DefaultSessionService{
		Storage: storage,
		API:     apiClient,
		Logger:  logger.Named("session"),
	}

	tmpl, err := web.Templates(handlers.TemplateFuncs())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to parse templates: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.SetHTMLTemplate(tmpl)

	// Assemble the handler bundle.
	handlerBundle := handlers.NewHandlerBundle(sessions, transcripts)
	handlerBundle.Cookie = middleware.CookieOptions{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		MaxAge: cfg.ClientStorageTTL,
	}
	handlerBundle.CORSOrigins = cfg.CORSOrigins
	handlerBundle.MaxAuthAttemptsPerMin = cfg.MaxAuthAttemptsPerMin

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s (backend %s)...", srv.Addr, apiClient.BaseURL())
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
