package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/chat"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/config"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/database"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/handlers"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/middleware"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/models"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/routes"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/logger"
)

func main() {
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting ChatApp server...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect()
	database.InitRedis()

	if err := database.DB.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	logger.Info().Msg("Database migrations complete")

	// Wire up the chat relay shared by all sessions
	handlers.Relay = chat.NewRelay(
		chat.NewStore(database.DB),
		chat.NewCache(database.Redis),
		config.AppConfig.RestrictChatMutations,
	)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// Websocket sessions are long-lived; exempt them from rate limiting
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/ws/") {
			c.Next()
			return
		}
		middleware.GeneralRateLimit()(c)
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		routes.RegisterAuthRoutes(auth)

		routes.RegisterUserRoutes(api)
		routes.RegisterUploadRoutes(api)
	}
	routes.RegisterChatRoutes(r)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: r,
	}

	go func() {
		logger.Info().Str("port", config.AppConfig.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}
	logger.Info().Msg("Server exited")
}
