package app

import (
	"context"
	"go-jobportal-api/config"
	"go-jobportal-api/db"
	"go-jobportal-api/handler"
	"go-jobportal-api/logger"
	"go-jobportal-api/repository"
	"go-jobportal-api/router"
	"go-jobportal-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	tokenService := service.NewTokenService(
		config.AppConfig.JWT.SecretKey,
		config.AppConfig.AccessTTL(),
		config.AppConfig.RefreshTTL(),
	)
	claimsService := service.NewClaimsService(userRepo, profileRepo)
	sessionService := service.NewSessionService(database, sessionRepo, claimsService, tokenService)
	authService := service.NewAuthService(database, userRepo, profileRepo, sessionService, config.AppConfig.Auth.BcryptCost)
	profileService := service.NewProfileService(profileRepo, userRepo, redisClient)

	authHandler := handler.NewAuthHandler(authService, sessionService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	profileHandler := handler.NewProfileHandler(profileService)

	r := router.NewRouter(tokenService, authHandler, sessionHandler, profileHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
