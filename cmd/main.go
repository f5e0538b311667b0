/*
Package main is the entry point for the AwesomeChat server.

It is responsible for loading configuration, initializing the global logging system,
connecting the document store, wiring the services and live feed hub, setting up
the HTTP server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"awesomechat/internal/app/auth"
	"awesomechat/internal/app/db"
	"awesomechat/internal/app/directory"
	"awesomechat/internal/app/feeds"
	"awesomechat/internal/app/friends"
	"awesomechat/internal/app/live"
	"awesomechat/internal/app/presence"
	"awesomechat/internal/app/private"
	"awesomechat/internal/app/room"
	"awesomechat/internal/app/storage"
	"awesomechat/internal/configs"
	"awesomechat/internal/handler"
	"awesomechat/internal/pkg/auth/oauth"
	"awesomechat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Document store
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	users := directory.NewPostgresStore(pool)
	roomStore := room.NewPostgresStore(pool)
	privateStore := private.NewPostgresStore(pool)

	// Services
	roomSvc := room.NewService(roomStore, room.DefaultFeedLimit)
	privateSvc := private.NewService(privateStore, users)
	friendSvc := friends.NewService(users)
	authGateway := auth.NewGateway(users, oauth.NewHTTPVerifier(cfg.OAuthUserInfoURL), cfg.JWTSecret)

	// Live feeds and presence
	hub := live.NewHub()
	feedSvc := feeds.NewService(hub, users, roomSvc, privateSvc)
	tracker := presence.NewTracker(users, feedSvc)

	// Avatar storage is optional in development.
	var storageService storage.StorageService
	if cfg.S3BucketName != "" {
		storageService, err = storage.NewStorageService(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize avatar storage")
		}
	} else {
		logx.Warn("Avatar storage not configured. Presign endpoints are disabled.")
	}

	deps := &handler.AppDeps{
		Config:         cfg,
		Auth:           authGateway,
		Users:          users,
		Rooms:          roomSvc,
		Private:        privateSvc,
		Friends:        friendSvc,
		Feeds:          feedSvc,
		Presence:       tracker,
		StorageService: storageService,
	}

	// Setup HTTP server and routes
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("AwesomeChat Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
