package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventrsvp/config"
	"eventrsvp/internal/adapters/auth"
	"eventrsvp/internal/adapters/email"
	rediscache "eventrsvp/internal/cache/redis"
	delivery "eventrsvp/internal/delivery/http"
	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/repository/postgres"
	"eventrsvp/internal/services"

	_ "eventrsvp/docs"
)

const serviceTimeout = 10 * time.Second

// @title Event RSVP API
// @version 1.0
// @description Event and RSVP management service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	redisClient, err := rediscache.NewClient(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to open redis", "err", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:        cfg.MailProvider,
		FromAddress:     cfg.MailFrom,
		FromName:        cfg.MailFromName,
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKey,
		SecretAccessKey: cfg.AWSSecretKey,
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	directory := postgres.NewUserDirectory(db)
	eventCache := rediscache.NewCache(redisClient, logger)
	notifier := services.NewInviteNotifier(directory, mailer, logger)
	eventService := services.NewEventService(eventRepo, eventCache, notifier, logger, serviceTimeout)

	eventController := controllers.NewEventController(logger, eventService)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	var handler http.Handler = delivery.NewRouter(eventController, verifier)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
