package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stayhub/internal/app/events"
	authsvc "stayhub/internal/app/services/auth"
	bookingsvc "stayhub/internal/app/services/booking"
	listingsvc "stayhub/internal/app/services/listing"
	reviewsvc "stayhub/internal/app/services/review"
	usersvc "stayhub/internal/app/services/user"
	"stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/config"
	mongodb "stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/s3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(shutdownCtx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}()
	if err := db.Ping(ctx); err != nil {
		return err
	}

	listings := mongodb.NewListingRepository(db.DB)
	bookings := mongodb.NewBookingRepository(db.DB)
	reviews := mongodb.NewReviewRepository(db.DB)
	users := mongodb.NewUserRepository(db.DB)
	for _, idx := range []interface {
		EnsureIndexes(ctx context.Context) error
	}{listings, bookings, reviews, users} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	var notifier *events.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka close failed", "error", err)
			}
		}()
		notifier = &events.Notifier{Producer: producer, Logger: logger}
		logger.Info("kafka producer ready", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka not configured, events disabled")
	}

	var uploader s3.Uploader
	if cfg.S3Endpoint != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			return err
		}
		uploader = client
	} else {
		logger.Info("object storage not configured, photo uploads disabled")
	}

	tokens := security.JWTIssuer{
		AccessSecret:  []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}

	authService := &authsvc.Service{
		Users:     users,
		Passwords: security.BcryptHasher{},
		Tokens:    tokens,
		Logger:    logger,
	}
	listingService := &listingsvc.Service{Listings: listings, Uploader: uploader, Logger: logger}
	bookingService := bookingsvc.NewService(bookingsvc.Deps{
		Bookings:     bookings,
		Listings:     listings,
		Users:        users,
		Notifier:     notifier,
		Logger:       logger,
		CancelNotice: cfg.CancelNotice,
	})
	reviewService := &reviewsvc.Service{
		Reviews:  reviews,
		Bookings: bookings,
		Listings: listings,
		Notifier: notifier,
		Logger:   logger,
	}
	userService := &usersvc.Service{Users: users, Listings: listings}

	router := ginserver.NewRouter(ginserver.Deps{
		Config:   cfg,
		Logger:   logger,
		Auth:     ginserver.AuthMiddleware{Service: authService, Logger: logger},
		Accounts: ginserver.AuthHandler{Service: authService, Logger: logger},
		Listings: ginserver.ListingHandler{Service: listingService, Logger: logger},
		Bookings: ginserver.BookingHandler{Service: bookingService, Logger: logger},
		Reviews:  ginserver.ReviewHandler{Service: reviewService, Logger: logger},
		Users:    ginserver.UserHandler{Service: userService, Logger: logger},
		Health: obs.HealthHandlers{Ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.Ping(pingCtx)
		}},
	})

	server := ginserver.NewServer(cfg, router, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
