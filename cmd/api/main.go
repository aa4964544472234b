package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/doctorsportal/portal-api/internal/config"
	"github.com/doctorsportal/portal-api/internal/email"
	"github.com/doctorsportal/portal-api/internal/handler"
	bookingHandler "github.com/doctorsportal/portal-api/internal/handler/booking"
	catalogHandler "github.com/doctorsportal/portal-api/internal/handler/catalog"
	doctorHandler "github.com/doctorsportal/portal-api/internal/handler/doctor"
	paymentHandler "github.com/doctorsportal/portal-api/internal/handler/payment"
	userHandler "github.com/doctorsportal/portal-api/internal/handler/user"
	"github.com/doctorsportal/portal-api/internal/middleware"
	"github.com/doctorsportal/portal-api/internal/repository/mongodb"
	"github.com/doctorsportal/portal-api/internal/router"
	availabilityService "github.com/doctorsportal/portal-api/internal/service/availability"
	bookingService "github.com/doctorsportal/portal-api/internal/service/booking"
	catalogService "github.com/doctorsportal/portal-api/internal/service/catalog"
	doctorService "github.com/doctorsportal/portal-api/internal/service/doctor"
	eventService "github.com/doctorsportal/portal-api/internal/service/event"
	paymentService "github.com/doctorsportal/portal-api/internal/service/payment"
	userService "github.com/doctorsportal/portal-api/internal/service/user"
	"github.com/doctorsportal/portal-api/pkg/auth"
	"github.com/doctorsportal/portal-api/pkg/logger"
	messagingRedis "github.com/doctorsportal/portal-api/pkg/messaging/redis"
	"github.com/doctorsportal/portal-api/pkg/metrics"
	"github.com/doctorsportal/portal-api/pkg/worker"
)

func main() {
	// Local setups keep secrets in a .env file; deployments set real env vars.
	_ = godotenv.Load()

	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := mongodb.NewDB(mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Error(err, "failed to close database connection")
		}
	}()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.EnsureIndexes(ctx); err != nil {
			cancel()
			log.Fatal(err, "failed to ensure indexes")
		}
		cancel()
	}

	m := metrics.NewMetrics("portal_api")

	serviceRepo := mongodb.NewServiceRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	doctorRepo := mongodb.NewDoctorRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	outboxRepo := mongodb.NewOutboxRepository(db)

	tokenSvc := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry())
	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)

	eventSvc := eventService.NewService(outboxRepo)
	catalogSvc := catalogService.NewService(serviceRepo, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	availabilitySvc := availabilityService.NewService(catalogSvc, bookingRepo)
	bookingSvc := bookingService.NewService(bookingRepo, paymentRepo, eventSvc, emailSvc, m, log)
	userSvc := userService.NewService(userRepo, tokenSvc)
	doctorSvc := doctorService.NewService(doctorRepo)
	paymentSvc := paymentService.NewService(paymentService.Config{
		SecretKey: cfg.Stripe.SecretKey,
		Currency:  cfg.Stripe.Currency,
	})

	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, userRepo)

	r := router.NewRouter(
		authMiddleware,
		handler.NewHandler(),
		m,
		catalogHandler.NewHandler(catalogSvc, availabilitySvc),
		bookingHandler.NewHandler(bookingSvc),
		userHandler.NewHandler(userSvc),
		doctorHandler.NewHandler(doctorSvc),
		paymentHandler.NewHandler(paymentSvc),
	)
	r.Setup()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// Event publishing is optional: without a broker the outbox just
	// accumulates until one is configured.
	if cfg.Redis.URL != "" {
		broker, err := messagingRedis.NewRedisBroker(messagingRedis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect to redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			Channel:       cfg.Outbox.Channel,
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  time.Duration(cfg.Outbox.PollSeconds) * time.Second,
			RetryAttempts: cfg.Outbox.RetryAttempt,
		}, log, m)
		go processor.Start(workerCtx)
	} else {
		log.Info("event publishing disabled, no redis URL configured")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "failed to shutdown server gracefully")
	}

	log.Info("server exited")
}
