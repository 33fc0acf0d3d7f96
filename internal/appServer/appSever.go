package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuebook/config"
	repository "venuebook/internal/database/postgres"
	rediscache "venuebook/internal/database/redis"
	"venuebook/internal/service"
	"venuebook/internal/transport"
	"venuebook/internal/worker"
	"venuebook/pkg/postgres"
	"venuebook/pkg/redis"
	"venuebook/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	venueRepo := repository.NewVenueRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	var telegramBot *telegram.Bot
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram bot not configured, operator alerts disabled")
	}

	// The availability cache is optional: with no redis host configured the
	// services read straight from postgres.
	var ledgerCache service.LedgerCache
	if cfg.Redis.Host != "" {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		ledgerCache = rediscache.NewAvailabilityCache(redisClient, cfg.App.CacheTTL)
		logrus.Info("Availability cache initialized")
	}

	availabilityService := service.NewAvailabilityService(
		venueRepo, bookingRepo, ledgerCache,
		cfg.Booking.MaxBulkDates, cfg.Worker.BatchSize,
	)
	venueService := service.NewVenueService(venueRepo, bookingRepo, ledgerCache)
	bookingService := service.NewBookingService(bookingRepo, venueRepo, ledgerCache, telegramBot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconcileInterval := time.Duration(cfg.Worker.ReconcileInterval) * time.Minute
	if reconcileInterval <= 0 {
		reconcileInterval = 15 * time.Minute
	}
	reconcileWorker := worker.NewLedgerReconcileWorker(availabilityService, telegramBot, reconcileInterval)
	go reconcileWorker.Start(ctx)
	logrus.Info("Reconcile worker started")

	venueHandler := transport.NewVenueHandler(venueService)
	bookingHandler := transport.NewBookingHandler(bookingService)
	availabilityHandler := transport.NewAvailabilityHandler(availabilityService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(venueHandler, bookingHandler, availabilityHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
