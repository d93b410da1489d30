package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skyfare/api"
	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/auth"
	"github.com/Domenick1991/skyfare/internal/bootstrap"
	"github.com/Domenick1991/skyfare/internal/cache"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/Domenick1991/skyfare/internal/service/flights"
	"github.com/Domenick1991/skyfare/internal/service/surge"
	"github.com/Domenick1991/skyfare/internal/service/wallet"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		zlog.Fatal("apply schema", zap.Error(err))
	}

	redisClient := cache.NewClient(cfg.Redis)
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, zlog)
	defer producer.Close()

	var attempts surge.AttemptLog = repository.NewAttemptLog(pool)
	if cfg.Surge.Backend == "redis" {
		attempts = cache.NewRedisAttemptLog(redisClient)
	}
	surgeService := surge.NewSurgeService(attempts, surge.Config{
		Window:    cfg.Surge.Window(),
		Threshold: cfg.Surge.Threshold,
		Factor:    cfg.Surge.Factor,
	}, zlog)

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	flightService := flights.NewFlightService(
		flightRepo,
		cache.NewRedisCache(redisClient, cfg.Booking.CacheTTL()),
		surgeService,
		cfg.Booking.SearchLimit,
		zlog,
	)
	bookingService := booking.NewBookingService(
		bookingRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		zlog,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithHistoryLimit(cfg.Booking.HistoryLimit),
	)
	walletService := wallet.NewWalletService(userRepo, bookingRepo, producer, cfg.Kafka.NotificationsTopic, zlog)

	authenticator, err := auth.New(ctx, cfg.Auth, sessionRepo, zlog)
	if err != nil {
		zlog.Fatal("init auth", zap.Error(err))
	}
	defer authenticator.Close()

	router := api.NewRouter(api.RouterConfig{
		Auth:           authenticator,
		Ping:           pool.Ping,
		SwaggerDir:     cfg.HTTP.SwaggerDir,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            zlog,
	}, api.Handlers{
		Flights:  api.NewFlightHandler(flightService, zlog),
		Bookings: api.NewBookingHandler(bookingService, zlog),
		Wallet:   api.NewWalletHandler(walletService, zlog),
	})

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router, zlog); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
