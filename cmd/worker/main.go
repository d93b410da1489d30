package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/bootstrap"
	"github.com/Domenick1991/skyfare/internal/cache"
	"github.com/Domenick1991/skyfare/internal/email"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/Domenick1991/skyfare/internal/service/surge"
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
	zlog = zlog.With(zap.String("process", "worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var attempts surge.AttemptLog
	switch cfg.Surge.Backend {
	case "redis":
		client := cache.NewClient(cfg.Redis)
		defer client.Close()
		attempts = cache.NewRedisAttemptLog(client)
	default:
		pool, err := repository.NewPool(ctx, cfg.Database)
		if err != nil {
			zlog.Fatal("connect postgres", zap.Error(err))
		}
		defer pool.Close()
		attempts = repository.NewAttemptLog(pool)
	}
	surgeService := surge.NewSurgeService(attempts, surge.Config{
		Window:    cfg.Surge.Window(),
		Threshold: cfg.Surge.Threshold,
		Factor:    cfg.Surge.Factor,
	}, zlog)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
	defer consumer.Close()

	sender := email.NewSender(zlog)

	go func() {
		if err := consumer.Consume(ctx, sender.Send); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Error("consumer stopped", zap.Error(err))
			stop()
		}
	}()

	zlog.Info("worker started", zap.Duration("sweep_interval", cfg.Worker.SweepInterval()))
	bootstrap.Every(ctx, cfg.Worker.SweepInterval(), func(ctx context.Context) {
		evicted, err := surgeService.Sweep(ctx)
		if err != nil {
			zlog.Warn("surge sweep failed", zap.Error(err))
			return
		}
		if evicted > 0 {
			zlog.Info("surge sweep", zap.Int64("evicted", evicted))
		}
	})
	zlog.Info("worker stopped")
}
