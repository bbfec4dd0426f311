package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/kotche/notekeeper/infrastructure/metrics"
	"github.com/kotche/notekeeper/internal/app/auditor"
	"github.com/kotche/notekeeper/internal/config"
	"github.com/kotche/notekeeper/internal/service/kafka"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "auditor").Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.HTTPConfig.MetricsAddr)

	broker, err := kafka.NewBroker(cfg.KafkaConfig, 1, 1)
	if err != nil {
		log.Fatalf("failed to initialize kafka: %v", err)
	}
	defer broker.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditorImpl := auditor.New(broker, logger)
	if err = auditorImpl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("auditor stopped: %v", err)
	}
}
