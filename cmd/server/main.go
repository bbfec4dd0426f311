package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"

	"github.com/kotche/notekeeper/infrastructure/metrics"
	"github.com/kotche/notekeeper/infrastructure/tracing"
	"github.com/kotche/notekeeper/internal/app/server"
	"github.com/kotche/notekeeper/internal/config"
	notes_repo "github.com/kotche/notekeeper/internal/repository/notes"
	users_repo "github.com/kotche/notekeeper/internal/repository/users"
	auth_serv "github.com/kotche/notekeeper/internal/service/auth"
	categories_serv "github.com/kotche/notekeeper/internal/service/categories"
	"github.com/kotche/notekeeper/internal/service/kafka"
	notes_serv "github.com/kotche/notekeeper/internal/service/notes"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "server").Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.HTTPConfig.MetricsAddr)

	connStr := cfg.PostgresConfig.ConnString()
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalln(err)
	}

	if err = runMigrations(connStr); err != nil {
		log.Fatalln("migration error:", err)
	}

	_, cleanup, err := tracing.InitTracing("notekeeper-server", cfg.TracingConfig.Endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	broker, err := kafka.NewBroker(cfg.KafkaConfig, 1, 1)
	if err != nil {
		log.Fatalf("failed to initialize kafka: %v", err)
	}
	defer broker.Close()

	authServ := auth_serv.NewDefaultService(users_repo.NewDefaultRepository(db),
		cfg.AuthConfig.JWTSecret, cfg.AuthConfig.TokenTTL)
	notesServ := notes_serv.NewDefaultService(notes_repo.NewDefaultRepository(db), broker, logger)
	categoriesServ := categories_serv.NewDefaultService(notes_repo.NewDefaultRepository(db))

	srv := server.New(authServ, notesServ, categoriesServ, logger)
	if err = srv.Run(cfg.HTTPConfig.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func runMigrations(dbURL string) error {
	m, err := migrate.New(
		"file://migrations",
		dbURL,
	)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err = m.Up(); !errors.Is(err, migrate.ErrNoChange) && err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
