package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freshdesk_bridge/backend/internal/config"
	"github.com/freshdesk_bridge/backend/internal/dataset"
	"github.com/freshdesk_bridge/backend/internal/extract"
	"github.com/freshdesk_bridge/backend/internal/freshdesk"
)

// mapLoggingLevel translates the pipeline's level names onto zerolog levels.
func mapLoggingLevel(name string) zerolog.Level {
	switch name {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "CRITICAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := log.Level(mapLoggingLevel(cfg.LoggingLevel)).With().Str("service", "freshdesk-extractor").Logger()
	logger.Info().Msg("starting the Freshdesk tickets extraction job")

	if err := cfg.ValidateFreshdesk(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()

	client := &freshdesk.Client{
		Domain:     cfg.FreshdeskDomain,
		APIKey:     cfg.FreshdeskAPIKey,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Logger:     logger,
	}
	job := &extract.Job{
		Source:   client,
		Statuses: cfg.TicketStatusList(),
		MaxPages: cfg.MaxSearchPages,
		Logger:   logger,
	}

	rows, err := job.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("extraction failed")
	}

	writer, err := dataset.New(ctx, cfg.DatabaseURL, cfg.DatasetTable)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to dataset store")
	}
	defer writer.Close()

	written, err := writer.WriteRows(ctx, rows)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to write dataset")
	}
	logger.Info().Int64("rows", written).Str("table", cfg.DatasetTable).Msg("tickets written to the output dataset")
}
