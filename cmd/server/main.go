package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freshdesk_bridge/backend/internal/config"
	"github.com/freshdesk_bridge/backend/internal/freshdesk"
	httpapi "github.com/freshdesk_bridge/backend/internal/http"
	"github.com/freshdesk_bridge/backend/internal/tool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "freshdesk-tool").Logger()

	if err := cfg.ValidateFreshdesk(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	client := &freshdesk.Client{
		Domain:     cfg.FreshdeskDomain,
		APIKey:     cfg.FreshdeskAPIKey,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Logger:     logger,
	}
	t := &tool.Tool{
		API:         client,
		Domain:      cfg.FreshdeskDomain,
		TicketTypes: cfg.TicketTypeList(),
		Logger:      logger,
	}

	router := httpapi.Router(cfg, t, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
