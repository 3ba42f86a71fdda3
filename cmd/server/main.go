package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Volker37318/pronounce-backend/internal/client"
	"github.com/Volker37318/pronounce-backend/internal/config"
	httphandler "github.com/Volker37318/pronounce-backend/internal/handler/http"
	"github.com/Volker37318/pronounce-backend/internal/logger"
	"github.com/Volker37318/pronounce-backend/internal/server"
	"github.com/Volker37318/pronounce-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("env", cfg.Environment).Msg("Starting pronounce-backend")

	if !cfg.AzureConfigured() {
		log.Warn().Msg("AZURE_AI_SPEECH_KEY / AZURE_SERVICE_REGION not set; assessment requests will fail")
	}
	if !cfg.SecretConfigured() {
		log.Warn().Msg("PRONOUNCE_SHARED_SECRET not set; all assessment requests will be rejected")
	}

	// Initialize clients and services
	azureSpeechClient := client.NewAzureSpeechClient(cfg.AzureAISpeechKey, cfg.AzureServiceRegion, cfg.AzureSpeechEndpoint)
	pronounceService := service.NewPronounceService(log, cfg, azureSpeechClient)

	// Initialize handlers
	healthHandler := httphandler.NewHealthHandler(cfg)
	pronounceHandler := httphandler.NewPronounceHandler(log, pronounceService)

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(cfg, log, healthHandler, pronounceHandler)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
