package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/jusunglee/trainusage/api/handlers"
	"github.com/jusunglee/trainusage/internal/config"
	"github.com/jusunglee/trainusage/internal/logging"
	"github.com/jusunglee/trainusage/pkg/trains"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     = flag.String("config", "", "YAML config file")
		port           = flag.Int("port", 0, "Server port (overrides config)")
		csvURL         = flag.String("csv-url", "", "Trip count CSV location (overrides config)")
		updateInterval = flag.Duration("update-interval", -1, "Dataset refresh interval, 0 to fetch once (overrides config)")
	)
	flag.Parse()

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *csvURL != "" {
		cfg.Source.URL = *csvURL
	}
	if *updateInterval >= 0 {
		cfg.Source.RefreshInterval = *updateInterval
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)
	slog.SetDefault(logger)

	registry, err := cfg.LoadPalette()
	if err != nil {
		return err
	}

	client := trains.NewLocal(trains.Config{
		SourceURL:      cfg.Source.URL,
		UpdateInterval: cfg.Source.RefreshInterval,
		Timeout:        cfg.Source.Timeout,
		Palette:        registry,
		Logger:         logger,
	})
	client.Start()
	defer client.Close()

	r := mux.NewRouter()
	h := handlers.NewHandler(client, logger)
	h.RegisterRoutes(r)

	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.CORSMiddleware(cfg.Server.AllowedOrigins))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("addr", addr), slog.String("source", cfg.Source.URL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return logging.ReplaceLogFatal(logger, "Server failed to start", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return logging.ReplaceLogFatal(logger, "Server forced to shutdown", err)
	}

	logger.Info("Server stopped")
	return nil
}
