// Package main is the entry point for the BaZi chart API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/bazi-api/internal/api"
	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/config"
	"github.com/zapponejosh/bazi-api/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	// Log startup info
	log.Info("starting bazi API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("calendar", cfg.CalendarBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("bazi API stopped")
}

// newResolver builds the calendar resolver described by cfg.
func newResolver(cfg *config.Config, log *slog.Logger) *calendar.Resolver {
	opts := []calendar.ResolverOption{
		calendar.WithTimeout(cfg.CalendarTimeout),
		calendar.WithLogger(log),
	}
	if !cfg.UsesPreciseCalendar() {
		return calendar.NewResolver(nil, opts...)
	}
	precise := calendar.NewPrecise(calendar.LunarBackend{},
		calendar.WithYearRange(cfg.CalendarMinYear, cfg.CalendarMaxYear))
	return calendar.NewResolver(precise, opts...)
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	engine := bazi.NewEngine(newResolver(cfg, log))
	handlers := api.NewHandlers(engine, cfg, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      api.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	log.Info("bazi API ready", slog.String("addr", server.Addr))

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
