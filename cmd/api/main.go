package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"photoedit/internal/config"
	"photoedit/internal/http/handlers"
	httpapi "photoedit/internal/http/httpapi"
	"photoedit/internal/infra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional
	envFile := config.LoadEnv()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	if envFile != "" {
		logger.Debug().Str("file", envFile).Msg("loaded environment file")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY is not set; /api/edit-image will answer 500 until it is")
	}

	metrics := infra.NewMetrics()
	app := handlers.NewApp(cfg, logger, metrics)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", server.Addr()).
			Str("model", cfg.GeminiModel).
			Str("transport", cfg.GeminiTransport).
			Msg("API listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
