// Command portal serves the feedback web portal.
//
//	@title						Feedback Portal API
//	@version					1.0
//	@description				Session-backed JSON API of the employee feedback portal.
//	@BasePath					/
//	@securityDefinitions.apikey	SessionCookie
//	@in							header
//	@name						portal_session
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedbackhub/portal/internal/app"
	"github.com/feedbackhub/portal/internal/infrastructure/config"
	"github.com/feedbackhub/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "feedback-portal",
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start portal")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
