package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/metrics"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/session"
	"github.com/feedbackhub/portal/internal/infrastructure/apiclient"
	"github.com/feedbackhub/portal/internal/infrastructure/config"
	"github.com/feedbackhub/portal/internal/infrastructure/demo"
)

const (
	ModeLive = "live"
	ModeDemo = "demo"
)

// Backend is the data-access strategy chosen at startup, already wrapped
// with metrics. Ping is nil in demo mode; Resume is nil in live mode.
type Backend struct {
	ports.Backend
	Mode   string
	Ping   func(ctx context.Context) error
	Resume func(token string, userID int) bool
}

// NewBackend selects the live API client or the demo provider from cfg. The
// choice is made once; nothing switches it afterwards.
func NewBackend(cfg *config.Config, userAgent string, log zerolog.Logger) (*Backend, error) {
	if cfg.Demo.Enabled {
		hook := InvalidateSession(ModeDemo, log)
		p, err := demo.NewProvider(
			demo.WithLatency(cfg.Demo.Latency),
			demo.WithOnUnauthorized(hook),
			demo.WithLogger(log.With().Str("backend", ModeDemo).Logger()),
		)
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
		log.Info().Dur("latency", cfg.Demo.Latency).Msg("demo mode enabled, using fixture data")
		return &Backend{Backend: metrics.InstrumentBackend(p), Mode: ModeDemo, Resume: p.Resume}, nil
	}

	hook := InvalidateSession(ModeLive, log)
	c, err := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout,
		apiclient.WithOnUnauthorized(hook),
		apiclient.WithUserAgent(userAgent),
		apiclient.WithLogger(log.With().Str("backend", ModeLive).Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	log.Info().Str("base_url", c.BaseURL()).Msg("using feedback api")
	return &Backend{Backend: metrics.InstrumentBackend(c), Mode: ModeLive, Ping: c.Ping}, nil
}

// InvalidateSession is the handler for the "session invalidated" event: it
// clears the session carried by ctx before the rejected call returns.
func InvalidateSession(mode string, log zerolog.Logger) ports.UnauthorizedHook {
	return func(ctx context.Context) {
		metrics.SessionInvalidationsTotal.WithLabelValues(mode).Inc()

		store, ok := session.FromContext(ctx)
		if !ok {
			return
		}
		if err := store.Clear(ctx); err != nil {
			log.Error().Err(err).Msg("failed to clear rejected session")
			return
		}
		log.Info().Str("mode", mode).Msg("session invalidated after unauthorized response")
	}
}
