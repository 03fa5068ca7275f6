// Package app assembles the portal from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api"
	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/service"
	"github.com/feedbackhub/portal/internal/infrastructure/config"
	mongosession "github.com/feedbackhub/portal/internal/infrastructure/db/mongo"
	redissession "github.com/feedbackhub/portal/internal/infrastructure/db/redis"
	"github.com/feedbackhub/portal/internal/infrastructure/http/handlers"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
)

const userAgent = "feedback-portal"

// App is the web portal: one Echo server over the shared core.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	echo    *echo.Echo
	closers []func(context.Context) error
}

// New connects the session store, selects the backend and builds the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	repo, kind, err := a.sessionRepository(ctx)
	if err != nil {
		return nil, err
	}

	backend, err := NewBackend(cfg, userAgent, log)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}

	e, err := api.NewRouter(api.RouterDeps{
		Auth:       service.NewAuthService(backend, log.With().Str("component", "auth").Logger()),
		Users:      service.NewUserService(backend),
		Feedback:   service.NewFeedbackService(backend, log.With().Str("component", "feedback").Logger()),
		Dashboards: service.NewDashboardService(backend, log.With().Str("component", "dashboard").Logger()),
		Session: middleware.SessionConfig{
			Secret:     secret,
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.IsProduction(),
			Repo:       repo,
		},
		Readiness: handlers.NewHealthDependenciesHandler(repo, kind, backend.Mode, backend.Ping),
		Demo:      backend.Mode == ModeDemo,
		Log:       log,
	})
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	a.echo = e
	return a, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Start serves until Shutdown is called.
func (a *App) Start() error {
	addr := ":" + a.cfg.Port
	a.log.Info().Str("addr", addr).Str("env", a.cfg.Env).Msg("portal listening")
	if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and closes the session store.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.echo.Shutdown(ctx)
	return errors.Join(err, a.close(ctx))
}

func (a *App) sessionRepository(ctx context.Context) (ports.SessionRepository, string, error) {
	ttl := a.cfg.Session.TTL

	switch a.cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err := redissession.Connect(ctx, redissession.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return nil, "", fmt.Errorf("session store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		return redissession.NewSessionRepository(rdb, ttl), config.SessionBackendRedis, nil

	case config.SessionBackendMongo:
		client, db, err := mongosession.Connect(ctx, mongosession.Config{
			URI:      a.cfg.Mongo.URI,
			Database: a.cfg.Mongo.Database,
		})
		if err != nil {
			return nil, "", fmt.Errorf("session store: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		repo := mongosession.NewSessionRepository(db, ttl)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = a.close(ctx)
			return nil, "", fmt.Errorf("session store: %w", err)
		}
		return repo, config.SessionBackendMongo, nil
	}

	return storage.NewMemoryRepository(ttl), config.SessionBackendMemory, nil
}

func (a *App) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
