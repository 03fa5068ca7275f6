package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/ports"
)

// HealthHandler handles GET /health: liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HealthDependenciesHandler handles GET /health/ready: readiness probe.
// Pings the session store when it is network backed and reports which
// backend the portal was started against.
type HealthDependenciesHandler struct {
	sessions     ports.SessionRepository
	sessionKind  string
	backendMode  string
	backendCheck func(ctx context.Context) error
}

// NewHealthDependenciesHandler builds the readiness probe. backendCheck may be
// nil when the backend has no reachability probe (demo mode).
func NewHealthDependenciesHandler(sessions ports.SessionRepository, sessionKind, backendMode string, backendCheck func(ctx context.Context) error) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		sessions:     sessions,
		sessionKind:  sessionKind,
		backendMode:  backendMode,
		backendCheck: backendCheck,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- Session store ping ---
	session := dependencyStatus{Status: "ok", Kind: h.sessionKind}
	if p, ok := h.sessions.(ports.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			session.Status, session.Error = "unhealthy", err.Error()
			healthy = false
		}
	}
	deps["session_store"] = session

	// --- Feedback backend ---
	backend := dependencyStatus{Status: "ok", Kind: h.backendMode}
	if h.backendCheck != nil {
		if err := h.backendCheck(ctx); err != nil {
			backend.Status, backend.Error = "unhealthy", err.Error()
			healthy = false
		}
	}
	deps["backend"] = backend

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
