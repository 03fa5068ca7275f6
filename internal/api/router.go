package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/feedbackhub/portal/docs"
	"github.com/feedbackhub/portal/internal/api/handler"
	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/api/views"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/infrastructure/http/handlers"
)

// RouterDeps is everything the HTTP layer needs from the application.
type RouterDeps struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Feedback   ports.FeedbackService
	Dashboards ports.DashboardService

	Session   middleware.SessionConfig
	Readiness *handlers.HealthDependenciesHandler
	Demo      bool
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d RouterDeps) (*echo.Echo, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "form:" + handler.CSRFFormField,
		ContextKey:     handler.CSRFContextKey,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   d.Session.Secure,
		CookieSameSite: http.SameSiteLaxMode,
		// The JSON API relies on the SameSite session cookie.
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
	}))

	// --- Probes and docs (no session) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", d.Readiness.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	session := middleware.Session(d.Session)
	anyRole := middleware.RequireRole("", middleware.GuardRedirect)
	managerOnly := middleware.RequireRole(domain.RoleManager, middleware.GuardRedirect)

	// --- Pages ---
	pages := handler.NewPageHandler(handler.PageDeps{
		Auth:       d.Auth,
		Users:      d.Users,
		Feedback:   d.Feedback,
		Dashboards: d.Dashboards,
		Demo:       d.Demo,
		Log:        d.Log,
	})

	web := e.Group("", session)
	web.GET("/login", pages.LoginPage, middleware.RedirectIfAuthenticated())
	web.POST("/login", pages.Login, middleware.RedirectIfAuthenticated())
	web.POST("/logout", pages.Logout)
	web.GET("/", pages.Root, anyRole)
	web.GET("/dashboard", pages.Dashboard, anyRole)
	web.GET("/feedback", pages.FeedbackList, anyRole)
	web.POST("/feedback/:id/acknowledge", pages.Acknowledge, anyRole)
	web.GET("/feedback/new", pages.NewFeedbackPage, managerOnly)
	web.POST("/feedback/new", pages.CreateFeedback, managerOnly)
	web.GET("/feedback/:id/edit", pages.EditFeedbackPage, managerOnly)
	web.POST("/feedback/:id/edit", pages.UpdateFeedback, managerOnly)

	// --- JSON API ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	feedbackHandler := handler.NewFeedbackHandler(d.Feedback)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboards)

	apiAny := middleware.RequireRole("", middleware.GuardJSON)
	apiManager := middleware.RequireRole(domain.RoleManager, middleware.GuardJSON)

	v1 := e.Group("/api/v1", session)
	v1.POST("/session", authHandler.Login)
	v1.DELETE("/session", authHandler.Logout)
	v1.POST("/users", authHandler.Register)
	v1.GET("/me", authHandler.Me, apiAny)
	v1.GET("/users", userHandler.List, apiManager)
	v1.GET("/team", userHandler.Team, apiManager)
	v1.GET("/feedback", feedbackHandler.List, apiAny)
	v1.POST("/feedback", feedbackHandler.Create, apiManager)
	v1.PUT("/feedback/:id", feedbackHandler.Update, apiManager)
	v1.POST("/feedback/:id/acknowledge", feedbackHandler.Acknowledge, apiAny)
	v1.GET("/dashboard", dashboardHandler.Get, apiAny)

	return e, nil
}
