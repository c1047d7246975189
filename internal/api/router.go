// Package api is the navigation shell: it mounts the page tree, wires the
// session store into the route guards and dispatches the auth flows.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/dearecho/dearecho-api/docs"
	"github.com/dearecho/dearecho-api/internal/api/handler"
	"github.com/dearecho/dearecho-api/internal/api/metrics"
	"github.com/dearecho/dearecho-api/internal/api/middleware"
	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/ports"
	"github.com/dearecho/dearecho-api/internal/core/session"
)

// NewRouter builds and returns the Echo instance with all routes
// registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	store *session.Store,
	flows ports.AuthFlows,
	themes handler.ThemeStore,
	installationID string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("dearecho"))

	// Every transition the store applies shows up in the metrics, whichever
	// writer produced it.
	store.OnChange(func(s domain.Session) {
		state := "unauthenticated"
		if s.Authenticated {
			state = "authenticated"
		}
		metrics.SessionTransitionsTotal.WithLabelValues(state).Inc()
	})

	guarded := middleware.Guard(store)

	// --- Page tree ---
	pages := handler.NewPagesHandler(store)
	e.GET("/", pages.Welcome, guarded)
	e.GET("/mood", pages.Mood, guarded)
	e.POST("/mood", pages.AddMood, guarded)
	e.GET("/letter", pages.Letter, guarded)
	e.POST("/letter", pages.SaveLetter, guarded)
	e.GET("/journal", pages.Journal, guarded)
	e.POST("/journal", pages.SaveReflection, guarded)

	// --- Auth surface ---
	authHandler := handler.NewAuthHandler(flows, store)
	e.GET("/auth", authHandler.Page, guarded) // reverse guard
	e.GET("/auth/session", authHandler.Session)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/federated", authHandler.LoginFederated)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Shell preferences ---
	prefsHandler := handler.NewPreferencesHandler(themes, installationID)
	e.GET("/preferences/theme", prefsHandler.GetTheme)
	e.PUT("/preferences/theme", prefsHandler.SetTheme)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
