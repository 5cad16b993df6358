package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pratik-mahalle/creditwatch/internal/api/handlers"
	"github.com/pratik-mahalle/creditwatch/internal/api/middleware"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/metrics"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Alert        *handlers.AlertHandler
	Notification *handlers.NotificationHandler
	Scan         *handlers.ScanHandler
}

func New(log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS())
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Operational endpoints
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	// Alerts
	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Get("/", h.Alert.List)
		r.Delete("/", h.Alert.ClearAll)
		r.Get("/summary", h.Alert.Summary)
		r.Post("/read-all", h.Alert.MarkAllRead)
		r.Get("/{id}", h.Alert.Get)
		r.Delete("/{id}", h.Alert.Delete)
		r.Post("/{id}/read", h.Alert.MarkRead)
		r.Post("/{id}/dismiss", h.Alert.Dismiss)
		r.Post("/{id}/resolve", h.Alert.Resolve)
	})

	// Notification preferences
	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Get("/preferences", h.Notification.GetPreferences)
		r.Put("/preferences", h.Notification.UpdatePreferences)
	})

	// Scans
	r.Post("/api/v1/scans", h.Scan.Run)

	return r
}
