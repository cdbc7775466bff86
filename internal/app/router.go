package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/reparaciones-app/reparaciones/internal/billing"
	"github.com/reparaciones-app/reparaciones/internal/clients"
	"github.com/reparaciones-app/reparaciones/internal/dashboard"
	"github.com/reparaciones-app/reparaciones/internal/deliveries"
	"github.com/reparaciones-app/reparaciones/internal/equipment"
	"github.com/reparaciones-app/reparaciones/internal/observability"
	"github.com/reparaciones-app/reparaciones/internal/parts"
	"github.com/reparaciones-app/reparaciones/internal/repairs"
	"github.com/reparaciones-app/reparaciones/internal/tracking"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	ClientsHandler    *clients.Handler
	EquipmentHandler  *equipment.Handler
	RepairsHandler    *repairs.Handler
	PartsHandler      *parts.Handler
	BillingHandler    *billing.Handler
	DeliveriesHandler *deliveries.Handler
	DashboardHandler  *dashboard.Handler
	TrackingHandler   *tracking.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router for the API server.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		params.ClientsHandler.MountRoutes(r)
		params.EquipmentHandler.MountRoutes(r)
		params.RepairsHandler.MountRoutes(r)
		params.PartsHandler.MountRoutes(r)
		params.BillingHandler.MountRoutes(r)
		params.DeliveriesHandler.MountRoutes(r)
		params.DashboardHandler.MountRoutes(r)
	})

	// Public, unauthenticated lookup; carries its own rate limit.
	params.TrackingHandler.MountRoutes(r)

	return r
}
