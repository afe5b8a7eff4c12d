package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/platform/middleware"
)

// NewRouter assembles the full HTTP surface: request plumbing, optional
// bearer auth on the incentive routes, health, and metrics.
// A nil validator disables auth, which is only acceptable behind a
// trusted gateway.
func NewRouter(h *Handler, logger *slog.Logger, validator middleware.JWTValidator) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if validator != nil {
			r.Use(middleware.RequireAuth(validator, logger))
		}
		h.Register(r)
	})

	return r
}
