// Package api exposes the bear listing over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/olgasafonova/bears-api/internal/bears"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BearLister produces the current bear listing.
// *bears.Service satisfies it.
type BearLister interface {
	ListBears(ctx context.Context) ([]bears.Bear, error)
}

// NewRouter builds the HTTP routes for the service
func NewRouter(lister BearLister, logger *slog.Logger) http.Handler {
	h := NewBearHandler(lister, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Instrument(logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/bears", h.ListBears)
		r.Get("/openapi.json", serveOpenAPI)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
