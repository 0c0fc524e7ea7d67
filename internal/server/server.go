// Package server implements the HTTP transport layer for marketd.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/woysa/marketd/internal/app"
	"github.com/woysa/marketd/internal/cache"
	"github.com/woysa/marketd/internal/telemetry"
)

// ReadyChecker reports whether the system is ready to serve traffic.
type ReadyChecker func(ctx context.Context) error

// ReportRequester enqueues a statistics report asynchronously.
type ReportRequester interface {
	Request(recipient string)
}

// Deps holds all dependencies for the HTTP server.
type Deps struct {
	Catalog        *app.CatalogService
	Orders         *app.OrderService
	Reports        ReportRequester     // nil = report endpoint disabled
	Cache          cache.Cache         // nil = purge endpoint disabled
	ReadyCheck     ReadyChecker        // nil = always ready (for tests)
	Metrics        *telemetry.Metrics  // nil = no request metrics
	MetricsHandler http.Handler        // nil = no /metrics endpoint
}

// New creates an http.Handler with all routes and middleware wired.
func New(deps Deps) http.Handler {
	s := &server{deps: deps}

	r := chi.NewRouter()

	// Global middleware
	r.Use(s.recovery)
	r.Use(s.requestID)
	r.Use(s.logging)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// System endpoints
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/sellers", func(r chi.Router) {
			r.Get("/", s.handleListSellers)
			r.Post("/", s.handleCreateSeller)
			r.Get("/{id}", s.handleGetSeller)
			r.Put("/{id}", s.handleUpdateSeller)
			r.Delete("/{id}", s.handleDeleteSeller)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Post("/", s.handleCreateProduct)
			r.Get("/{id}", s.handleGetProduct)
			r.Put("/{id}", s.handleUpdateProduct)
			r.Delete("/{id}", s.handleDeleteProduct)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handleListOrders)
			r.Post("/", s.handleCreateOrder)
			r.Get("/{id}", s.handleGetOrder)
			r.Put("/{id}", s.handleUpdateOrder)
			r.Delete("/{id}", s.handleDeleteOrder)
		})

		r.Post("/reports/sellers", s.handleRequestReport)
		r.Delete("/cache", s.handlePurgeCache)
	})

	return r
}

type server struct {
	deps Deps
}
