// Package api serves the storefront's HTTP endpoints.
//
// Routes:
//   - GET  /                 banner
//   - GET  /api/hello        greeting
//   - GET  /test             backend and database status report
//   - GET  /schema           field descriptions of every collection
//   - GET  /schema/{name}    field description of one collection
//   - POST /api/products     list jewelry products by category/featured
//   - POST /api/product      create a jewelry product
//   - POST /api/orders       create an order
//   - GET  /metrics          Prometheus metrics
package api

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/safar/jewelry-store/internal/config"
	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/metrics"
)

// NewRouter wires every route to db. db may be nil when no database is
// configured; data endpoints then answer 503 and /test reports it.
func NewRouter(db database.Store, dbCfg config.DatabaseConfig, m *metrics.Metrics) http.Handler {
	db = m.InstrumentStore(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("GET /api/hello", handleHello)
	mux.HandleFunc("GET /test", handleHealth(db, dbCfg))
	mux.HandleFunc("GET /schema", handleSchema)
	mux.HandleFunc("GET /schema/{collection}", handleCollectionSchema)

	mux.HandleFunc("POST /api/products", handleListProducts(db))
	mux.HandleFunc("POST /api/product", handleCreateProduct(db))
	mux.HandleFunc("POST /api/orders", handleCreateOrder(db))

	mux.Handle("GET /metrics", m.Handler())

	return corsHandler().Handler(logRequests(m.Middleware(mux)))
}

// corsHandler accepts any origin, echoing it back so credentials work.
func corsHandler() *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc:  func(string) bool { return true },
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})
}
