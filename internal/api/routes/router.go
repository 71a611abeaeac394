package routes

import (
	"net/http"

	"github.com/dudustore/cepstore/backend/internal/api/handlers"
	"github.com/dudustore/cepstore/backend/internal/api/middleware"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	storeHandler   *handlers.StoreHandler
	catalogCache   *middleware.CatalogCacheMiddleware
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	storeHandler *handlers.StoreHandler,
	catalogCache *middleware.CatalogCacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		storeHandler:   storeHandler,
		catalogCache:   catalogCache,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Nearby-store classification
	r.mux.HandleFunc("GET /api/stores/by-cep", r.storeHandler.FindNearbyStores)
	r.mux.HandleFunc("GET /api/stores/nearby", r.storeHandler.FindNearbyStores)

	// Catalog
	r.mux.HandleFunc("GET /api/stores", r.storeHandler.ListStores)
	r.mux.HandleFunc("GET /api/stores/state/{uf}", r.storeHandler.ListStoresByState)
	r.mux.HandleFunc("GET /api/stores/{id}", r.storeHandler.GetStore)

	// Last middleware applied is the outermost
	var handler http.Handler = r.mux
	if r.catalogCache != nil {
		handler = r.catalogCache.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
