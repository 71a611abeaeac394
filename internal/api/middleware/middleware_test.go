package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dudustore/cepstore/backend/internal/adapters/cache"
	"github.com/dudustore/cepstore/backend/internal/api/middleware"
)

func countingHandler(calls *int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stores":[],"count":0}`))
	})
}

func TestCatalogCacheMiddleware(t *testing.T) {
	backend := cache.NewMemoryAdapter(time.Minute)
	defer backend.Close()

	var calls int32
	handler := middleware.NewCatalogCacheMiddleware(backend, 60).Middleware(countingHandler(&calls))

	for i, expected := range []string{"MISS", "HIT"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stores/state/SP", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, expected, w.Header().Get("X-Cache"))
		assert.JSONEq(t, `{"stores":[],"count":0}`, w.Body.String())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCatalogCacheMiddleware_BypassesNearbyLookups(t *testing.T) {
	backend := cache.NewMemoryAdapter(time.Minute)
	defer backend.Close()

	var calls int32
	handler := middleware.NewCatalogCacheMiddleware(backend, 60).Middleware(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stores/by-cep?cep=01001000", nil))
		assert.Empty(t, w.Header().Get("X-Cache"))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, backend.Len())
}

func TestCatalogCacheMiddleware_SkipsErrors(t *testing.T) {
	backend := cache.NewMemoryAdapter(time.Minute)
	defer backend.Close()

	handler := middleware.NewCatalogCacheMiddleware(backend, 60).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"store not found"}`))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stores/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, backend.Len())
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("wildcard", func(t *testing.T) {
		handler := middleware.CORSMiddleware(middleware.ParseAllowedOrigins(""))(next)
		req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
		req.Header.Set("Origin", "https://loja.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		handler := middleware.CORSMiddleware(middleware.ParseAllowedOrigins("https://a.example.com, https://b.example.com"))(next)

		req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
		req.Header.Set("Origin", "https://b.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, "https://b.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/api/stores", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		handler := middleware.CORSMiddleware(nil)(next)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/stores/by-cep", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestLoggingMiddleware_PassesStatusThrough(t *testing.T) {
	handler := middleware.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stores/by-cep?cep=01001000", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
