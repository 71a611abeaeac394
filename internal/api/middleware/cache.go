package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
)

// CatalogCacheMiddleware caches successful catalog responses (store listings
// and lookups by id or state). Nearby-store lookups have their own result
// cache and are passed through.
type CatalogCacheMiddleware struct {
	cache      providers.CacheProvider
	ttlSeconds int
	prefix     string
	bypass     []string
}

// NewCatalogCacheMiddleware creates a new catalog cache middleware
func NewCatalogCacheMiddleware(cache providers.CacheProvider, ttlSeconds int) *CatalogCacheMiddleware {
	return &CatalogCacheMiddleware{
		cache:      cache,
		ttlSeconds: ttlSeconds,
		prefix:     "/api/stores",
		bypass:     []string{"/api/stores/by-cep", "/api/stores/nearby"},
	}
}

// Middleware returns the cache middleware handler
func (m *CatalogCacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cache == nil || r.Method != http.MethodGet || !m.cacheable(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		logger := observability.ComponentLogger(r.Context(), "catalog_cache")
		cacheKey := m.cacheKey(r)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			logger.Debug().Str("path", r.URL.Path).Msg("Catalog cache hit")
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), m.ttlSeconds); err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to cache catalog response")
			}
		}
	})
}

func (m *CatalogCacheMiddleware) cacheable(path string) bool {
	if !strings.HasPrefix(path, m.prefix) {
		return false
	}
	for _, p := range m.bypass {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

func (m *CatalogCacheMiddleware) cacheKey(r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	hash := sha256.Sum256([]byte(key))
	return "http:catalog:v1:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
