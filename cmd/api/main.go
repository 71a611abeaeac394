package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dudustore/cepstore/backend/internal/adapters/cache"
	"github.com/dudustore/cepstore/backend/internal/adapters/database"
	"github.com/dudustore/cepstore/backend/internal/adapters/providers/geolocation"
	"github.com/dudustore/cepstore/backend/internal/adapters/providers/postalcode"
	"github.com/dudustore/cepstore/backend/internal/adapters/providers/shipping"
	"github.com/dudustore/cepstore/backend/internal/api/handlers"
	"github.com/dudustore/cepstore/backend/internal/api/middleware"
	"github.com/dudustore/cepstore/backend/internal/api/routes"
	"github.com/dudustore/cepstore/backend/internal/application/services"
	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/clients/postgres"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/clients/redis"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
	"github.com/dudustore/cepstore/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)
	log.Info().Fields(cfg.Summary()).Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	storeRepo := database.NewStoreAdapter(pgClient)
	if err := storeRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare stores schema")
	}

	cacheProvider, closeCache := newCacheProvider(ctx, cfg)
	defer closeCache()

	geolocationProvider := newGeolocationProvider(cfg, cacheProvider)
	postalCodeProvider := postalcode.NewViaCEPProvider(cfg.PostalCode.BaseURL, nil)
	shippingProvider := shipping.NewMelhorEnvioProvider(
		cfg.Shipping.BaseURL,
		cfg.App.Name,
		newTokenSource(cfg),
		nil,
	)

	locatorCfg := services.NewLocatorConfig(cfg)
	resolver := services.NewGeoResolver(postalCodeProvider, geolocationProvider, metrics)
	quoter := services.NewShippingQuoter(shippingProvider, geolocationProvider, locatorCfg, metrics)
	classifier := services.NewProximityClassifier(quoter, locatorCfg, metrics)
	resultCache := services.NewResultCache(cacheProvider, locatorCfg.CacheTTL, metrics)
	locator := services.NewStoreLocatorService(storeRepo, resolver, classifier, resultCache, locatorCfg)

	router := routes.NewRouter(
		handlers.NewStoreHandler(locator),
		middleware.NewCatalogCacheMiddleware(cacheProvider, cfg.Cache.TTLSeconds),
		middleware.ParseAllowedOrigins(cfg.Server.AllowedOrigins),
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: locatorCfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}

// newCacheProvider returns Redis when configured and reachable, the in-memory
// cache otherwise.
func newCacheProvider(ctx context.Context, cfg *config.Config) (providers.CacheProvider, func()) {
	if cfg.Cache.Backend == "redis" {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err == nil {
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Using Redis result cache")
			return cache.NewRedisAdapter(redisClient), func() {
				if err := redisClient.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing Redis client")
				}
			}
		}
		log.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory cache")
	}

	memory := cache.NewMemoryAdapter(cfg.Cache.SweepInterval)
	log.Info().Dur("sweep_interval", cfg.Cache.SweepInterval).Msg("Using in-memory result cache")
	return memory, memory.Close
}

func newGeolocationProvider(cfg *config.Config, cacheProvider providers.CacheProvider) providers.GeolocationProvider {
	if cfg.Geolocation.Provider == "mock" || cfg.Geolocation.APIKey == "" {
		log.Warn().Msg("Google Maps API key not configured, using mock geolocation provider")
		return geolocation.NewMockGeolocationProvider()
	}
	return geolocation.NewGoogleGeolocationProviderWithOptions(
		cfg.Geolocation.APIKey,
		cacheProvider,
		cfg.Geolocation.BaseURL,
		nil,
	)
}

func newTokenSource(cfg *config.Config) shipping.TokenSource {
	if cfg.Shipping.AccessToken != "" {
		return shipping.NewStaticTokenSource(cfg.Shipping.AccessToken)
	}
	if cfg.Shipping.HasClientCredentials() {
		return shipping.NewClientCredentialsTokenSource(cfg.Shipping.BaseURL, cfg.Shipping.ClientID, cfg.Shipping.ClientSecret, nil)
	}
	log.Warn().Msg("Melhor Envio credentials not configured, remote stores will show unavailable shipping")
	return shipping.NewStaticTokenSource("")
}
