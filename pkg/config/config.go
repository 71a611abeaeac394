package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Geolocation GeolocationConfig
	PostalCode  PostalCodeConfig
	Shipping    ShippingConfig
	Locator     LocatorConfig
	OTEL        OTELConfig
}

// AppConfig holds application identity
type AppConfig struct {
	Name     string
	Env      string
	LogLevel string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig selects and tunes the nearby-store result cache
type CacheConfig struct {
	Backend       string
	TTLSeconds    int
	SweepInterval time.Duration
}

// GeolocationConfig holds Google Maps configuration
type GeolocationConfig struct {
	Provider      string
	APIKey        string
	BaseURL       string
	UseTravelTime bool
}

// PostalCodeConfig holds ViaCEP configuration
type PostalCodeConfig struct {
	BaseURL string
}

// ShippingConfig holds Melhor Envio configuration
type ShippingConfig struct {
	BaseURL      string
	AccessToken  string
	ClientID     string
	ClientSecret string
}

// LocatorConfig holds the classification policy
type LocatorConfig struct {
	DefaultRadiusKm    float64
	LocalShippingPrice float64
	ParcelWeightKg     float64
	ParcelWidthCm      float64
	ParcelHeightCm     float64
	ParcelLengthCm     float64
	MaxConcurrency     int
	RequestTimeout     time.Duration
	ResultOrder        string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "CEP-Store"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 3000),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "cep_store"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getEnv("CACHE_BACKEND", "redis")),
			TTLSeconds:    getEnvAsInt("CACHE_TTL_SECONDS", 300),
			SweepInterval: getEnvAsDuration("CACHE_SWEEP_INTERVAL", time.Minute),
		},
		Geolocation: GeolocationConfig{
			Provider:      getEnv("GEOLOCATION_PROVIDER", "google"),
			APIKey:        getEnv("GOOGLE_MAPS_API_KEY", ""),
			BaseURL:       getEnv("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"),
			UseTravelTime: getEnvAsBool("USE_TRAVEL_TIME", true),
		},
		PostalCode: PostalCodeConfig{
			BaseURL: getEnv("VIACEP_BASE_URL", "https://viacep.com.br/ws"),
		},
		Shipping: ShippingConfig{
			BaseURL:      getEnv("MELHOR_ENVIO_BASE_URL", "https://sandbox.melhorenvio.com.br"),
			AccessToken:  getEnv("MELHOR_ENVIO_ACCESS_TOKEN", ""),
			ClientID:     getEnv("MELHOR_ENVIO_CLIENT_ID", ""),
			ClientSecret: getEnv("MELHOR_ENVIO_CLIENT_SECRET", ""),
		},
		Locator: LocatorConfig{
			DefaultRadiusKm:    getEnvAsFloat("PDV_RADIUS", 50),
			LocalShippingPrice: getEnvAsFloat("PDV_SHIPPING_PRICE", 15),
			ParcelWeightKg:     getEnvAsFloat("DEFAULT_PRODUCT_WEIGHT", 0.3),
			ParcelWidthCm:      getEnvAsFloat("DEFAULT_PRODUCT_WIDTH", 11),
			ParcelHeightCm:     getEnvAsFloat("DEFAULT_PRODUCT_HEIGHT", 2),
			ParcelLengthCm:     getEnvAsFloat("DEFAULT_PRODUCT_LENGTH", 16),
			MaxConcurrency:     getEnvAsInt("LOCATOR_MAX_CONCURRENCY", 8),
			RequestTimeout:     getEnvAsDuration("LOCATOR_REQUEST_TIMEOUT", 20*time.Second),
			ResultOrder:        strings.ToLower(getEnv("STORE_RESULT_ORDER", "catalog")),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "cep-store"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the locator cannot work with
func (c *Config) Validate() error {
	l := c.Locator
	if l.DefaultRadiusKm <= 0 {
		return fmt.Errorf("PDV_RADIUS must be positive, got %v", l.DefaultRadiusKm)
	}
	if l.LocalShippingPrice < 0 {
		return fmt.Errorf("PDV_SHIPPING_PRICE must not be negative, got %v", l.LocalShippingPrice)
	}
	if l.ParcelWeightKg <= 0 || l.ParcelWidthCm <= 0 || l.ParcelHeightCm <= 0 || l.ParcelLengthCm <= 0 {
		return fmt.Errorf("default product profile must have positive weight and dimensions")
	}
	switch l.ResultOrder {
	case "catalog", "distance":
	default:
		return fmt.Errorf("STORE_RESULT_ORDER must be catalog or distance, got %q", l.ResultOrder)
	}
	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("CACHE_BACKEND must be redis or memory, got %q", c.Cache.Backend)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", c.Cache.TTLSeconds)
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HasClientCredentials reports whether an OAuth exchange can be performed
func (c *ShippingConfig) HasClientCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Summary returns the effective settings for the startup log, with secrets masked
func (c *Config) Summary() map[string]interface{} {
	return map[string]interface{}{
		"env":                   c.App.Env,
		"server_port":           c.Server.Port,
		"database":              fmt.Sprintf("%s:%d/%s", c.Database.Host, c.Database.Port, c.Database.Database),
		"cache_backend":         c.Cache.Backend,
		"cache_ttl_seconds":     c.Cache.TTLSeconds,
		"geolocation_provider":  c.Geolocation.Provider,
		"google_maps_api_key":   mask(c.Geolocation.APIKey),
		"use_travel_time":       c.Geolocation.UseTravelTime,
		"melhor_envio_base_url": c.Shipping.BaseURL,
		"melhor_envio_token":    mask(c.Shipping.AccessToken),
		"melhor_envio_client":   mask(c.Shipping.ClientSecret),
		"pdv_radius_km":         c.Locator.DefaultRadiusKm,
		"pdv_shipping_price":    c.Locator.LocalShippingPrice,
		"result_order":          c.Locator.ResultOrder,
		"otel_enabled":          c.OTEL.Enabled,
	}
}

func mask(secret string) string {
	switch {
	case secret == "":
		return "not set"
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}
