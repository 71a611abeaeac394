package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

const (
	googleMapsBaseURL      = "https://maps.googleapis.com/maps/api"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultHTTPTimeout     = 8 * time.Second

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
	statusNotFound    = "NOT_FOUND"
)

// GoogleGeolocationProvider implements GeolocationProvider using the Geocoding
// and Distance Matrix APIs.
type GoogleGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

// NewGoogleGeolocationProvider creates a new Google geolocation provider.
func NewGoogleGeolocationProvider(apiKey string, cache providers.CacheProvider) *GoogleGeolocationProvider {
	return NewGoogleGeolocationProviderWithOptions(apiKey, cache, googleMapsBaseURL, nil)
}

// NewGoogleGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleGeolocationProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *GoogleGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleMapsBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Geocode converts an address query to coordinates.
func (g *GoogleGeolocationProvider) Geocode(ctx context.Context, query string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address query is required")
	}

	cacheKey := "geo:v1:geocode:" + hashKey(strings.ToLower(trimmed))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var coords providers.Coordinates
			if err := json.Unmarshal(cached, &coords); err == nil && (coords.Latitude != 0 || coords.Longitude != 0) {
				return &coords, nil
			}
		}
	}

	params := url.Values{}
	params.Set("address", trimmed)
	params.Set("region", "br")

	var payload googleGeocodeResponse
	if err := g.get(ctx, "/geocode/json", params, &payload); err != nil {
		return nil, apperrors.NewExternalError("geocode request failed", err)
	}

	switch payload.Status {
	case statusOK:
	case statusZeroResults:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no coordinates found for %q", trimmed))
	default:
		return nil, apperrors.NewExternalError("geocode request failed", statusError(payload.Status, payload.ErrorMessage))
	}

	if len(payload.Results) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no coordinates found for %q", trimmed))
	}

	location := payload.Results[0].Geometry.Location
	coords := providers.Coordinates{Latitude: location.Lat, Longitude: location.Lng}

	if g.cache != nil {
		if data, err := json.Marshal(coords); err == nil {
			_ = g.cache.Set(ctx, cacheKey, data, defaultGeocodeCacheTTL)
		}
	}

	return &coords, nil
}

// TravelTime returns the driving duration between two points.
func (g *GoogleGeolocationProvider) TravelTime(ctx context.Context, from, to providers.Coordinates) (time.Duration, error) {
	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", from.Latitude, from.Longitude))
	params.Set("destinations", fmt.Sprintf("%f,%f", to.Latitude, to.Longitude))
	params.Set("units", "metric")

	var payload googleDistanceMatrixResponse
	if err := g.get(ctx, "/distancematrix/json", params, &payload); err != nil {
		return 0, apperrors.NewExternalError("distance matrix request failed", err)
	}
	if payload.Status != statusOK {
		return 0, apperrors.NewExternalError("distance matrix request failed", statusError(payload.Status, payload.ErrorMessage))
	}
	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return 0, apperrors.NewNotFoundError("distance matrix returned no elements")
	}

	element := payload.Rows[0].Elements[0]
	switch element.Status {
	case statusOK:
	case statusZeroResults, statusNotFound:
		return 0, apperrors.NewNotFoundError("no route between points")
	default:
		return 0, apperrors.NewExternalError("distance matrix element failed", statusError(element.Status, ""))
	}

	return time.Duration(element.Duration.Value) * time.Second, nil
}

func (g *GoogleGeolocationProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if g.apiKey == "" {
		return fmt.Errorf("google maps api key is required")
	}

	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(status, message string) error {
	if message != "" {
		return fmt.Errorf("%s - %s", status, message)
	}
	return fmt.Errorf("%s", status)
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googleDistanceMatrixResponse struct {
	Status       string                    `json:"status"`
	ErrorMessage string                    `json:"error_message,omitempty"`
	Rows         []googleDistanceMatrixRow `json:"rows"`
}

type googleDistanceMatrixRow struct {
	Elements []googleDistanceMatrixElement `json:"elements"`
}

type googleDistanceMatrixElement struct {
	Status   string      `json:"status"`
	Distance googleValue `json:"distance"`
	Duration googleValue `json:"duration"`
}

type googleValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}
