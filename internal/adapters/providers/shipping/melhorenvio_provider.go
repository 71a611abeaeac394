package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

const (
	melhorEnvioBaseURL = "https://sandbox.melhorenvio.com.br"
	calculatePath      = "/api/v2/me/shipment/calculate"
	defaultHTTPTimeout = 10 * time.Second

	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
)

var errUnauthorized = errors.New("carrier rejected credentials")

// statusError is a non-2xx answer from the carrier
type statusError struct {
	StatusCode int
	Detail     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("request returned status %d: %s", e.StatusCode, e.Detail)
}

// breakerIgnores reports errors that say nothing about the carrier's health:
// rejections of this particular request and callers that went away.
func breakerIgnores(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode >= 400 && se.StatusCode < 500 &&
			se.StatusCode != http.StatusUnauthorized &&
			se.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// MelhorEnvioProvider implements ShippingRateProvider using the Melhor Envio API.
type MelhorEnvioProvider struct {
	baseURL    string
	userAgent  string
	tokens     TokenSource
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewMelhorEnvioProvider creates a new Melhor Envio provider.
func NewMelhorEnvioProvider(baseURL, userAgent string, tokens TokenSource, httpClient *http.Client) *MelhorEnvioProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = melhorEnvioBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &MelhorEnvioProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		tokens:     tokens,
		httpClient: httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "melhor-envio",
			Timeout: breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailureThreshold
			},
			IsSuccessful: breakerIgnores,
		}),
	}
}

// Quote returns the carrier service levels able to ship the parcel.
// A 401 invalidates the token and the call is retried once. After repeated
// carrier failures the breaker opens and calls fail fast until it half-opens
// again. Client-side rejections (4xx) and cancelled callers do not count.
func (p *MelhorEnvioProvider) Quote(ctx context.Context, req providers.QuoteRequest) ([]providers.CarrierQuote, error) {
	body, err := json.Marshal(calculateRequest{
		From: postalCodeRef{PostalCode: req.OriginPostalCode},
		To:   postalCodeRef{PostalCode: req.DestinationPostalCode},
		Package: packageProfile{
			Weight: req.Parcel.WeightKg,
			Width:  req.Parcel.WidthCm,
			Height: req.Parcel.HeightCm,
			Length: req.Parcel.LengthCm,
		},
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode shipping request", err)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		options, err := p.calculate(ctx, body)
		if errors.Is(err, errUnauthorized) {
			p.tokens.Invalidate()
			options, err = p.calculate(ctx, body)
		}
		return options, err
	})
	if err != nil {
		return nil, apperrors.NewExternalError("shipping quote failed", err)
	}
	options := result.([]calculateOption)

	quotes := make([]providers.CarrierQuote, 0, len(options))
	for _, opt := range options {
		if opt.Error != "" || !opt.Price.Valid {
			continue
		}
		quotes = append(quotes, providers.CarrierQuote{
			ServiceID:    opt.ID,
			ServiceName:  opt.Name,
			CompanyName:  opt.Company.Name,
			Price:        opt.Price.Value,
			DeliveryDays: opt.DeliveryTime,
		})
	}
	return quotes, nil
}

func (p *MelhorEnvioProvider) calculate(ctx context.Context, body []byte) ([]calculateOption, error) {
	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+calculatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	var options []calculateOption
	if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return options, nil
}

type calculateRequest struct {
	From    postalCodeRef  `json:"from"`
	To      postalCodeRef  `json:"to"`
	Package packageProfile `json:"package"`
}

type postalCodeRef struct {
	PostalCode string `json:"postal_code"`
}

type packageProfile struct {
	Weight float64 `json:"weight"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Length float64 `json:"length"`
}

type calculateOption struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Price        flexFloat   `json:"price"`
	DeliveryTime int         `json:"delivery_time"`
	Error        string      `json:"error,omitempty"`
	Company      companyInfo `json:"company"`
}

type companyInfo struct {
	Name string `json:"name"`
}

// flexFloat accepts prices sent either as JSON numbers or as decimal strings
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = flexFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", s, err)
	}
	*f = flexFloat{Value: v, Valid: true}
	return nil
}
