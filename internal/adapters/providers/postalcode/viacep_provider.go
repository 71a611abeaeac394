package postalcode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

const (
	viaCEPBaseURL      = "https://viacep.com.br/ws"
	defaultHTTPTimeout = 8 * time.Second
)

// ViaCEPProvider implements PostalCodeProvider against the public ViaCEP API.
type ViaCEPProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewViaCEPProvider creates a ViaCEP provider; an empty baseURL uses the public endpoint.
func NewViaCEPProvider(baseURL string, httpClient *http.Client) *ViaCEPProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = viaCEPBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &ViaCEPProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// LookupPostalCode resolves a CEP to its street address.
func (p *ViaCEPProvider) LookupPostalCode(ctx context.Context, postalCode string) (*entities.Address, error) {
	code := entities.NormalizePostalCode(postalCode)
	if !entities.IsValidPostalCode(code) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid postal code %q", postalCode))
	}

	reqURL := fmt.Sprintf("%s/%s/json", p.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build viacep request", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("viacep request failed", err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for codes it cannot parse
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("postal code %s not found", code))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError("viacep lookup failed", fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode viacep response", err)
	}

	if payload.notFound() {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("postal code %s not found", code))
	}
	if payload.Localidade == "" || payload.UF == "" {
		return nil, apperrors.NewExternalError("viacep lookup failed", fmt.Errorf("incomplete address for %s", code))
	}

	normalized := entities.NormalizePostalCode(payload.CEP)
	if normalized == "" {
		normalized = code
	}

	return &entities.Address{
		Street:       payload.Logradouro,
		Neighborhood: payload.Bairro,
		City:         payload.Localidade,
		State:        payload.UF,
		PostalCode:   normalized,
	}, nil
}

type viaCEPResponse struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro,omitempty"`
}

// notFound handles both `"erro": true` and the newer `"erro": "true"`.
func (r *viaCEPResponse) notFound() bool {
	if len(r.Erro) == 0 {
		return false
	}
	v := strings.Trim(string(r.Erro), `"`)
	return v != "false" && v != "null"
}
