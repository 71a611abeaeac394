package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/dudustore/cepstore/backend/internal/application/services"
	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

var cepParamPattern = regexp.MustCompile(`^\d{8}$`)

// StoreLocator is the service behind the store endpoints
type StoreLocator interface {
	FindNearbyStores(ctx context.Context, query services.NearbyQuery) ([]entities.StoreResult, error)
	ListStores(ctx context.Context) ([]*entities.Store, error)
	GetStore(ctx context.Context, id string) (*entities.Store, error)
	ListStoresByState(ctx context.Context, state string) ([]*entities.Store, error)
}

// StoreHandler handles store-related HTTP requests
type StoreHandler struct {
	locator StoreLocator
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(locator StoreLocator) *StoreHandler {
	return &StoreHandler{
		locator: locator,
	}
}

// FindNearbyStores handles GET /api/stores/by-cep?cep=&radius=&type=
func (h *StoreHandler) FindNearbyStores(w http.ResponseWriter, r *http.Request) {
	query, err := parseNearbyQuery(r)
	if err != nil {
		respondWithAppError(r.Context(), w, err)
		return
	}

	results, err := h.locator.FindNearbyStores(r.Context(), query)
	if err != nil {
		respondWithAppError(r.Context(), w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": results,
		"count":  len(results),
	})
}

// ListStores handles GET /api/stores
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.locator.ListStores(r.Context())
	if err != nil {
		respondWithAppError(r.Context(), w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": stores,
		"count":  len(stores),
	})
}

// GetStore handles GET /api/stores/{id}
func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	storeID := r.PathValue("id")
	if storeID == "" {
		respondWithError(w, http.StatusBadRequest, "store ID is required")
		return
	}

	store, err := h.locator.GetStore(r.Context(), storeID)
	if err != nil {
		respondWithAppError(r.Context(), w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, store)
}

// ListStoresByState handles GET /api/stores/state/{uf}
func (h *StoreHandler) ListStoresByState(w http.ResponseWriter, r *http.Request) {
	stores, err := h.locator.ListStoresByState(r.Context(), r.PathValue("uf"))
	if err != nil {
		respondWithAppError(r.Context(), w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": stores,
		"count":  len(stores),
	})
}

func parseNearbyQuery(r *http.Request) (services.NearbyQuery, error) {
	params := r.URL.Query()

	cep := strings.TrimSpace(params.Get("cep"))
	if !cepParamPattern.MatchString(cep) {
		return services.NearbyQuery{}, apperrors.NewValidationError("cep must contain exactly 8 digits")
	}
	query := services.NearbyQuery{PostalCode: cep}

	if raw := strings.TrimSpace(params.Get("radius")); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius < services.MinRadiusKm || radius > services.MaxRadiusKm {
			return services.NearbyQuery{}, apperrors.NewValidationError("radius must be a number between 1 and 1000")
		}
		query.RadiusKm = &radius
	}

	if raw := strings.TrimSpace(params.Get("type")); raw != "" {
		kind, err := entities.ParseStoreKind(raw)
		if err != nil {
			return services.NearbyQuery{}, apperrors.NewValidationError("type must be PDV or LOJA")
		}
		query.Kind = &kind
	}

	return query, nil
}
