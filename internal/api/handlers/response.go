package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP status codes
func respondWithAppError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	message := "internal server error"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, message)
	case apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("Upstream service failure")
		respondWithError(w, http.StatusBadGateway, "upstream service unavailable")
	default:
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("Request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
