package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/okravchenko/go-shop/internal/item"
	"github.com/okravchenko/go-shop/internal/member"
	"github.com/okravchenko/go-shop/internal/order"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondWithValidationErrors(w http.ResponseWriter, validationErrors validator.ValidationErrors) {
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = "failed on the '" + fieldErr.Tag() + "' rule"
	}
	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, member.ErrNotFound),
		errors.Is(err, item.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, item.ErrInsufficientStock),
		errors.Is(err, order.ErrAlreadyDelivered),
		errors.Is(err, order.ErrAlreadyCanceled),
		errors.Is(err, order.ErrInvalidDeliveryTransition):
		return http.StatusConflict
	case errors.Is(err, item.ErrNonPositiveQuantity),
		errors.Is(err, order.ErrNoOrderItems),
		errors.Is(err, member.ErrNameRequired),
		errors.Is(err, item.ErrNameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
