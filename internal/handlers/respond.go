package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/faroukali99/reserveFound/internal/services"
)

// decodeJSON reads a single JSON object into dst, rejecting unknown
// fields and trailing content. Callers get a ready-to-send error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func sendJSON(w http.ResponseWriter, statusCode int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func sendData(w http.ResponseWriter, statusCode int, data any) {
	sendJSON(w, statusCode, map[string]any{
		"success": true,
		"data":    data,
	})
}

// sendDomainError maps service errors onto HTTP statuses
func sendDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr   *services.ValidationError
		insufficientErr *services.InsufficientFundsError
		limitErr        *services.LimitExceededError
		notFoundErr     *services.NotFoundError
		currencyErr     *services.UnsupportedCurrencyError
	)

	switch {
	case errors.As(err, &validationErr):
		services.SendErrorResponse(w, validationErr.Error(), http.StatusBadRequest, nil)
	case errors.As(err, &insufficientErr):
		services.SendErrorResponse(w, insufficientErr.Error(), http.StatusBadRequest, nil)
	case errors.As(err, &currencyErr):
		services.SendErrorResponse(w, currencyErr.Error(), http.StatusBadRequest, nil)
	case errors.As(err, &limitErr):
		services.SendErrorResponse(w, limitErr.Error(), http.StatusTooManyRequests, nil)
	case errors.As(err, &notFoundErr):
		services.SendErrorResponse(w, notFoundErr.Error(), http.StatusNotFound, nil)
	default:
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
