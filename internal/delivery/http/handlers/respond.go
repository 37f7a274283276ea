package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/response"
	"github.com/Zoker94/escrow-room-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	}

	writeJSON(w, status, response.ErrorResponse{Error: err.Error()})
}
