package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/saksham2694/drone-meds-express/internal/catalog"
	"github.com/saksham2694/drone-meds-express/internal/order"
	"github.com/saksham2694/drone-meds-express/internal/order/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleServiceError converts the service error taxonomy to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, order.ErrAuthRequired):
		httpStatus = http.StatusUnauthorized
		code = "unauthenticated"
	case errors.Is(err, order.ErrValidation):
		httpStatus = http.StatusBadRequest
		code = "invalid_argument"
	case errors.Is(err, repository.ErrOrderNotFound), errors.Is(err, catalog.ErrProductNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, order.ErrPersistence):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	default:
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
	}

	respondError(w, httpStatus, code, err.Error())
}
