package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorEnvelope{Error: APIError{Code: code, Message: message}})
}

// FromError maps domain errors onto statuses. Unknown errors are logged and
// reported as a generic 500.
func FromError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperr.ErrInvalidInput):
		Error(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		Error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		if log != nil {
			log.Error("request failed", "err", err)
		}
		Error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: bad json", apperr.ErrInvalidInput)
	}
	return nil
}
