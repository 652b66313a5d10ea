package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// decode reads a JSON body into v. An empty body is accepted when optional is set.
func decode(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	w.Header().Set("Content-Type", "application/json")
	config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func authStatus(code string) int {
	switch code {
	case services.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case services.CodeWrongPassword:
		return http.StatusUnauthorized
	case services.CodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// serviceError maps a service error onto an HTTP response. Identity errors keep
// their code so the client can pick the message to show.
func serviceError(w http.ResponseWriter, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	if code, ok := services.AuthErrorCode(err); ok {
		zap.S().Warnw(message, "code", code, "error", err)
		writeJSON(w, authStatus(code), models.ErrorResponse{Success: false, Error: message, Code: "auth/" + code})
		return
	}
	config.ErrorStatus(message, statusFor(err), w, err)
}
