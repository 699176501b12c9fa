package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"shareit/internal/logging"
	"shareit/internal/service"

	"github.com/rs/zerolog"
)

// inputError is malformed input detected by the handlers.
type inputError struct {
	msg string
}

func (e *inputError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

func statusFor(err error) int {
	var inErr *inputError
	switch {
	case errors.As(err, &inErr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrOwnerConflict),
		errors.Is(err, service.ErrNoItemsOwned),
		errors.Is(err, service.ErrCommentNotAllowed),
		errors.Is(err, service.ErrUnsupportedState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps err to a status code. Internal errors are logged and hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logging.FromContext(r.Context(), logger).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		WriteError(w, code, "internal server error")
		return
	}
	WriteError(w, code, err.Error())
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, map[string]string{"error": message})
}
