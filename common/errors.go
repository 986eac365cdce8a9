package common

import (
	"encoding/json"
	"errors"
	"go-jobportal-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Failure kinds form the closed error taxonomy of the service layer.
// Services wrap them with fmt.Errorf("%w: detail") so handlers can match the
// kind with errors.Is while the wrapped detail stays in server-side logs only.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrConflict             = errors.New("conflict")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}

// FromServiceError maps a service-layer failure kind onto an HTTP error.
// The outward message is intentionally generic for authentication failures
// so callers cannot learn which check rejected them.
func FromServiceError(err error) *AppError {
	switch {
	case errors.Is(err, ErrAuthenticationFailed):
		return NewAppError(http.StatusUnauthorized, "Authentication failed", err)
	case errors.Is(err, ErrConflict):
		return NewAppError(http.StatusConflict, "Resource already exists", err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, ErrValidation):
		return NewAppError(http.StatusUnprocessableEntity, err.Error(), err)
	default:
		return NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}
