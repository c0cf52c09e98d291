package http

import (
	"errors"
	"net/http"

	"orderdesk/internal/pkg/errs"
)

// ErrorResponse is the body of every non-2xx answer. Gate is set when a
// delivery is refused for lack of acknowledgment.
type ErrorResponse struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Gate    *GateResponse `json:"gate,omitempty"`
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPrecondition):
		return http.StatusPreconditionFailed
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
