package helpers

import (
	"errors"
	"net/http"

	"invitesmanager/internal/domain"
)

// StatusFor maps a service error to its HTTP status and error code.
// ok is false for unexpected errors, which must be answered with a 500.
func StatusFor(err error) (status int, code string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest, true
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInactiveUser):
		return http.StatusUnauthorized, ErrCodeUnauthorized, true
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrDeadlinePassed),
		errors.Is(err, domain.ErrEnvironmentLocked):
		return http.StatusForbidden, ErrCodeForbidden, true
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrCodeNotFound, true
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyConfirmed),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, ErrCodeConflict, true
	}
	return http.StatusInternalServerError, ErrCodeInternalError, false
}

// InternalErrorMessage is the only text a client sees for an unexpected failure.
const InternalErrorMessage = "internal server error"
