package controllers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/delivery/http/middleware"
	"invitesmanager/internal/domain"
)

// Responder answers failed requests. Expected service errors map to their status; anything
// else is logged, written to the error log and answered with a generic 500.
type Responder struct {
	Logger   *slog.Logger
	ErrorLog domain.ErrorLogService
}

// NewResponder creates the Responder shared by every controller.
func NewResponder(logger *slog.Logger, errorLog domain.ErrorLogService) Responder {
	return Responder{Logger: logger, ErrorLog: errorLog}
}

func (c Responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, code, ok := helpers.StatusFor(err); ok {
		helpers.WriteJSONError(w, status, code, err.Error())
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	userID, _ := middleware.UserIDFromContext(r.Context())
	c.ErrorLog.Record(r.Context(), userID, helpers.ErrCodeInternalError, err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, helpers.InternalErrorMessage)
}

// caller returns the caller resolved by RequireRoles or writes a 401.
func caller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	c, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return domain.Caller{}, false
	}
	return c, true
}

// decodeImages decodes base64 payloads. Data URL prefixes ("data:image/png;base64,") are accepted.
func decodeImages(encoded []string) ([][]byte, []helpers.FieldError) {
	out := make([][]byte, 0, len(encoded))
	var details []helpers.FieldError
	for i, s := range encoded {
		if _, payload, ok := strings.Cut(s, ";base64,"); ok && strings.HasPrefix(s, "data:") {
			s = payload
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil || len(data) == 0 {
			details = append(details, helpers.FieldError{Field: fmt.Sprintf("images[%d]", i), Message: "must be base64 encoded image data"})
			continue
		}
		out = append(out, data)
	}
	return out, details
}

// ExistsResponse is the response body of the name availability checks.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// CountResponse reports how many rows an operation changed.
type CountResponse struct {
	Count int64 `json:"count"`
}
