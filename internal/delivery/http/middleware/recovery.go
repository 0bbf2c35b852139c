package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	h "invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// Recovery turns a panicking handler into a 500 and records the panic in the error log.
func Recovery(logger *slog.Logger, errorLog domain.ErrorLogService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err := fmt.Errorf("panic: %v", rec)
			logger.ErrorContext(r.Context(), "handler panicked",
				"method", r.Method,
				"path", r.URL.Path,
				"err", err,
				"stack", string(debug.Stack()),
			)
			userID, _ := UserIDFromContext(r.Context())
			errorLog.Record(r.Context(), userID, "panic", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, h.InternalErrorMessage)
		}()
		next.ServeHTTP(w, r)
	})
}
