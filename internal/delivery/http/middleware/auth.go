package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	h "invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	callerKey contextKey = "caller"
)

// legacyTokenHeader is the header older clients send the token in.
const legacyTokenHeader = "x-access-token"

// SetUserID returns a context with the user ID set. Used by auth middleware.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// SetCaller returns a context carrying the caller resolved by RequireRoles.
func SetCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(SetUserID(ctx, caller.UserID), callerKey, caller)
}

// CallerFromContext returns the caller resolved by RequireRoles, if present.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}

// bearerToken extracts the token from "Authorization: Bearer <t>" or the legacy header.
func bearerToken(r *http.Request) (string, string) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			return "", "invalid authorization format"
		}
		token := strings.TrimSpace(auth[len(prefix):])
		if token == "" {
			return "", "missing token"
		}
		return token, ""
	}
	if token := strings.TrimSpace(r.Header.Get(legacyTokenHeader)); token != "" {
		return token, ""
	}
	return "", "missing authorization header"
}

// RequireAuth returns a wrapper that validates the token and sets the user ID in the request context.
// Only signature and expiry are checked; roles carried by the token are ignored.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, problem := bearerToken(r)
			if problem != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, problem)
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil || claims.UserID == "" {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetUserID(r.Context(), claims.UserID))
			next(w, r)
		}
	}
}

// RoleLookup returns the current active role names of a user.
type RoleLookup interface {
	RolesForUser(ctx context.Context, userID string) ([]string, error)
}

// expandRoles adds the legacy entriesAdmin name wherever invitesAdmin is accepted.
func expandRoles(roles []string) []string {
	out := slices.Clone(roles)
	if slices.Contains(out, domain.RoleInvitesAdmin) && !slices.Contains(out, domain.RoleEntriesAdmin) {
		out = append(out, domain.RoleEntriesAdmin)
	}
	return out
}

// RequireRoles returns a wrapper that loads the caller's roles from the store on every request
// and lets the request through when at least one of roles is held. It must run after RequireAuth.
func RequireRoles(lookup RoleLookup, logger *slog.Logger, roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	accepted := expandRoles(roles)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
				return
			}
			held, err := lookup.RolesForUser(r.Context(), userID)
			if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unknown user")
				return
			}
			if err != nil {
				logger.ErrorContext(r.Context(), "role lookup failed", "user_id", userID, "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, h.InternalErrorMessage)
				return
			}
			caller := domain.Caller{UserID: userID, Roles: held}
			if !caller.HasAnyRole(accepted...) {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "insufficient role")
				return
			}
			r = r.WithContext(SetCaller(r.Context(), caller))
			next(w, r)
		}
	}
}
