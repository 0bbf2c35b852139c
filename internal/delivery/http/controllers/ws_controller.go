package controllers

import (
	"errors"
	"net/http"
	"strings"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// SessionServer keeps an upgraded websocket session in the room of username.
type SessionServer interface {
	Serve(w http.ResponseWriter, r *http.Request, username string)
}

// WSController authenticates websocket clients. Browsers cannot set headers on the
// handshake, so the token is read from the "token" query parameter.
type WSController struct {
	Responder
	Verifier domain.TokenVerifier
	Users    domain.UserService
	Sessions SessionServer
}

func NewWSController(responder Responder, verifier domain.TokenVerifier, users domain.UserService, sessions SessionServer) *WSController {
	return &WSController{
		Responder: responder,
		Verifier:  verifier,
		Users:     users,
		Sessions:  sessions,
	}
}

// Connect godoc
// @Summary Open a notification websocket
// @Description Joins the room of the token's user. Every session of the user receives RSVP notifications.
// @Tags realtime
// @Param token query string true "Session token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /ws [get]
func (c *WSController) Connect(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing token")
		return
	}
	claims, err := c.Verifier.Verify(token)
	if err != nil || claims == nil || claims.UserID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired token")
		return
	}
	// The room is keyed by the stored username, which may have changed since the token was issued.
	user, err := c.Users.Get(r.Context(), claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unknown user")
		return
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if !user.IsActive {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "user is inactive")
		return
	}
	c.Sessions.Serve(w, r, user.Username)
}
