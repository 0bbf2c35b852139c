package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitesmanager/internal/delivery/http/controllers"
	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

const (
	routerEventID = "3f1c2f9a-9a43-4d7e-8d2e-6a8f0a1b2c3d"
	adminToken    = "admin-token"
	plannerToken  = "planner-token"
	legacyToken   = "legacy-token"
	userToken     = "user-token"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*domain.TokenClaims, error) {
	switch token {
	case adminToken, plannerToken, legacyToken, userToken:
		return &domain.TokenClaims{UserID: token}, nil
	}
	return nil, errors.New("bad token")
}

type stubRoles map[string][]string

func (s stubRoles) RolesForUser(_ context.Context, userID string) ([]string, error) {
	return s[userID], nil
}

type stubErrorLog struct{}

func (stubErrorLog) Record(context.Context, string, string, error) {}
func (stubErrorLog) List(context.Context, domain.PaginationParams) ([]*domain.ErrorLog, int, error) {
	return nil, 0, nil
}
func (stubErrorLog) Purge(context.Context) (int64, error) { return 0, nil }

type stubEvents struct {
	domain.EventService
	infoID    string
	invitesID string
}

func (s *stubEvents) GetEventInformation(_ context.Context, eventID string, _ []string) (*domain.EventInformation, error) {
	s.infoID = eventID
	return &domain.EventInformation{Event: &domain.Event{ID: eventID}}, nil
}

func (s *stubEvents) ListEventInvites(_ context.Context, _ domain.Caller, eventID string) ([]*domain.Invite, error) {
	s.invitesID = eventID
	return nil, nil
}

func newTestRouter(events *stubEvents) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	responder := controllers.NewResponder(logger, stubErrorLog{})
	roles := stubRoles{
		adminToken:   {domain.RoleAdmin},
		plannerToken: {domain.RoleInvitesAdmin},
		legacyToken:  {domain.RoleEntriesAdmin},
		userToken:    {domain.RoleUser},
	}
	return NewRouter(Controllers{
		Auth:        &controllers.AuthController{},
		Events:      controllers.NewEventController(responder, events),
		Invites:     &controllers.InviteController{},
		InviteGroup: &controllers.InviteGroupController{},
		Settings:    &controllers.SettingsController{},
		Files:       &controllers.FileController{},
		Gallery:     &controllers.GalleryController{},
		Users:       &controllers.UserController{},
		Roles:       &controllers.RoleController{},
		ErrorLogs:   &controllers.ErrorLogController{},
		Environment: &controllers.EnvironmentController{},
		WS:          &controllers.WSController{},
	}, RouterConfig{
		Verifier:       stubVerifier{},
		Roles:          roles,
		ErrorLog:       stubErrorLog{},
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         logger,
	})
}

func TestRouter_EventPairRoutes(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		token         string
		wantStatus    int
		wantInfoID    string
		wantInvitesID string
	}{
		{name: "event information is public", path: "/events/" + routerEventID + "/eventInformation", wantStatus: http.StatusOK, wantInfoID: routerEventID},
		{name: "event invites need a token", path: "/events/invites/" + routerEventID, wantStatus: http.StatusUnauthorized},
		{name: "event invites for planner", path: "/events/invites/" + routerEventID, token: plannerToken, wantStatus: http.StatusOK, wantInvitesID: routerEventID},
		{name: "legacy role accepted", path: "/events/invites/" + routerEventID, token: legacyToken, wantStatus: http.StatusOK, wantInvitesID: routerEventID},
		{name: "plain user forbidden", path: "/events/invites/" + routerEventID, token: userToken, wantStatus: http.StatusForbidden},
		{name: "unknown pair", path: "/events/" + routerEventID + "/other", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &stubEvents{}
			router := newTestRouter(events)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantInfoID, events.infoID)
			assert.Equal(t, tt.wantInvitesID, events.invitesID)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		})
	}
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	router := newTestRouter(&stubEvents{})
	for _, path := range []string{"/users", "/roles", "/logs"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer "+plannerToken)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusForbidden, rr.Code)
		})
	}
}

func TestRouter_Preflight(t *testing.T) {
	router := newTestRouter(&stubEvents{})
	req := httptest.NewRequest(http.MethodOptions, "/invites/"+routerEventID+"/wedding", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
