package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/delivery/http/middleware"
	"invitesmanager/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testUserID   = "3f8e0c52-7a51-4d7e-9c55-0b3b1d7f2a10"
	testEventID  = "7f9c2ba4-e88f-4b3e-9a8c-1c2d3e4f5a6b"
	testInviteID = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
	testGroupID  = "c0ffee00-1234-4abc-9def-00112233aabb"
)

var testCaller = domain.Caller{UserID: testUserID, Roles: []string{domain.RoleInvitesAdmin}}

type recordedError struct {
	userID string
	code   string
	err    error
}

type fakeErrorLog struct {
	records     []recordedError
	listResult  []*domain.ErrorLog
	listTotal   int
	listErr     error
	lastListArg domain.PaginationParams
}

func (f *fakeErrorLog) Record(_ context.Context, userID, code string, err error) {
	f.records = append(f.records, recordedError{userID: userID, code: code, err: err})
}

func (f *fakeErrorLog) List(_ context.Context, params domain.PaginationParams) ([]*domain.ErrorLog, int, error) {
	f.lastListArg = params
	return f.listResult, f.listTotal, f.listErr
}

func (f *fakeErrorLog) Purge(context.Context) (int64, error) { return 0, nil }

func newTestResponder() (Responder, *fakeErrorLog) {
	log := &fakeErrorLog{}
	return NewResponder(testLogger, log), log
}

// withCaller attaches the caller RequireRoles would have resolved.
func withCaller(req *http.Request) *http.Request {
	return req.WithContext(middleware.SetCaller(req.Context(), testCaller))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	return envelope
}

func decodeData(t *testing.T, envelope helpers.APIResponse, dest any) {
	t.Helper()
	require.Nil(t, envelope.Error, "success response must have error nil")
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

func detailFields(envelope helpers.APIResponse) []string {
	if envelope.Error == nil {
		return nil
	}
	fields := make([]string, 0, len(envelope.Error.Details))
	for _, d := range envelope.Error.Details {
		fields = append(fields, d.Field)
	}
	return fields
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err              error
	event            *domain.Event
	events           []*domain.Event
	invites          []*domain.Invite
	info             *domain.EventInformation
	deadlineMet      bool
	lastCaller       domain.Caller
	lastID           string
	lastEvent        *domain.Event
	lastOverride     bool
	lastOverrideView bool
	lastKeys         []string
}

func (f *fakeEventService) CreateEvent(_ context.Context, caller domain.Caller, event *domain.Event) error {
	f.lastCaller, f.lastEvent = caller, event
	if f.err != nil {
		return f.err
	}
	event.ID = testEventID
	event.UserID = caller.UserID
	return nil
}

func (f *fakeEventService) GetEvent(_ context.Context, caller domain.Caller, id string) (*domain.Event, error) {
	f.lastCaller, f.lastID = caller, id
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(_ context.Context, caller domain.Caller) ([]*domain.Event, error) {
	f.lastCaller = caller
	return f.events, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, caller domain.Caller, id string, fields *domain.Event, override, overrideViewed bool) (*domain.Event, error) {
	f.lastCaller, f.lastID, f.lastEvent = caller, id, fields
	f.lastOverride, f.lastOverrideView = override, overrideViewed
	if f.err != nil {
		return nil, f.err
	}
	fields.ID = id
	return fields, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, caller domain.Caller, id string) error {
	f.lastCaller, f.lastID = caller, id
	return f.err
}

func (f *fakeEventService) IsDeadlineMet(_ context.Context, eventID string) (bool, error) {
	f.lastID = eventID
	return f.deadlineMet, f.err
}

func (f *fakeEventService) GetEventInformation(_ context.Context, eventID string, keys []string) (*domain.EventInformation, error) {
	f.lastID, f.lastKeys = eventID, keys
	return f.info, f.err
}

func (f *fakeEventService) ListEventInvites(_ context.Context, caller domain.Caller, eventID string) ([]*domain.Invite, error) {
	f.lastCaller, f.lastID = caller, eventID
	return f.invites, f.err
}

// fakeInviteService implements domain.InviteService for handler tests.
type fakeInviteService struct {
	err          error
	invite       *domain.Invite
	invites      []*domain.Invite
	count        int64
	lastCaller   domain.Caller
	lastID       string
	lastSlug     string
	lastRSVP     domain.RSVP
	lastInvite   *domain.Invite
	lastItems    []domain.BulkInviteItem
	lastIDs      []string
	lastConfirm  bool
	lastEntries  *int
	rsvpCalls    int
	publicCalled bool
}

func (f *fakeInviteService) CreateInvite(_ context.Context, caller domain.Caller, invite *domain.Invite) error {
	f.lastCaller, f.lastInvite = caller, invite
	if f.err != nil {
		return f.err
	}
	invite.ID = testInviteID
	return nil
}

func (f *fakeInviteService) GetInvite(_ context.Context, id string) (*domain.Invite, error) {
	f.lastID, f.publicCalled = id, true
	return f.invite, f.err
}

func (f *fakeInviteService) ListInvites(_ context.Context, caller domain.Caller) ([]*domain.Invite, error) {
	f.lastCaller = caller
	return f.invites, f.err
}

func (f *fakeInviteService) UpdateInvite(_ context.Context, caller domain.Caller, id string, fields *domain.Invite) (*domain.Invite, error) {
	f.lastCaller, f.lastID, f.lastInvite = caller, id, fields
	return f.invite, f.err
}

func (f *fakeInviteService) DeleteInvite(_ context.Context, caller domain.Caller, id string) error {
	f.lastCaller, f.lastID = caller, id
	return f.err
}

func (f *fakeInviteService) BulkCreate(_ context.Context, caller domain.Caller, eventID string, items []domain.BulkInviteItem) ([]*domain.Invite, error) {
	f.lastCaller, f.lastID, f.lastItems = caller, eventID, items
	return f.invites, f.err
}

func (f *fakeInviteService) BulkDelete(_ context.Context, caller domain.Caller, ids []string) (int64, error) {
	f.lastCaller, f.lastIDs = caller, ids
	return f.count, f.err
}

func (f *fakeInviteService) CancelInvites(_ context.Context, caller domain.Caller, eventID string) (int64, error) {
	f.lastCaller, f.lastID = caller, eventID
	return f.count, f.err
}

func (f *fakeInviteService) OverwriteConfirmation(_ context.Context, caller domain.Caller, id string, confirmation bool, entriesConfirmed *int) (*domain.Invite, error) {
	f.lastCaller, f.lastID, f.lastConfirm, f.lastEntries = caller, id, confirmation, entriesConfirmed
	return f.invite, f.err
}

func (f *fakeInviteService) SubmitRSVP(_ context.Context, id, eventTypeSlug string, rsvp domain.RSVP) (*domain.Invite, error) {
	f.rsvpCalls++
	f.lastID, f.lastSlug, f.lastRSVP = id, eventTypeSlug, rsvp
	return f.invite, f.err
}

func (f *fakeInviteService) ReadMessage(_ context.Context, caller domain.Caller, id string) (*domain.Invite, error) {
	f.lastCaller, f.lastID = caller, id
	return f.invite, f.err
}

func (f *fakeInviteService) MarkAsViewed(_ context.Context, id string) (*domain.Invite, error) {
	f.lastID, f.publicCalled = id, true
	return f.invite, f.err
}

// fakeInviteGroupService implements domain.InviteGroupService for handler tests.
type fakeInviteGroupService struct {
	err       error
	group     *domain.InviteGroup
	groups    []*domain.InviteGroup
	exists    bool
	lastEvent string
	lastID    string
	lastName  string
}

func (f *fakeInviteGroupService) List(_ context.Context, _ domain.Caller, eventID string) ([]*domain.InviteGroup, error) {
	f.lastEvent = eventID
	return f.groups, f.err
}

func (f *fakeInviteGroupService) Create(_ context.Context, _ domain.Caller, eventID, name string) (*domain.InviteGroup, error) {
	f.lastEvent, f.lastName = eventID, name
	return f.group, f.err
}

func (f *fakeInviteGroupService) Rename(_ context.Context, _ domain.Caller, id, name string) (*domain.InviteGroup, error) {
	f.lastID, f.lastName = id, name
	return f.group, f.err
}

func (f *fakeInviteGroupService) Exists(_ context.Context, _ domain.Caller, eventID, name string) (bool, error) {
	f.lastEvent, f.lastName = eventID, name
	return f.exists, f.err
}

// fakeSettingsService implements domain.SettingsService for handler tests.
type fakeSettingsService struct {
	err       error
	settings  *domain.EventSettings
	lastEvent string
	lastSlug  string
	lastBlob  json.RawMessage
	created   bool
}

func (f *fakeSettingsService) Get(_ context.Context, _ domain.Caller, eventID string) (*domain.EventSettings, error) {
	f.lastEvent = eventID
	return f.settings, f.err
}

func (f *fakeSettingsService) Create(_ context.Context, _ domain.Caller, eventID, slug string, blob json.RawMessage) (*domain.EventSettings, error) {
	f.lastEvent, f.lastSlug, f.lastBlob, f.created = eventID, slug, blob, true
	return f.settings, f.err
}

func (f *fakeSettingsService) Update(_ context.Context, _ domain.Caller, eventID, slug string, blob json.RawMessage) (*domain.EventSettings, error) {
	f.lastEvent, f.lastSlug, f.lastBlob = eventID, slug, blob
	return f.settings, f.err
}

// fakeFileService implements domain.FileService for handler tests.
type fakeFileService struct {
	err             error
	files           []*domain.File
	lastEvent       string
	lastImages      [][]byte
	lastFilename    string
	lastContentType string
	lastAudio       []byte
	lastUpdates     []domain.UsageUpdate
	lastIDs         []string
}

func (f *fakeFileService) UploadImages(_ context.Context, _ domain.Caller, eventID string, images [][]byte) ([]*domain.File, error) {
	f.lastEvent, f.lastImages = eventID, images
	return f.files, f.err
}

func (f *fakeFileService) UploadAudio(_ context.Context, _ domain.Caller, eventID, filename, contentType string, body io.Reader, _ int64) (*domain.File, error) {
	f.lastEvent, f.lastFilename, f.lastContentType = eventID, filename, contentType
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.lastAudio = data
	if f.err != nil {
		return nil, f.err
	}
	return &domain.File{ID: "f-audio", EventID: eventID, Kind: domain.FileKindAudio}, nil
}

func (f *fakeFileService) ListByEvent(_ context.Context, _ domain.Caller, eventID string) ([]*domain.File, error) {
	f.lastEvent = eventID
	return f.files, f.err
}

func (f *fakeFileService) UpdateUsage(_ context.Context, _ domain.Caller, updates []domain.UsageUpdate) error {
	f.lastUpdates = updates
	return f.err
}

func (f *fakeFileService) Delete(_ context.Context, _ domain.Caller, ids []string) error {
	f.lastIDs = ids
	return f.err
}

// fakeGalleryService implements domain.GalleryService for handler tests.
type fakeGalleryService struct {
	err        error
	album      *domain.Album
	albums     []*domain.Album
	images     []*domain.AlbumImage
	exists     bool
	lastEvent  string
	lastID     string
	lastName   string
	lastImages [][]byte
	lastOrders []domain.ImageOrder
}

func (f *fakeGalleryService) ListAlbums(_ context.Context, _ domain.Caller, eventID string) ([]*domain.Album, error) {
	f.lastEvent = eventID
	return f.albums, f.err
}

func (f *fakeGalleryService) CreateAlbum(_ context.Context, _ domain.Caller, eventID, name string) (*domain.Album, error) {
	f.lastEvent, f.lastName = eventID, name
	return f.album, f.err
}

func (f *fakeGalleryService) RenameAlbum(_ context.Context, _ domain.Caller, id, name string) (*domain.Album, error) {
	f.lastID, f.lastName = id, name
	return f.album, f.err
}

func (f *fakeGalleryService) DeactivateAlbum(_ context.Context, _ domain.Caller, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeGalleryService) AlbumExists(_ context.Context, _ domain.Caller, eventID, name string) (bool, error) {
	f.lastEvent, f.lastName = eventID, name
	return f.exists, f.err
}

func (f *fakeGalleryService) ListImages(_ context.Context, _ domain.Caller, albumID string) ([]*domain.AlbumImage, error) {
	f.lastID = albumID
	return f.images, f.err
}

func (f *fakeGalleryService) AddImages(_ context.Context, _ domain.Caller, albumID string, images [][]byte) ([]*domain.AlbumImage, error) {
	f.lastID, f.lastImages = albumID, images
	return f.images, f.err
}

func (f *fakeGalleryService) ReorderImages(_ context.Context, _ domain.Caller, orders []domain.ImageOrder) error {
	f.lastOrders = orders
	return f.err
}

func (f *fakeGalleryService) DeactivateImage(_ context.Context, _ domain.Caller, id string) error {
	f.lastID = id
	return f.err
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	err        error
	user       *domain.User
	users      []*domain.User
	basic      []*domain.UserBasic
	total      int
	lastID     string
	lastInput  domain.UserInput
	lastParams domain.PaginationParams
}

func (f *fakeUserService) List(_ context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	f.lastParams = params
	return f.users, f.total, f.err
}

func (f *fakeUserService) ListBasic(context.Context) ([]*domain.UserBasic, error) {
	return f.basic, f.err
}

func (f *fakeUserService) Get(_ context.Context, id string) (*domain.User, error) {
	f.lastID = id
	return f.user, f.err
}

func (f *fakeUserService) Create(_ context.Context, in domain.UserInput) (*domain.User, error) {
	f.lastInput = in
	return f.user, f.err
}

func (f *fakeUserService) Update(_ context.Context, id string, in domain.UserInput) (*domain.User, error) {
	f.lastID, f.lastInput = id, in
	return f.user, f.err
}

func (f *fakeUserService) Delete(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

// fakeRoleService implements domain.RoleService for handler tests.
type fakeRoleService struct {
	err          error
	role         *domain.Role
	roles        []*domain.Role
	lastID       string
	lastName     string
	lastIsActive bool
}

func (f *fakeRoleService) List(context.Context) ([]*domain.Role, error) { return f.roles, f.err }

func (f *fakeRoleService) Create(_ context.Context, name string) (*domain.Role, error) {
	f.lastName = name
	return f.role, f.err
}

func (f *fakeRoleService) Update(_ context.Context, id, name string, isActive bool) (*domain.Role, error) {
	f.lastID, f.lastName, f.lastIsActive = id, name, isActive
	return f.role, f.err
}

func (f *fakeRoleService) Delete(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeRoleService) Seed(context.Context) error { return nil }

func (f *fakeRoleService) RolesForUser(context.Context, string) ([]string, error) {
	return nil, f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	err       error
	token     string
	user      *domain.User
	lastLogin string
	lastInput domain.UserInput
}

func (f *fakeAuthService) SignIn(_ context.Context, usernameOrEmail, _ string) (string, *domain.User, error) {
	f.lastLogin = usernameOrEmail
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) SignUp(_ context.Context, in domain.UserInput) (*domain.User, error) {
	f.lastInput = in
	return f.user, f.err
}

type fakeEnvironmentService struct {
	err    error
	called bool
}

func (f *fakeEnvironmentService) Reset(context.Context) error {
	f.called = true
	return f.err
}

type fakeTokenVerifier struct {
	claims *domain.TokenClaims
	err    error
}

func (f *fakeTokenVerifier) Verify(string) (*domain.TokenClaims, error) {
	return f.claims, f.err
}

type fakeSessions struct {
	username string
	served   bool
}

func (f *fakeSessions) Serve(w http.ResponseWriter, _ *http.Request, username string) {
	f.username, f.served = username, true
	w.WriteHeader(http.StatusSwitchingProtocols)
}
