package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"invitesmanager/internal/delivery/http/controllers"
	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/delivery/http/middleware"
	"invitesmanager/internal/domain"
)

// Controllers groups every controller served by the router.
type Controllers struct {
	Auth        *controllers.AuthController
	Events      *controllers.EventController
	Invites     *controllers.InviteController
	InviteGroup *controllers.InviteGroupController
	Settings    *controllers.SettingsController
	Files       *controllers.FileController
	Gallery     *controllers.GalleryController
	Users       *controllers.UserController
	Roles       *controllers.RoleController
	ErrorLogs   *controllers.ErrorLogController
	Environment *controllers.EnvironmentController
	WS          *controllers.WSController
}

// RouterConfig carries what the router needs besides the controllers.
type RouterConfig struct {
	Verifier       domain.TokenVerifier
	Roles          middleware.RoleLookup
	ErrorLog       domain.ErrorLogService
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// with recovery, request logging and CORS.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	withRoles := func(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
		check := middleware.RequireRoles(cfg.Roles, cfg.Logger, roles...)
		return func(next http.HandlerFunc) http.HandlerFunc {
			return auth(check(next))
		}
	}
	eventAdmin := withRoles(domain.RoleAdmin, domain.RoleInvitesAdmin)
	adminOnly := withRoles(domain.RoleAdmin)

	// Auth
	mux.HandleFunc("POST /auth/signin", c.Auth.SignIn)
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)

	// Events
	mux.HandleFunc("POST /events", eventAdmin(c.Events.CreateEvent))
	mux.HandleFunc("GET /events", eventAdmin(c.Events.ListEvents))
	mux.HandleFunc("GET /events/{id}", eventAdmin(c.Events.GetEvent))
	mux.HandleFunc("PUT /events/{id}", eventAdmin(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", eventAdmin(c.Events.DeleteEvent))
	mux.HandleFunc("GET /events/{a}/{b}", eventPairDispatcher(eventAdmin(c.Events.ListEventInvites), c.Events.GetEventInformation))
	mux.HandleFunc("GET /events/invites/{id}/deadlineMet", c.Events.DeadlineMet)

	// Invites
	mux.HandleFunc("GET /invites", eventAdmin(c.Invites.ListInvites))
	mux.HandleFunc("POST /invites", eventAdmin(c.Invites.CreateInvite))
	mux.HandleFunc("GET /invites/{id}", c.Invites.GetInvite)
	mux.HandleFunc("PUT /invites/{id}", eventAdmin(c.Invites.UpdateInvite))
	mux.HandleFunc("DELETE /invites/{id}", eventAdmin(c.Invites.DeleteInvite))
	mux.HandleFunc("POST /invites/bulkInvites", eventAdmin(c.Invites.BulkCreate))
	mux.HandleFunc("DELETE /invites/bulkInvites", eventAdmin(c.Invites.BulkDelete))
	mux.HandleFunc("PATCH /invites/cancel/{id}", eventAdmin(c.Invites.CancelInvites))
	mux.HandleFunc("PATCH /invites/overwrite/{id}", eventAdmin(c.Invites.OverwriteConfirmation))
	mux.HandleFunc("PATCH /invites/messages/{id}", eventAdmin(c.Invites.ReadMessage))
	mux.HandleFunc("PATCH /invites/viewed/{id}", c.Invites.MarkAsViewed)
	mux.HandleFunc("PATCH /invites/{id}/{eventType}", c.Invites.SubmitRSVP)

	// Invite groups
	mux.HandleFunc("GET /inviteGroups/{id}", eventAdmin(c.InviteGroup.ListInviteGroups))
	mux.HandleFunc("POST /inviteGroups", eventAdmin(c.InviteGroup.CreateInviteGroup))
	mux.HandleFunc("PUT /inviteGroups/{id}", eventAdmin(c.InviteGroup.RenameInviteGroup))
	mux.HandleFunc("GET /inviteGroups/check-invite-group/{eventId}/{inviteGroup}", eventAdmin(c.InviteGroup.CheckInviteGroup))

	// Settings
	mux.HandleFunc("GET /settings/{id}", eventAdmin(c.Settings.GetSettings))
	mux.HandleFunc("POST /settings/{id}/{eventType}", eventAdmin(c.Settings.CreateSettings))
	mux.HandleFunc("PUT /settings/{id}/{eventType}", eventAdmin(c.Settings.UpdateSettings))

	// Files
	mux.HandleFunc("POST /files", eventAdmin(c.Files.Upload))
	mux.HandleFunc("GET /files/{id}", eventAdmin(c.Files.ListFiles))
	mux.HandleFunc("PUT /files", eventAdmin(c.Files.UpdateUsage))
	mux.HandleFunc("DELETE /files", eventAdmin(c.Files.DeleteFiles))

	// Gallery
	mux.HandleFunc("GET /gallery/{id}", eventAdmin(c.Gallery.ListAlbums))
	mux.HandleFunc("POST /gallery", eventAdmin(c.Gallery.CreateAlbum))
	mux.HandleFunc("PUT /gallery/{id}", eventAdmin(c.Gallery.RenameAlbum))
	mux.HandleFunc("DELETE /gallery/{id}", eventAdmin(c.Gallery.DeactivateAlbum))
	mux.HandleFunc("GET /gallery/check-album/{eventId}/{album}", eventAdmin(c.Gallery.CheckAlbum))
	mux.HandleFunc("GET /gallery/images/{id}", eventAdmin(c.Gallery.ListImages))
	mux.HandleFunc("POST /gallery/images", eventAdmin(c.Gallery.AddImages))
	mux.HandleFunc("PUT /gallery/images", eventAdmin(c.Gallery.ReorderImages))
	mux.HandleFunc("DELETE /gallery/images/{id}", eventAdmin(c.Gallery.DeactivateImage))

	// Users and roles
	mux.HandleFunc("GET /users", adminOnly(c.Users.ListUsers))
	mux.HandleFunc("GET /users/basic", adminOnly(c.Users.ListBasicUsers))
	mux.HandleFunc("GET /users/{id}", adminOnly(c.Users.GetUser))
	mux.HandleFunc("POST /users", adminOnly(c.Users.CreateUser))
	mux.HandleFunc("PUT /users/{id}", adminOnly(c.Users.UpdateUser))
	mux.HandleFunc("DELETE /users/{id}", adminOnly(c.Users.DeleteUser))
	mux.HandleFunc("GET /roles", adminOnly(c.Roles.ListRoles))
	mux.HandleFunc("POST /roles", adminOnly(c.Roles.CreateRole))
	mux.HandleFunc("PUT /roles/{id}", adminOnly(c.Roles.UpdateRole))
	mux.HandleFunc("DELETE /roles/{id}", adminOnly(c.Roles.DeleteRole))

	// Maintenance
	mux.HandleFunc("GET /logs", adminOnly(c.ErrorLogs.ListErrorLogs))
	mux.HandleFunc("POST /environment/reset", adminOnly(c.Environment.ResetEnvironment))

	// Realtime
	mux.HandleFunc("GET /ws", c.WS.Connect)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return middleware.Recovery(cfg.Logger, cfg.ErrorLog, handler)
}

// eventPairDispatcher serves the two-segment event routes. "/events/invites/{id}" and
// "/events/{id}/eventInformation" overlap as mux patterns, so both go through one pattern.
func eventPairDispatcher(listInvites, information http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, b := r.PathValue("a"), r.PathValue("b")
		switch {
		case a == "invites":
			r.SetPathValue("id", b)
			listInvites(w, r)
		case b == "eventInformation":
			r.SetPathValue("id", a)
			information(w, r)
		default:
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "route not found")
		}
	}
}
