package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// SettingsRequest is the request body for POST and PUT /settings/{id}/{eventType}.
// settings must be a JSON object and is stored verbatim.
type SettingsRequest struct {
	Settings json.RawMessage `json:"settings" validate:"required" swaggertype:"object"`
}

// SettingsSuccessResponse is the success response envelope for /settings endpoints.
type SettingsSuccessResponse struct {
	Data  *domain.EventSettings `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// SettingsController serves /settings.
type SettingsController struct {
	Responder
	Service domain.SettingsService
}

func NewSettingsController(responder Responder, svc domain.SettingsService) *SettingsController {
	return &SettingsController{
		Responder: responder,
		Service:   svc,
	}
}

// GetSettings godoc
// @Summary Get the settings of an event
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.SettingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings/{id} [get]
func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	settings, err := c.Service.Get(r.Context(), who, eventID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, settings)
}

// CreateSettings godoc
// @Summary Create the settings of an event
// @Description eventType must match the type of the event.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param eventType path string true "Event type slug (quinceanera, save-the-date, wedding)"
// @Param body body SettingsRequest true "Settings object"
// @Success 201 {object} controllers.SettingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (settings exist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings/{id}/{eventType} [post]
func (c *SettingsController) CreateSettings(w http.ResponseWriter, r *http.Request) {
	c.write(w, r, http.StatusCreated, c.Service.Create)
}

// UpdateSettings godoc
// @Summary Replace the settings of an event
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param eventType path string true "Event type slug (quinceanera, save-the-date, wedding)"
// @Param body body SettingsRequest true "Settings object"
// @Success 200 {object} controllers.SettingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings/{id}/{eventType} [put]
func (c *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	c.write(w, r, http.StatusOK, c.Service.Update)
}

type settingsWriter func(ctx context.Context, caller domain.Caller, eventID, eventTypeSlug string, blob json.RawMessage) (*domain.EventSettings, error)

func (c *SettingsController) write(w http.ResponseWriter, r *http.Request, status int, save settingsWriter) {
	eventID, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req SettingsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	settings, err := save(r.Context(), who, eventID, r.PathValue("eventType"), req.Settings)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, status, settings)
}
