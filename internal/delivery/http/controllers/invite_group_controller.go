package controllers

import (
	"net/http"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// CreateInviteGroupRequest is the request body for POST /inviteGroups.
type CreateInviteGroupRequest struct {
	EventID     string `json:"eventId" validate:"required,uuid"`
	InviteGroup string `json:"inviteGroup" validate:"required,max=255"`
}

// RenameInviteGroupRequest is the request body for PUT /inviteGroups/{id}.
type RenameInviteGroupRequest struct {
	InviteGroup string `json:"inviteGroup" validate:"required,max=255"`
}

// InviteGroupSuccessResponse is the success response envelope for endpoints returning one group.
type InviteGroupSuccessResponse struct {
	Data  *domain.InviteGroup `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// InviteGroupListSuccessResponse is the success response envelope for GET /inviteGroups/{id} (200).
type InviteGroupListSuccessResponse struct {
	Data  []*domain.InviteGroup `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// InviteGroupController serves /inviteGroups.
type InviteGroupController struct {
	Responder
	Service domain.InviteGroupService
}

func NewInviteGroupController(responder Responder, svc domain.InviteGroupService) *InviteGroupController {
	return &InviteGroupController{
		Responder: responder,
		Service:   svc,
	}
}

// ListInviteGroups godoc
// @Summary List the invite groups of an event
// @Tags inviteGroups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.InviteGroupListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /inviteGroups/{id} [get]
func (c *InviteGroupController) ListInviteGroups(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	groups, err := c.Service.List(r.Context(), who, eventID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if groups == nil {
		groups = []*domain.InviteGroup{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, groups)
}

// CreateInviteGroup godoc
// @Summary Create an invite group
// @Description Names are unique per event, compared case-insensitively.
// @Tags inviteGroups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateInviteGroupRequest true "Group data"
// @Success 201 {object} controllers.InviteGroupSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /inviteGroups [post]
func (c *InviteGroupController) CreateInviteGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateInviteGroupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	group, err := c.Service.Create(r.Context(), who, req.EventID, req.InviteGroup)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, group)
}

// RenameInviteGroup godoc
// @Summary Rename an invite group
// @Tags inviteGroups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invite group ID (UUID)"
// @Param body body RenameInviteGroupRequest true "New name"
// @Success 200 {object} controllers.InviteGroupSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /inviteGroups/{id} [put]
func (c *InviteGroupController) RenameInviteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req RenameInviteGroupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	group, err := c.Service.Rename(r.Context(), who, id, req.InviteGroup)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, group)
}

// CheckInviteGroup godoc
// @Summary Whether an event already has a group with this name
// @Tags inviteGroups
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID (UUID)"
// @Param inviteGroup path string true "Group name"
// @Success 200 {object} helpers.APIResponse "data contains exists"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /inviteGroups/check-invite-group/{eventId}/{inviteGroup} [get]
func (c *InviteGroupController) CheckInviteGroup(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventId")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	exists, err := c.Service.Exists(r.Context(), who, eventID, r.PathValue("inviteGroup"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ExistsResponse{Exists: exists})
}
