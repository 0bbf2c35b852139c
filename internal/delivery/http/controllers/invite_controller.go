package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// InviteRequest is the request body for POST /invites and PUT /invites/{id}.
type InviteRequest struct {
	Family        string `json:"family" validate:"required"`
	EntriesNumber int    `json:"entriesNumber" validate:"min=1"`
	PhoneNumber   string `json:"phoneNumber" validate:"required"`
	KidsAllowed   bool   `json:"kidsAllowed"`
	EventID       string `json:"eventId" validate:"required,uuid"`
	InviteGroupID string `json:"inviteGroupId" validate:"required,uuid"`
}

func (i InviteRequest) toDomain() *domain.Invite {
	return &domain.Invite{
		Family:        strings.TrimSpace(i.Family),
		EntriesNumber: i.EntriesNumber,
		PhoneNumber:   i.PhoneNumber,
		KidsAllowed:   i.KidsAllowed,
		EventID:       i.EventID,
		InviteGroupID: i.InviteGroupID,
	}
}

// BulkInviteItemRequest is one row of POST /invites/bulkInvites. The group is named by
// inviteGroupId, or by inviteGroup when isNewInviteGroup is set.
type BulkInviteItemRequest struct {
	Family           string `json:"family" validate:"required"`
	EntriesNumber    int    `json:"entriesNumber" validate:"min=1"`
	PhoneNumber      string `json:"phoneNumber" validate:"required"`
	KidsAllowed      bool   `json:"kidsAllowed"`
	InviteGroupID    string `json:"inviteGroupId" validate:"omitempty,uuid"`
	InviteGroup      string `json:"inviteGroup"`
	IsNewInviteGroup bool   `json:"isNewInviteGroup"`
}

// BulkInvitesRequest is the request body for POST /invites/bulkInvites.
type BulkInvitesRequest struct {
	EventID string                  `json:"eventId" validate:"required,uuid"`
	Invites []BulkInviteItemRequest `json:"invites" validate:"required,min=1,dive"`
}

// Validate implements Validator. Every row must name its group one way or the other.
func (b BulkInvitesRequest) Validate() []helpers.FieldError {
	var errs []helpers.FieldError
	for i, item := range b.Invites {
		if item.IsNewInviteGroup && strings.TrimSpace(item.InviteGroup) == "" {
			errs = append(errs, helpers.FieldError{Field: fmt.Sprintf("invites[%d].inviteGroup", i), Message: "is required when isNewInviteGroup is set"})
		}
		if !item.IsNewInviteGroup && item.InviteGroupID == "" {
			errs = append(errs, helpers.FieldError{Field: fmt.Sprintf("invites[%d].inviteGroupId", i), Message: "is required unless isNewInviteGroup is set"})
		}
	}
	return errs
}

// IDsRequest is the request body of the bulk deletions.
type IDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// OverwriteConfirmationRequest is the request body for PATCH /invites/overwrite/{id}.
type OverwriteConfirmationRequest struct {
	Confirmation     *bool `json:"confirmation" validate:"required"`
	EntriesConfirmed *int  `json:"entriesConfirmed" validate:"omitempty,min=0"`
}

// Validate implements Validator.
func (o OverwriteConfirmationRequest) Validate() []helpers.FieldError {
	return requireEntriesWhenConfirmed(o.Confirmation, o.EntriesConfirmed)
}

// RSVPRequest is the request body for PATCH /invites/{id}/{eventType}.
type RSVPRequest struct {
	Confirmation       *bool   `json:"confirmation" validate:"required"`
	EntriesConfirmed   *int    `json:"entriesConfirmed" validate:"omitempty,min=0"`
	Message            *string `json:"message" validate:"omitempty,max=1000"`
	NeedsAccommodation *bool   `json:"needsAccommodation"`
}

// Validate implements Validator.
func (s RSVPRequest) Validate() []helpers.FieldError {
	return requireEntriesWhenConfirmed(s.Confirmation, s.EntriesConfirmed)
}

func requireEntriesWhenConfirmed(confirmation *bool, entries *int) []helpers.FieldError {
	if confirmation != nil && *confirmation && entries == nil {
		return []helpers.FieldError{{Field: "entriesConfirmed", Message: "is required when confirmation is true"}}
	}
	return nil
}

// InviteSuccessResponse is the success response envelope for endpoints returning one invite.
type InviteSuccessResponse struct {
	Data  *domain.Invite    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// InviteListSuccessResponse is the success response envelope for endpoints returning invites.
type InviteListSuccessResponse struct {
	Data  []*domain.Invite  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// InviteController serves /invites.
type InviteController struct {
	Responder
	Service domain.InviteService
}

func NewInviteController(responder Responder, svc domain.InviteService) *InviteController {
	return &InviteController{
		Responder: responder,
		Service:   svc,
	}
}

func emptyInvites(invites []*domain.Invite) []*domain.Invite {
	if invites == nil {
		return []*domain.Invite{}
	}
	return invites
}

// CreateInvite godoc
// @Summary Create an invite
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InviteRequest true "Invite data"
// @Success 201 {object} controllers.InviteSuccessResponse "data contains the created invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not event owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites [post]
func (c *InviteController) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	invite := req.toDomain()
	if err := c.Service.CreateInvite(r.Context(), who, invite); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, invite)
}

// ListInvites godoc
// @Summary List invites of the events visible to the caller
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.InviteListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites [get]
func (c *InviteController) ListInvites(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	invites, err := c.Service.ListInvites(r.Context(), who)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyInvites(invites))
}

// GetInvite godoc
// @Summary Get an invite
// @Description Public: the invite id is the invitee's access token.
// @Tags invites
// @Produce json
// @Param id path string true "Invite ID (UUID)"
// @Success 200 {object} controllers.InviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{id} [get]
func (c *InviteController) GetInvite(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	invite, err := c.Service.GetInvite(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// UpdateInvite godoc
// @Summary Update an invite
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invite ID (UUID)"
// @Param body body InviteRequest true "Invite data"
// @Success 200 {object} controllers.InviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{id} [put]
func (c *InviteController) UpdateInvite(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	invite, err := c.Service.UpdateInvite(r.Context(), who, id, req.toDomain())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// DeleteInvite godoc
// @Summary Delete an invite
// @Tags invites
// @Security BearerAuth
// @Param id path string true "Invite ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{id} [delete]
func (c *InviteController) DeleteInvite(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteInvite(r.Context(), who, id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkCreate godoc
// @Summary Create many invites
// @Description New groups and all invites are created in one transaction; nothing is stored when any row fails.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkInvitesRequest true "Invites of one event"
// @Success 201 {object} controllers.InviteListSuccessResponse "data contains the created invites"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (group name taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/bulkInvites [post]
func (c *InviteController) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req BulkInvitesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	items := make([]domain.BulkInviteItem, len(req.Invites))
	for i, it := range req.Invites {
		items[i] = domain.BulkInviteItem{
			Invite: &domain.Invite{
				Family:        strings.TrimSpace(it.Family),
				EntriesNumber: it.EntriesNumber,
				PhoneNumber:   it.PhoneNumber,
				KidsAllowed:   it.KidsAllowed,
				EventID:       req.EventID,
				InviteGroupID: it.InviteGroupID,
			},
			InviteGroup:      it.InviteGroup,
			IsNewInviteGroup: it.IsNewInviteGroup,
		}
	}
	invites, err := c.Service.BulkCreate(r.Context(), who, req.EventID, items)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, emptyInvites(invites))
}

// BulkDelete godoc
// @Summary Delete many invites
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IDsRequest true "Invite IDs"
// @Success 200 {object} helpers.APIResponse "data contains count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/bulkInvites [delete]
func (c *InviteController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	n, err := c.Service.BulkDelete(r.Context(), who, req.IDs)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CountResponse{Count: n})
}

// CancelInvites godoc
// @Summary Decline every pending invite of an event
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/cancel/{id} [patch]
func (c *InviteController) CancelInvites(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	n, err := c.Service.CancelInvites(r.Context(), who, eventID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CountResponse{Count: n})
}

// OverwriteConfirmation godoc
// @Summary Force the answer of an invite
// @Description Works in any state. The message is cleared and the confirmation date stamped.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invite ID (UUID)"
// @Param body body OverwriteConfirmationRequest true "Forced answer"
// @Success 200 {object} controllers.InviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/overwrite/{id} [patch]
func (c *InviteController) OverwriteConfirmation(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req OverwriteConfirmationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	invite, err := c.Service.OverwriteConfirmation(r.Context(), who, id, *req.Confirmation, req.EntriesConfirmed)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// ReadMessage godoc
// @Summary Mark the RSVP message of an invite as read
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invite ID (UUID)"
// @Success 200 {object} controllers.InviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/messages/{id} [patch]
func (c *InviteController) ReadMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	invite, err := c.Service.ReadMessage(r.Context(), who, id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// MarkAsViewed godoc
// @Summary Mark an invite as viewed by the invitee
// @Description Public, idempotent.
// @Tags invites
// @Produce json
// @Param id path string true "Invite ID (UUID)"
// @Success 200 {object} controllers.InviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/viewed/{id} [patch]
func (c *InviteController) MarkAsViewed(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	invite, err := c.Service.MarkAsViewed(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// SubmitRSVP godoc
// @Summary Answer an invite
// @Description Public. Accepted once, before the confirmation deadline, when eventType matches the event (quinceanera, save-the-date, wedding). The event owner is notified.
// @Tags invites
// @Accept json
// @Produce json
// @Param id path string true "Invite ID (UUID)"
// @Param eventType path string true "Event type slug"
// @Param body body RSVPRequest true "Answer"
// @Success 200 {object} controllers.InviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (deadline passed)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already answered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{id}/{eventType} [patch]
func (c *InviteController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp := domain.RSVP{
		Confirmation:       *req.Confirmation,
		Message:            req.Message,
		NeedsAccommodation: req.NeedsAccommodation,
	}
	if req.EntriesConfirmed != nil {
		rsvp.EntriesConfirmed = *req.EntriesConfirmed
	}
	invite, err := c.Service.SubmitRSVP(r.Context(), id, r.PathValue("eventType"), rsvp)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}
