package controllers

import (
	"net/http"
	"strings"
	"time"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// EventRequest is the request body for POST /events and PUT /events/{id}.
type EventRequest struct {
	Name                  string     `json:"name" validate:"required"`
	DateOfEvent           *time.Time `json:"dateOfEvent" validate:"required"`
	MaxDateOfConfirmation *time.Time `json:"maxDateOfConfirmation" validate:"required"`
	TypeOfEvent           string     `json:"typeOfEvent" validate:"required,oneof=X S W"`
	NameOfCelebrated      string     `json:"nameOfCelebrated"`
	UserID                string     `json:"userId" validate:"omitempty,uuid"`
}

func (e EventRequest) toDomain() *domain.Event {
	return &domain.Event{
		Name:                  strings.TrimSpace(e.Name),
		DateOfEvent:           e.DateOfEvent.UTC(),
		MaxDateOfConfirmation: e.MaxDateOfConfirmation.UTC(),
		TypeOfEvent:           domain.EventType(e.TypeOfEvent),
		NameOfCelebrated:      strings.TrimSpace(e.NameOfCelebrated),
		UserID:                e.UserID,
	}
}

// UpdateEventRequest is the request body for PUT /events/{id}. When override is set every
// invite of the event loses its answer and the settings are removed; overrideViewed only
// resets the viewed flags.
type UpdateEventRequest struct {
	EventRequest
	Override       bool `json:"override"`
	OverrideViewed bool `json:"overrideViewed"`
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventInformationSuccessResponse is the success response envelope for GET /events/{id}/eventInformation (200).
type EventInformationSuccessResponse struct {
	Data  *domain.EventInformation `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// DeadlineResponse is the response body for GET /events/invites/{id}/deadlineMet.
type DeadlineResponse struct {
	DeadlineMet bool `json:"deadlineMet"`
}

// EventController serves /events.
type EventController struct {
	Responder
	Service domain.EventService
}

func NewEventController(responder Responder, svc domain.EventService) *EventController {
	return &EventController{
		Responder: responder,
		Service:   svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description The authenticated user becomes the owner. Admins may create an event for another user with userId.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	event := req.toDomain()
	if err := c.Service.CreateEvent(r.Context(), who, event); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events
// @Description Admins see every event; other callers see the events they own.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListEvents(r.Context(), who)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), who, id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Overwrites the editable fields. override resets every invite answer and deletes the settings; overrideViewed resets only the viewed flags. All changes run in one transaction.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Event data and reset flags"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), who, id, req.toDomain(), req.Override, req.OverrideViewed)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Removes the event together with its invites, groups, settings, files and albums.
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), who, id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEventInformation godoc
// @Summary Public event information
// @Description Returns the event and the settings keys listed in eventSettings (all keys when empty). settings is null when the event has none. No authentication.
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Param eventSettings query string false "Comma separated settings keys"
// @Success 200 {object} controllers.EventInformationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/eventInformation [get]
func (c *EventController) GetEventInformation(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	keys := helpers.SplitList(r.URL.Query().Get("eventSettings"))
	info, err := c.Service.GetEventInformation(r.Context(), id, keys)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, info)
}

// ListEventInvites godoc
// @Summary List the invites of an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.InviteListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/invites/{id} [get]
func (c *EventController) ListEventInvites(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	invites, err := c.Service.ListEventInvites(r.Context(), who, id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if invites == nil {
		invites = []*domain.Invite{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invites)
}

// DeadlineMet godoc
// @Summary Whether the event date has been reached
// @Description True once the current UTC time is at or after the date of the event. No authentication.
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains deadlineMet"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/invites/{id}/deadlineMet [get]
func (c *EventController) DeadlineMet(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	met, err := c.Service.IsDeadlineMet(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeadlineResponse{DeadlineMet: met})
}
