package controllers

import (
	"net/http"

	"invitesmanager/internal/domain"
)

type EnvironmentController struct {
	Responder
	Service domain.EnvironmentService
}

func NewEnvironmentController(responder Responder, svc domain.EnvironmentService) *EnvironmentController {
	return &EnvironmentController{
		Responder: responder,
		Service:   svc,
	}
}

// ResetEnvironment godoc
// @Summary Wipe event data
// @Description Deletes every event with its invites, groups, settings, files and albums. Users and roles are kept. Only available when GO_ENV is development.
// @Tags environment
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /environment/reset [post]
func (c *EnvironmentController) ResetEnvironment(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Reset(r.Context()); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
