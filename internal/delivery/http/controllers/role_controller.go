package controllers

import (
	"net/http"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// CreateRoleRequest is the request body for POST /roles.
type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// UpdateRoleRequest is the request body for PUT /roles/{id}.
type UpdateRoleRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

// RoleSuccessResponse is the success response envelope for endpoints returning one role.
type RoleSuccessResponse struct {
	Data  *domain.Role      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RoleListSuccessResponse is the success response envelope for GET /roles (200).
type RoleListSuccessResponse struct {
	Data  []*domain.Role    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RoleController struct {
	Responder
	Service domain.RoleService
}

func NewRoleController(responder Responder, svc domain.RoleService) *RoleController {
	return &RoleController{
		Responder: responder,
		Service:   svc,
	}
}

// ListRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RoleListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles [get]
func (c *RoleController) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := c.Service.List(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roles)
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoleRequest true "Role name"
// @Success 201 {object} controllers.RoleSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles [post]
func (c *RoleController) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	role, err := c.Service.Create(r.Context(), req.Name)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, role)
}

// UpdateRole godoc
// @Summary Rename or (de)activate a role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID (UUID)"
// @Param body body UpdateRoleRequest true "Role data"
// @Success 200 {object} controllers.RoleSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{id} [put]
func (c *RoleController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	role, err := c.Service.Update(r.Context(), id, req.Name, *req.IsActive)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, role)
}

// DeleteRole godoc
// @Summary Deactivate a role
// @Description Roles are never removed; the role stops granting access.
// @Tags roles
// @Security BearerAuth
// @Param id path string true "Role ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{id} [delete]
func (c *RoleController) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
