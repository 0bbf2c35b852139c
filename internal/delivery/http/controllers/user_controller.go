package controllers

import (
	"net/http"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// CreateUserRequest is the request body for POST /users.
// Without a password the account can only sign in after an admin sets one.
type CreateUserRequest struct {
	Username  string   `json:"username" validate:"required,min=3,excludes=@"`
	Email     string   `json:"email" validate:"required,email"`
	Password  *string  `json:"password" validate:"omitempty,min=8"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	IsActive  *bool    `json:"isActive"`
	Roles     []string `json:"roles" validate:"omitempty,dive,required"`
}

// UpdateUserRequest is the request body for PUT /users/{id}. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Username  string   `json:"username" validate:"omitempty,min=3,excludes=@"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Password  *string  `json:"password" validate:"omitempty,min=8"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	IsActive  *bool    `json:"isActive"`
	Roles     []string `json:"roles" validate:"omitempty,dive,required"`
}

// ListUsersResponse is the response body for GET /users.
type ListUsersResponse struct {
	Items      []*domain.User         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListUsersSuccessResponse is the success response envelope for GET /users (200).
type ListUsersSuccessResponse struct {
	Data  ListUsersResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserBasicListSuccessResponse is the success response envelope for GET /users/basic (200).
type UserBasicListSuccessResponse struct {
	Data  []*domain.UserBasic `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// UserController handles admin user management.
type UserController struct {
	Responder
	Service domain.UserService
}

// NewUserController creates a UserController with the given responder and service.
func NewUserController(responder Responder, svc domain.UserService) *UserController {
	return &UserController{
		Responder: responder,
		Service:   svc,
	}
}

// ListUsers godoc
// @Summary List users
// @Description Paginated list of users with their roles. Query: page (default 1), page_size (default 20, max 100).
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} controllers.ListUsersSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	users, total, err := c.Service.List(r.Context(), params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListUsersResponse{Items: users, Pagination: meta})
}

// ListBasicUsers godoc
// @Summary List users as id and username
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserBasicListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/basic [get]
func (c *UserController) ListBasicUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.ListBasic(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if users == nil {
		users = []*domain.UserBasic{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID (UUID)"
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{id} [get]
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	user, err := c.Service.Get(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// CreateUser godoc
// @Summary Create a user
// @Description Roles are given by name; the "user" role is assigned when none is given.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateUserRequest true "User data"
// @Success 201 {object} controllers.UserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (also unknown role)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email or username taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [post]
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Create(r.Context(), domain.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
		Roles:     req.Roles,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Description A non-empty roles list replaces the user's roles.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID (UUID)"
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Update(r.Context(), id, domain.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
		Roles:     req.Roles,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
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
