package controllers

import (
	"net/http"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Username  string `json:"username" validate:"required,min=3,excludes=@"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SignInRequest is the request body for POST /auth/signin
type SignInRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// SignInResponse is the response body for POST /auth/signin
type SignInResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	User      *domain.User `json:"user"`
}

// SignInSuccessResponse is the success response envelope for POST /auth/signin (200).
type SignInSuccessResponse struct {
	Data  SignInResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserSuccessResponse is the success response envelope for endpoints returning one user.
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type AuthController struct {
	Responder
	Service domain.AuthService
}

func NewAuthController(responder Responder, svc domain.AuthService) *AuthController {
	return &AuthController{
		Responder: responder,
		Service:   svc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Public registration. The account gets the "user" role; a welcome email is sent. Password is stored hashed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.UserSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email or username taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	password := req.Password
	user, err := c.Service.SignUp(r.Context(), domain.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  &password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// SignIn godoc
// @Summary Sign in
// @Description Authenticate with username or email and password. Returns a JWT valid for the configured expiry and the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignInRequest true "Credentials"
// @Success 200 {object} controllers.SignInSuccessResponse "data contains token, tokenType, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (bad credentials or inactive user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signin [post]
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.SignIn(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, SignInResponse{Token: token, TokenType: "Bearer", User: user})
}
