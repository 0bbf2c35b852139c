package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

// Role names. entriesAdmin is the legacy name of invitesAdmin and is accepted wherever it is.
const (
	RoleAdmin        = "admin"
	RoleInvitesAdmin = "invitesAdmin"
	RoleEntriesAdmin = "entriesAdmin"
	RoleUser         = "user"
)

// DefaultRoles is the role set seeded on an empty store.
var DefaultRoles = []string{RoleAdmin, RoleInvitesAdmin, RoleEntriesAdmin, RoleUser}

// User represents a registered account
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	IsActive     bool      `json:"isActive"`
	Roles        []*Role   `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser returns an active User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email, firstName, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// RoleNames returns the names of the user's active roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.IsActive {
			names = append(names, r.Name)
		}
	}
	return names
}

// UserBasic is the minimal public projection of a user.
// swagger:model UserBasic
type UserBasic struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Role represents an application role (e.g. admin, invitesAdmin)
// swagger:model Role
type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// NewRole returns a new active Role with the given id and name.
func NewRole(id, name string) *Role {
	return &Role{ID: id, Name: name, IsActive: true}
}

// Caller is the authenticated principal of a request with the roles re-fetched for it.
type Caller struct {
	UserID string
	Roles  []string
}

// HasAnyRole reports whether the caller holds at least one of roles.
func (c Caller) HasAnyRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether the caller may see every user's data.
func (c Caller) IsAdmin() bool {
	return c.HasAnyRole(RoleAdmin)
}

// CanAccess reports whether the caller may act on a resource owned by ownerID.
func (c Caller) CanAccess(ownerID string) bool {
	return c.IsAdmin() || (c.UserID != "" && c.UserID == ownerID)
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenClaims is what a session token carries.
type TokenClaims struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(claims TokenClaims, expiry time.Duration) (string, error)
}

// TokenVerifier checks signature and expiry of a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// UserInput carries the writable fields of a user. Nil pointers leave a field unchanged on update.
type UserInput struct {
	Username  string
	Email     string
	Password  *string
	FirstName string
	LastName  string
	IsActive  *bool
	Roles     []string
}

// UserRepository defines the interface for user storage. Returned users have Roles populated.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, params PaginationParams) ([]*User, int, error)
	ListBasic(ctx context.Context) ([]*UserBasic, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	// SetRoles replaces the role membership of the user.
	SetRoles(ctx context.Context, userID string, roleIDs []string) error
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Update(ctx context.Context, role *Role) error
	Count(ctx context.Context) (int, error)
	// ListByUserID returns the active roles of the user. Deleted and inactive users have none.
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// AuthService defines sign-in and public sign-up.
type AuthService interface {
	SignIn(ctx context.Context, usernameOrEmail, password string) (token string, user *User, err error)
	SignUp(ctx context.Context, in UserInput) (*User, error)
}

// UserService defines admin user management.
type UserService interface {
	List(ctx context.Context, params PaginationParams) ([]*User, int, error)
	ListBasic(ctx context.Context) ([]*UserBasic, error)
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, in UserInput) (*User, error)
	Update(ctx context.Context, id string, in UserInput) (*User, error)
	Delete(ctx context.Context, id string) error
}

// RoleService defines role management and the live role lookup used for authorization.
type RoleService interface {
	List(ctx context.Context) ([]*Role, error)
	Create(ctx context.Context, name string) (*Role, error)
	Update(ctx context.Context, id, name string, isActive bool) (*Role, error)
	Delete(ctx context.Context, id string) error
	Seed(ctx context.Context) error
	RolesForUser(ctx context.Context, userID string) ([]string, error)
}
