package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"invitesmanager/internal/domain"
)

const (
	minPasswordLen = 8
	minUsernameLen = 3
	defaultRole    = domain.RoleUser
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	hasher         domain.PasswordHasher
	contextTimeout time.Duration
	now            func() time.Time
}

// NewUserService creates the admin UserService.
func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, hasher domain.PasswordHasher, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		hasher:         hasher,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen || strings.Contains(username, "@") {
		return "", fmt.Errorf("%w: username must have at least %d characters and no @", domain.ErrInvalidInput, minUsernameLen)
	}
	return username, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	return email, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	return nil
}

// resolveRoles maps role names to active roles.
func resolveRoles(ctx context.Context, roleRepo domain.RoleRepository, names []string) ([]*domain.Role, error) {
	roles := make([]*domain.Role, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		role, err := roleRepo.GetByName(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, name)
		}
		if err != nil {
			return nil, fmt.Errorf("get role %q: %w", name, err)
		}
		if !role.IsActive {
			return nil, fmt.Errorf("%w: role %q is inactive", domain.ErrInvalidInput, name)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func roleIDs(roles []*domain.Role) []string {
	ids := make([]string, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	return ids
}

// registerUser validates in, hashes the password and stores the user with roleNames.
func registerUser(ctx context.Context, userRepo domain.UserRepository, roleRepo domain.RoleRepository, hasher domain.PasswordHasher, in domain.UserInput, roleNames []string, now time.Time) (*domain.User, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Password == nil {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if err := checkPassword(*in.Password); err != nil {
		return nil, err
	}
	roles, err := resolveRoles(ctx, roleRepo, roleNames)
	if err != nil {
		return nil, err
	}

	salt, err := hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := hasher.Hash(salt, *in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(username, email, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := userRepo.SetRoles(ctx, user.ID, roleIDs(roles)); err != nil {
		return nil, fmt.Errorf("failed to assign roles: %w", err)
	}
	user.Roles = roles
	return user, nil
}

func (s *userService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.List(ctx, params)
}

func (s *userService) ListBasic(ctx context.Context) ([]*domain.UserBasic, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.ListBasic(ctx)
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	names := in.Roles
	if len(names) == 0 {
		names = []string{defaultRole}
	}
	return registerUser(ctx, s.userRepo, s.roleRepo, s.hasher, in, names, s.now().UTC())
}

func (s *userService) Update(ctx context.Context, id string, in domain.UserInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != "" {
		if user.Username, err = normalizeUsername(in.Username); err != nil {
			return nil, err
		}
	}
	if in.Email != "" {
		if user.Email, err = normalizeEmail(in.Email); err != nil {
			return nil, err
		}
	}
	if in.FirstName != "" {
		user.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		user.LastName = strings.TrimSpace(in.LastName)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return nil, err
		}
		salt, err := s.hasher.GenerateSalt()
		if err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		hash, err := s.hasher.Hash(salt, *in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash, user.Salt = hash, salt
	}

	var roles []*domain.Role
	if in.Roles != nil {
		if roles, err = resolveRoles(ctx, s.roleRepo, in.Roles); err != nil {
			return nil, err
		}
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if in.Roles != nil {
		if err := s.userRepo.SetRoles(ctx, user.ID, roleIDs(roles)); err != nil {
			return nil, fmt.Errorf("failed to assign roles: %w", err)
		}
		user.Roles = roles
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.Delete(ctx, id)
}
