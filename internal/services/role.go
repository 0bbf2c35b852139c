package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invitesmanager/internal/domain"
)

type roleService struct {
	roleRepo       domain.RoleRepository
	contextTimeout time.Duration
}

// NewRoleService creates a RoleService.
func NewRoleService(roleRepo domain.RoleRepository, timeout time.Duration) domain.RoleService {
	return &roleService{roleRepo: roleRepo, contextTimeout: timeout}
}

func roleName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: role name is required", domain.ErrInvalidInput)
	}
	return name, nil
}

func (s *roleService) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.roleRepo.List(ctx)
}

func (s *roleService) Create(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := roleName(name)
	if err != nil {
		return nil, err
	}
	role := domain.NewRole("", name)
	if err := s.roleRepo.Create(ctx, role); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: role %q", domain.ErrConflict, name)
		}
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, id, name string, isActive bool) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := roleName(name)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Name = name
	role.IsActive = isActive
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return role, nil
}

// Delete deactivates the role so existing memberships stay intact.
func (s *roleService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !role.IsActive {
		return nil
	}
	role.IsActive = false
	return s.roleRepo.Update(ctx, role)
}

// Seed inserts the default roles when the store has none.
func (s *roleService) Seed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.roleRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, name := range domain.DefaultRoles {
		if err := s.roleRepo.Create(ctx, domain.NewRole("", name)); err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}
	return nil
}

// RolesForUser returns the current active role names of the user, read from the store on every call.
func (s *roleService) RolesForUser(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roles, err := s.roleRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.IsActive {
			names = append(names, r.Name)
		}
	}
	return names, nil
}
