package role

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tendant/simple-lab/pkg/database"
	apperrors "github.com/tendant/simple-lab/pkg/errors"
)

// RoleService provides methods for role management
type RoleService struct {
	repo RoleRepository
}

func NewRoleService(repo RoleRepository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

func (s *RoleService) FindRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo RoleRepository) error {
		var err error
		roles, err = repo.FindRoles(ctx)
		return err
	})
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to find roles")
	}
	return roles, nil
}

// GetRole retrieves a role by id
func (s *RoleService) GetRole(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo RoleRepository) error {
		var err error
		role, err = repo.GetRole(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return Role{}, apperrors.NotFound(ErrRoleNotFound, "role not found with id: %d", id)
		}
		return Role{}, apperrors.InternalWrap(err, "failed to get role")
	}
	return role, nil
}

// GetRoleByName retrieves a role by its exact name
func (s *RoleService) GetRoleByName(ctx context.Context, name string) (Role, error) {
	role, err := s.repo.GetRoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return Role{}, apperrors.NotFound(ErrRoleNotFound, "role not found: %s", name)
		}
		return Role{}, apperrors.InternalWrap(err, "failed to get role")
	}
	return role, nil
}

// CreateRole adds a new role
func (s *RoleService) CreateRole(ctx context.Context, name string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, apperrors.Wrap(ErrEmptyRoleName, apperrors.ErrCodeInvalidInput, "role name cannot be empty").WithDetail("field", "name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Role{}, apperrors.InvalidInput("name", "role name cannot exceed 50 characters")
	}

	var created Role
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo RoleRepository) error {
		var err error
		created, err = repo.CreateRole(ctx, name)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrRoleNameTaken) || database.IsWriteConflict(err) {
			return Role{}, apperrors.Conflict(ErrRoleNameTaken, "role already exists with name: %s", name)
		}
		return Role{}, apperrors.InternalWrap(err, "failed to create role")
	}

	slog.Info("Role created", "id", created.ID, "name", created.Name)
	return created, nil
}

// EnsuredRole reports the outcome of EnsureRoles for one name
type EnsuredRole struct {
	Role    Role
	Created bool
}

// EnsureRoles creates every named role that does not exist yet. Running it
// again with the same names changes nothing.
func (s *RoleService) EnsureRoles(ctx context.Context, names []string) ([]EnsuredRole, error) {
	ensured := make([]EnsuredRole, 0, len(names))
	for _, name := range names {
		existing, err := s.repo.GetRoleByName(ctx, name)
		if err == nil {
			ensured = append(ensured, EnsuredRole{Role: existing})
			continue
		}
		if !errors.Is(err, ErrRoleNotFound) {
			return nil, apperrors.InternalWrap(err, "failed to look up role")
		}

		created, err := s.CreateRole(ctx, name)
		if apperrors.IsCode(err, apperrors.ErrCodeConflict) {
			// another instance seeded it first
			existing, err = s.repo.GetRoleByName(ctx, name)
			if err != nil {
				return nil, apperrors.InternalWrap(err, "failed to look up role")
			}
			ensured = append(ensured, EnsuredRole{Role: existing})
			continue
		}
		if err != nil {
			return nil, err
		}
		ensured = append(ensured, EnsuredRole{Role: created, Created: true})
	}
	return ensured, nil
}
