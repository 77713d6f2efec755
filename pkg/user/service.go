package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tendant/simple-lab/pkg/config"
	"github.com/tendant/simple-lab/pkg/database"
	apperrors "github.com/tendant/simple-lab/pkg/errors"
	"github.com/tendant/simple-lab/pkg/role"
)

// RoleLookup resolves role names. role.RoleRepository and role.RoleService
// both satisfy it.
type RoleLookup interface {
	GetRoleByName(ctx context.Context, name string) (role.Role, error)
}

// UserService manages accounts and verifies credentials.
//
// Role resolution: a requested role that exists is attached; a requested
// role that does not exist is replaced by the default role; if the default
// role is missing as well the operation fails with NOT_FOUND. When no role
// is requested nothing is attached on create and the current roles are kept
// on update, unless empty-role fallback is enabled, in which case the default
// role is used.
type UserService struct {
	repo                UserRepository
	roles               RoleLookup
	hasher              PasswordHasher
	defaultRole         string
	fallbackOnEmptyRole bool
	minPasswordLength   int

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo UserRepository, roles RoleLookup, opts ...Option) *UserService {
	s := &UserService{
		repo:              repo,
		roles:             roles,
		hasher:            NewBcryptHasher(bcrypt.DefaultCost),
		defaultRole:       config.DefaultRoleName,
		minPasswordLength: DefaultMinPasswordLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PresentedRoles is the role name list a user presents: the stored roles,
// or just the default role when the user has none.
func (s *UserService) PresentedRoles(u User) []string {
	if len(u.Roles) == 0 {
		return []string{s.defaultRole}
	}
	return u.RoleNames()
}

// PrimaryRole is the role name a user presents: the first stored role, or
// the default role when the user has none.
func (s *UserService) PrimaryRole(u User) string {
	if len(u.Roles) > 0 {
		return u.Roles[0].Name
	}
	return s.defaultRole
}

// CreateUser registers a new account. The email must not be registered yet.
func (s *UserService) CreateUser(ctx context.Context, params UserParams) (User, error) {
	if err := s.validate(params, true); err != nil {
		return User{}, err
	}

	roles, _, err := s.resolveRoles(ctx, params.Role)
	if err != nil {
		return User{}, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return User{}, apperrors.InternalWrap(err, "failed to hash password")
	}

	var created User
	err = s.repo.WithinTx(ctx, database.ReadWrite, func(repo UserRepository) error {
		_, err := repo.GetUserByEmail(ctx, params.Email)
		if err == nil {
			return apperrors.Conflict(ErrEmailTaken, "email already registered: %s", params.Email)
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}

		created, err = repo.CreateUser(ctx, User{
			Email:        params.Email,
			PasswordHash: hash,
			FullName:     params.FullName,
			Roles:        roles,
		})
		return err
	})
	if err != nil {
		return User{}, mapError(err, 0, params.Email)
	}

	slog.Info("User created", "id", created.ID, "roles", created.RoleNames())
	return created, nil
}

// GetUser retrieves a user by id
func (s *UserService) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo UserRepository) error {
		var err error
		user, err = repo.GetUser(ctx, id)
		return err
	})
	if err != nil {
		return User{}, mapError(err, id, "")
	}
	return user, nil
}

// FindUsers returns every user
func (s *UserService) FindUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo UserRepository) error {
		var err error
		users, err = repo.FindUsers(ctx)
		return err
	})
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to find users")
	}
	return users, nil
}

// UpdateUser replaces a user's email and full name. The password is
// re-hashed only when a new one is given. Roles follow the resolution rules
// described on UserService.
func (s *UserService) UpdateUser(ctx context.Context, id int64, params UserParams) (User, error) {
	if err := s.validate(params, false); err != nil {
		return User{}, err
	}

	roles, replaceRoles, err := s.resolveRoles(ctx, params.Role)
	if err != nil {
		return User{}, err
	}

	var newHash string
	if params.Password != "" {
		newHash, err = s.hasher.Hash(params.Password)
		if err != nil {
			return User{}, apperrors.InternalWrap(err, "failed to hash password")
		}
	}

	var updated User
	err = s.repo.WithinTx(ctx, database.ReadWrite, func(repo UserRepository) error {
		current, err := repo.GetUser(ctx, id)
		if err != nil {
			return err
		}

		if params.Email != current.Email {
			other, err := repo.GetUserByEmail(ctx, params.Email)
			if err == nil && other.ID != id {
				return apperrors.Conflict(ErrEmailTaken, "email already registered: %s", params.Email)
			}
			if err != nil && !errors.Is(err, ErrUserNotFound) {
				return err
			}
		}

		next := User{
			Email:        params.Email,
			PasswordHash: current.PasswordHash,
			FullName:     params.FullName,
			Roles:        current.Roles,
		}
		if newHash != "" {
			next.PasswordHash = newHash
		}
		if replaceRoles {
			next.Roles = roles
		}

		updated, err = repo.UpdateUser(ctx, id, next)
		return err
	})
	if err != nil {
		return User{}, mapError(err, id, params.Email)
	}

	slog.Info("User updated", "id", updated.ID, "roles", updated.RoleNames(), "password_changed", newHash != "")
	return updated, nil
}

// DeleteUser removes a user. Results recorded for the user are not touched.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.repo.WithinTx(ctx, database.ReadWrite, func(repo UserRepository) error {
		if _, err := repo.GetUser(ctx, id); err != nil {
			return err
		}
		return repo.DeleteUser(ctx, id)
	})
	if err != nil {
		return mapError(err, id, "")
	}

	slog.Info("User deleted", "id", id)
	return nil
}

// Login verifies an email and password. An unknown email and a wrong
// password fail with the same INVALID_CREDENTIALS error; the cause is only
// reachable through errors.Is. Unknown emails are still checked against a
// dummy hash so both failures take comparable time.
func (s *UserService) Login(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return User{}, apperrors.New(apperrors.ErrCodeInvalidInput, "email and password are required")
	}

	var user User
	err := s.repo.WithinTx(ctx, database.ReadOnly, func(repo UserRepository) error {
		var err error
		user, err = repo.GetUserByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_, _ = s.hasher.Verify(password, s.getDummyHash())
			slog.Debug("Login failed", "reason", "unknown email")
			return User{}, apperrors.InvalidCredentials(ErrUnknownEmail)
		}
		return User{}, apperrors.InternalWrap(err, "failed to look up user")
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		slog.Warn("Password verification error", "user_id", user.ID, "error", err)
	}
	if !ok {
		slog.Debug("Login failed", "reason", "password mismatch", "user_id", user.ID)
		return User{}, apperrors.InvalidCredentials(ErrPasswordMismatch)
	}

	slog.Info("User logged in", "id", user.ID)
	return user, nil
}

// resolveRoles turns a role selector into the roles to store. assign is
// false when the current roles should be left alone.
func (s *UserService) resolveRoles(ctx context.Context, selector string) (roles []role.Role, assign bool, err error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		if !s.fallbackOnEmptyRole {
			return []role.Role{}, false, nil
		}
		def, err := s.lookupDefaultRole(ctx)
		if err != nil {
			return nil, false, err
		}
		return []role.Role{def}, true, nil
	}

	found, err := s.roles.GetRoleByName(ctx, selector)
	if err == nil {
		return []role.Role{found}, true, nil
	}
	if !errors.Is(err, role.ErrRoleNotFound) {
		return nil, false, apperrors.InternalWrap(err, "failed to look up role")
	}

	slog.Debug("Requested role not found, using default role", "requested", selector, "default", s.defaultRole)
	def, err := s.lookupDefaultRole(ctx)
	if err != nil {
		return nil, false, err
	}
	return []role.Role{def}, true, nil
}

func (s *UserService) lookupDefaultRole(ctx context.Context) (role.Role, error) {
	def, err := s.roles.GetRoleByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			return role.Role{}, apperrors.NotFound(ErrDefaultRoleNotFound, "default role not found: %s", s.defaultRole)
		}
		return role.Role{}, apperrors.InternalWrap(err, "failed to look up default role")
	}
	return def, nil
}

// getDummyHash returns a hash of a random password, computed once with the
// configured hasher
func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			slog.Warn("Failed to compute dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *UserService) validate(params UserParams, requirePassword bool) error {
	email := strings.TrimSpace(params.Email)
	if email == "" {
		return apperrors.InvalidInput("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return apperrors.InvalidInput("email", "email is not valid")
	}
	if utf8.RuneCountInString(params.Email) > MaxEmailLength {
		return apperrors.InvalidInput("email", "email cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(params.FullName) > MaxFullNameLength {
		return apperrors.InvalidInput("fullName", "full name cannot exceed 150 characters")
	}
	if requirePassword && params.Password == "" {
		return apperrors.InvalidInput("password", "password is required")
	}
	if len([]byte(params.Password)) > MaxPasswordBytes {
		return apperrors.InvalidInput("password", "password cannot exceed 72 bytes")
	}
	if params.Password != "" && utf8.RuneCountInString(params.Password) < s.minPasswordLength {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput, "invalid password: must be at least %d characters", s.minPasswordLength).
			WithDetail("field", "password")
	}
	return nil
}

func mapError(err error, id int64, email string) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return apperrors.NotFound(ErrUserNotFound, "user not found with id: %d", id)
	case errors.Is(err, ErrEmailTaken), database.IsUniqueViolation(err), id == 0 && database.IsSerializationFailure(err):
		return apperrors.Conflict(ErrEmailTaken, "email already registered: %s", email)
	case database.IsSerializationFailure(err):
		return apperrors.Wrapf(err, apperrors.ErrCodeConflict, "user %d was modified concurrently", id)
	default:
		return apperrors.InternalWrap(err, "user storage failure")
	}
}
