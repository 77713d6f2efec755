package user

import (
	"errors"
	"fmt"

	"github.com/tendant/simple-lab/pkg/role"
)

// Column limits of the users table
const (
	MaxEmailLength    = 100
	MaxFullNameLength = 150
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// ErrDefaultRoleNotFound also matches role.ErrRoleNotFound
	ErrDefaultRoleNotFound = fmt.Errorf("default %w", role.ErrRoleNotFound)

	// Login failure causes. Both surface as the same INVALID_CREDENTIALS error.
	ErrUnknownEmail     = errors.New("no user with that email")
	ErrPasswordMismatch = errors.New("password does not match")
)

// User is an account with its roles. PasswordHash never leaves the service
// boundary in serialized form.
type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FullName     string      `json:"fullName"`
	Roles        []role.Role `json:"roles"`
}

// RoleNames returns the names of the user's roles
func (u User) RoleNames() []string {
	return role.Names(u.Roles)
}

// UserParams carries the writable fields of a user. Role is a role name;
// see UserService for how it is resolved.
type UserParams struct {
	Email    string
	Password string
	FullName string
	Role     string
}
