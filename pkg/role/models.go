package role

import "errors"

// MaxNameLength is the longest role name accepted
const MaxNameLength = 50

var (
	ErrEmptyRoleName = errors.New("role name cannot be empty")
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleNameTaken = errors.New("role name already exists")
)

// Role is a named permission group users can belong to
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Names returns the names of roles in order
func Names(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}
