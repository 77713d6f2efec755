package role

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-lab/pkg/database"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage
type InMemoryRoleRepository struct {
	mu     sync.RWMutex
	roles  map[int64]Role
	nextID int64

	// txMu serializes read-write units of work
	txMu sync.Mutex
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles:  make(map[int64]Role),
		nextID: 1,
	}
}

// WithinTx runs fn with write units serialized against each other
func (r *InMemoryRoleRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo RoleRepository) error) error {
	if mode == database.ReadWrite {
		r.txMu.Lock()
		defer r.txMu.Unlock()
	}
	return fn(r)
}

// CreateRole creates a new role
func (r *InMemoryRoleRepository) CreateRole(ctx context.Context, name string) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.roles {
		if existing.Name == name {
			return Role{}, ErrRoleNameTaken
		}
	}

	role := Role{ID: r.nextID, Name: name}
	r.roles[role.ID] = role
	r.nextID++
	return role, nil
}

// GetRole retrieves a role by id
func (r *InMemoryRoleRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return role, nil
}

// GetRoleByName retrieves a role by its exact name
func (r *InMemoryRoleRepository) GetRoleByName(ctx context.Context, name string) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return Role{}, ErrRoleNotFound
}

// FindRoles returns all roles ordered by id
func (r *InMemoryRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// SeedRole adds a role directly (for testing/initialization)
func (r *InMemoryRoleRepository) SeedRole(role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.ID] = role
	if role.ID >= r.nextID {
		r.nextID = role.ID + 1
	}
}
