package user

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-lab/pkg/database"
)

// InMemoryUserRepository implements UserRepository using in-memory storage
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64

	// txMu serializes read-write units of work
	txMu sync.Mutex
}

// NewInMemoryUserRepository creates a new in-memory user repository
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[int64]User),
		nextID: 1,
	}
}

// WithinTx runs fn with write units serialized against each other
func (r *InMemoryUserRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo UserRepository) error) error {
	if mode == database.ReadWrite {
		r.txMu.Lock()
		defer r.txMu.Unlock()
	}
	return fn(r)
}

// CreateUser stores a user under the next sequential id
func (r *InMemoryUserRepository) CreateUser(ctx context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(user.Email, 0) {
		return User{}, ErrEmailTaken
	}

	user.ID = r.nextID
	user.Roles = copyRoles(user.Roles)
	r.users[user.ID] = user
	r.nextID++
	return cloneUser(user), nil
}

// GetUser retrieves a user by id
func (r *InMemoryUserRepository) GetUser(ctx context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetUserByEmail retrieves a user by exact email
func (r *InMemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return User{}, ErrUserNotFound
}

// FindUsers returns all users ordered by id
func (r *InMemoryUserRepository) FindUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdateUser replaces a user's fields and role set
func (r *InMemoryUserRepository) UpdateUser(ctx context.Context, id int64, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return User{}, ErrUserNotFound
	}
	if r.emailTakenLocked(user.Email, id) {
		return User{}, ErrEmailTaken
	}

	user.ID = id
	user.Roles = copyRoles(user.Roles)
	r.users[id] = user
	return cloneUser(user), nil
}

// DeleteUser removes a user
func (r *InMemoryUserRepository) DeleteUser(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *InMemoryUserRepository) emailTakenLocked(email string, exceptID int64) bool {
	for _, user := range r.users {
		if user.Email == email && user.ID != exceptID {
			return true
		}
	}
	return false
}

func cloneUser(user User) User {
	user.Roles = copyRoles(user.Roles)
	return user
}
