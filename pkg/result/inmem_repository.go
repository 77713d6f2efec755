package result

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-lab/pkg/database"
)

// InMemoryResultRepository implements ResultRepository using in-memory storage
type InMemoryResultRepository struct {
	mu      sync.RWMutex
	results map[int64]Result
	nextID  int64

	// txMu serializes read-write units of work
	txMu sync.Mutex
}

// NewInMemoryResultRepository creates a new in-memory result repository
func NewInMemoryResultRepository() *InMemoryResultRepository {
	return &InMemoryResultRepository{
		results: make(map[int64]Result),
		nextID:  1,
	}
}

// WithinTx runs fn with write units serialized against each other
func (r *InMemoryResultRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo ResultRepository) error) error {
	if mode == database.ReadWrite {
		r.txMu.Lock()
		defer r.txMu.Unlock()
	}
	return fn(r)
}

// CreateResult stores a result under the next sequential id
func (r *InMemoryResultRepository) CreateResult(ctx context.Context, result Result) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result.ID = r.nextID
	result.LabName = nil
	r.results[result.ID] = result
	r.nextID++
	return result, nil
}

// GetResult retrieves a result by id
func (r *InMemoryResultRepository) GetResult(ctx context.Context, id int64) (Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[id]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return result, nil
}

// FindResults returns all results ordered by id
func (r *InMemoryResultRepository) FindResults(ctx context.Context) ([]Result, error) {
	return r.filter(func(Result) bool { return true }), nil
}

// FindResultsByUser returns the results recorded for a user ordered by id
func (r *InMemoryResultRepository) FindResultsByUser(ctx context.Context, userID int64) ([]Result, error) {
	return r.filter(func(result Result) bool { return result.UserID == userID }), nil
}

// UpdateResult replaces every writable field of a result
func (r *InMemoryResultRepository) UpdateResult(ctx context.Context, id int64, result Result) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[id]; !ok {
		return Result{}, ErrResultNotFound
	}
	result.ID = id
	result.LabName = nil
	r.results[id] = result
	return result, nil
}

// DeleteResult removes a result
func (r *InMemoryResultRepository) DeleteResult(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[id]; !ok {
		return ErrResultNotFound
	}
	delete(r.results, id)
	return nil
}

func (r *InMemoryResultRepository) filter(keep func(Result) bool) []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := []Result{}
	for _, result := range r.results {
		if keep(result) {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}
