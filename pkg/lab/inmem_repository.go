package lab

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-lab/pkg/database"
)

// InMemoryLabRepository implements LabRepository using in-memory storage
type InMemoryLabRepository struct {
	mu     sync.RWMutex
	labs   map[int64]Lab
	nextID int64

	// txMu serializes read-write units of work
	txMu sync.Mutex
}

// NewInMemoryLabRepository creates a new in-memory lab repository
func NewInMemoryLabRepository() *InMemoryLabRepository {
	return &InMemoryLabRepository{
		labs:   make(map[int64]Lab),
		nextID: 1,
	}
}

// WithinTx runs fn with write units serialized against each other
func (r *InMemoryLabRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo LabRepository) error) error {
	if mode == database.ReadWrite {
		r.txMu.Lock()
		defer r.txMu.Unlock()
	}
	return fn(r)
}

// CreateLab creates a new lab with the next sequential id
func (r *InMemoryLabRepository) CreateLab(ctx context.Context, name string) (Lab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, lab := range r.labs {
		if lab.Name == name {
			return Lab{}, ErrLabNameTaken
		}
	}

	lab := Lab{ID: r.nextID, Name: name}
	r.labs[lab.ID] = lab
	r.nextID++
	return lab, nil
}

// GetLab retrieves a lab by id
func (r *InMemoryLabRepository) GetLab(ctx context.Context, id int64) (Lab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lab, ok := r.labs[id]
	if !ok {
		return Lab{}, ErrLabNotFound
	}
	return lab, nil
}

// GetLabByName retrieves a lab by its exact name
func (r *InMemoryLabRepository) GetLabByName(ctx context.Context, name string) (Lab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lab := range r.labs {
		if lab.Name == name {
			return lab, nil
		}
	}
	return Lab{}, ErrLabNotFound
}

// FindLabs returns all labs ordered by id
func (r *InMemoryLabRepository) FindLabs(ctx context.Context) ([]Lab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labs := make([]Lab, 0, len(r.labs))
	for _, lab := range r.labs {
		labs = append(labs, lab)
	}
	sortLabs(labs)
	return labs, nil
}

// FindLabsByIDs returns the labs whose id is in ids
func (r *InMemoryLabRepository) FindLabsByIDs(ctx context.Context, ids []int64) ([]Lab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labs := make([]Lab, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if lab, ok := r.labs[id]; ok {
			labs = append(labs, lab)
		}
	}
	sortLabs(labs)
	return labs, nil
}

// UpdateLab renames a lab
func (r *InMemoryLabRepository) UpdateLab(ctx context.Context, id int64, name string) (Lab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lab, ok := r.labs[id]
	if !ok {
		return Lab{}, ErrLabNotFound
	}
	for _, other := range r.labs {
		if other.ID != id && other.Name == name {
			return Lab{}, ErrLabNameTaken
		}
	}

	lab.Name = name
	r.labs[id] = lab
	return lab, nil
}

// DeleteLab removes a lab
func (r *InMemoryLabRepository) DeleteLab(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.labs[id]; !ok {
		return ErrLabNotFound
	}
	delete(r.labs, id)
	return nil
}

// SeedLab adds a lab directly (for testing/initialization)
func (r *InMemoryLabRepository) SeedLab(lab Lab) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labs[lab.ID] = lab
	if lab.ID >= r.nextID {
		r.nextID = lab.ID + 1
	}
}

func sortLabs(labs []Lab) {
	sort.Slice(labs, func(i, j int) bool { return labs[i].ID < labs[j].ID })
}
