package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/model"
)

// MemoryActivityRepository keeps the registry in process memory.
// A single RWMutex guards the map so check-and-append is atomic.
type MemoryActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
}

// NewMemoryActivityRepository creates an empty in-memory registry
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{
		activities: make(map[string]*model.Activity),
	}
}

// List returns copies of every activity ordered by name
func (r *MemoryActivityRepository) List(ctx context.Context) ([]*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activities := make([]*model.Activity, 0, len(r.activities))
	for _, a := range r.activities {
		activities = append(activities, a.Clone())
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Name < activities[j].Name
	})
	return activities, nil
}

// GetByName returns a copy of the named activity, or nil if absent
func (r *MemoryActivityRepository) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activities[name].Clone(), nil
}

// AddParticipant appends email to the roster
func (r *MemoryActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return database.ErrNotFound
	}
	if a.HasParticipant(email) {
		return database.ErrDuplicate
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// RemoveParticipant drops email from the roster, keeping the order of the rest
func (r *MemoryActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return database.ErrNotFound
	}
	idx := slices.Index(a.Participants, email)
	if idx < 0 {
		return ErrParticipantNotFound
	}
	a.Participants = slices.Delete(a.Participants, idx, idx+1)
	return nil
}

// Seed inserts activities that are not already present
func (r *MemoryActivityRepository) Seed(ctx context.Context, activities []*model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range activities {
		if _, exists := r.activities[a.Name]; exists {
			continue
		}
		r.activities[a.Name] = a.Clone()
	}
	return nil
}

// Ping always succeeds
func (r *MemoryActivityRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (r *MemoryActivityRepository) Close() error {
	return nil
}

// Snapshot deep-copies the current registry
func (r *MemoryActivityRepository) Snapshot() map[string]*model.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]*model.Activity, len(r.activities))
	for name, a := range r.activities {
		snap[name] = a.Clone()
	}
	return snap
}

// Restore replaces the registry with a snapshot taken earlier
func (r *MemoryActivityRepository) Restore(snap map[string]*model.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities = make(map[string]*model.Activity, len(snap))
	for name, a := range snap {
		r.activities[name] = a.Clone()
	}
}
