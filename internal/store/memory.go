// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"grant-portal/internal/models"
)

// MemoryStore keeps applications in process memory for the lifetime of the
// process.
type MemoryStore struct {
	mu   sync.RWMutex
	apps []models.Application // head is the most recent
	ids  map[string]struct{}
}

// NewMemoryStore returns a store holding seed, which must already be most
// recent first.
func NewMemoryStore(seed []models.Application) *MemoryStore {
	s := &MemoryStore{
		apps: make([]models.Application, 0, len(seed)),
		ids:  make(map[string]struct{}, len(seed)),
	}
	for _, app := range seed {
		if _, dup := s.ids[app.ID]; dup {
			continue
		}
		s.ids[app.ID] = struct{}{}
		s.apps = append(s.apps, app)
	}
	return s
}

func (s *MemoryStore) Append(_ context.Context, app models.Application) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.ids[app.ID]; dup {
		return "", ErrDuplicateID
	}
	s.ids[app.ID] = struct{}{}
	s.apps = append([]models.Application{app}, s.apps...)
	return app.ID, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Application, len(s.apps))
	copy(out, s.apps)
	return out, nil
}

// Stats counts under the same lock as List so total always matches the
// per-status sum.
func (s *MemoryStore) Stats(_ context.Context) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ComputeStats(s.apps), nil
}

func (s *MemoryStore) Name() string { return "memory" }
