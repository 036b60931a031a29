package build

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps builds in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	builds map[string]*Build
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{builds: make(map[string]*Build)}
}

// Save stores a copy of b.
func (s *MemoryStore) Save(_ context.Context, b *Build) error {
	if err := ValidateName(b.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds[b.Name] = b.clone()
	return nil
}

// Get returns a copy of the stored build.
func (s *MemoryStore) Get(_ context.Context, name string) (*Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.builds[name]
	if !ok {
		return nil, ErrNotFound
	}
	return b.clone(), nil
}

// List returns all builds sorted by name.
func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.builds))
	for _, b := range s.builds {
		out = append(out, Summary{Name: b.Name, UpdatedAt: b.UpdatedAt})
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Delete removes the build.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builds[name]; !ok {
		return ErrNotFound
	}
	delete(s.builds, name)
	return nil
}
