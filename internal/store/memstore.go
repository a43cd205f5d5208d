package store

import (
	"sync"

	"warescan-service/internal/model"
	"warescan-service/internal/scope"
)

// MemStore is an in-memory Store keyed by scope. It backs engine tests and
// offline/demo runs; collections are deep-copied on the way in and out so no
// caller ever aliases internal state.
type MemStore struct {
	mu    sync.Mutex
	data  map[scope.ID][]model.Package
	// SaveErr, when set, makes every Save fail without touching stored
	// state. Used to exercise the engine's persistence-failure path.
	SaveErr error
	// LoadErr, when set, makes every Load fail.
	LoadErr error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[scope.ID][]model.Package)}
}

// Load implements Store.
func (s *MemStore) Load(sc scope.ID) ([]model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return Clone(s.data[sc]), nil
}

// Save implements Store.
func (s *MemStore) Save(sc scope.ID, pkgs []model.Package) ([]model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return nil, s.SaveErr
	}
	s.data[sc] = Clone(pkgs)
	return Clone(pkgs), nil
}

// Seed overwrites a scope's collection directly, bypassing error injection.
func (s *MemStore) Seed(sc scope.ID, pkgs []model.Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sc] = Clone(pkgs)
}
