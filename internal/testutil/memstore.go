package testutil

import "sync"

// MemoryStore is an in-memory credstore.Store with error injection.
type MemoryStore struct {
	mu    sync.Mutex
	token string

	LoadErr  error
	SaveErr  error
	ClearErr error
}

// NewMemoryStore returns a store holding token ("" for none).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Load implements credstore.Store.
func (s *MemoryStore) Load() (string, error) {
	if s.LoadErr != nil {
		return "", s.LoadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Save implements credstore.Store.
func (s *MemoryStore) Save(token string) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear implements credstore.Store.
func (s *MemoryStore) Clear() error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Stored returns the token currently held, bypassing error injection.
func (s *MemoryStore) Stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
