package memory

import (
	"context"
	"strings"
	"sync"

	"quizzes-service/internal/app"
)

// Store is an in-process implementation of app.Store, used for tests and
// single-instance demos. Values are copied in and out.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
	sets    map[string]map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		records: make(map[string][]byte),
		sets:    make(map[string]map[string]struct{}),
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, app.ErrKeyNotFound
	}
	return clone(v), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = clone(value)
	return nil
}

func (s *Store) SetIfAbsent(_ context.Context, key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = clone(value)
	return true, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *Store) AddToSet(_ context.Context, setKey, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setKey]
	if !ok {
		set = make(map[string]struct{})
		s.sets[setKey] = set
	}
	set[member] = struct{}{}
	return nil
}

func (s *Store) RemoveFromSet(_ context.Context, setKey, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setKey]
	if !ok {
		return nil
	}
	delete(set, member)
	// empty sets disappear, as in Redis
	if len(set) == 0 {
		delete(s.sets, setKey)
	}
	return nil
}

func (s *Store) SetSize(_ context.Context, setKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[setKey]), nil
}

func (s *Store) SetMembers(_ context.Context, setKey string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]string, 0, len(s.sets[setKey]))
	for m := range s.sets[setKey] {
		members = append(members, m)
	}
	return members, nil
}

// ScanKeys returns scalar record keys starting with prefix.
func (s *Store) ScanKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
