// Package store holds original source text collected while remapping, keyed
// by the path each file is reported under.
package store

import (
	"log/slog"
	"sort"
	"sync"
)

// Store is the source text lookup used by the report builders.
type Store interface {
	Set(path, text string)
	Get(path string) (string, bool)
	Len() int
	Keys() []string
}

// MemoryStore keeps source text in memory. It may be read from several
// report builders at once.
type MemoryStore struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{texts: make(map[string]string)}
}

// Set implements Store. Rewriting a key replaces its text.
func (s *MemoryStore) Set(path, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.texts[path]; ok && prev != text {
		slog.Debug("replacing stored source", "path", path)
	}
	s.texts[path] = text
}

// Get implements Store.
func (s *MemoryStore) Get(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.texts[path]
	return text, ok
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.texts)
}

// Keys implements Store. Keys are sorted.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.texts))
	for k := range s.texts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
