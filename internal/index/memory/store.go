// Package memory provides an in-process index store used by tests and
// single-node local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/femitubosun/codygo-task/internal/index"
)

// Store is a mutex-guarded map store. Append mirrors the semantics of the
// durable backends: it fails when the entry does not exist and does not
// deduplicate; callers are expected to check first.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]string
}

func New() *Store {
	return &Store{
		entries: make(map[string][]string),
	}
}

func (s *Store) GetEntry(ctx context.Context, word string) (*index.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, ok := s.entries[word]
	if !ok {
		return nil, nil
	}
	out := make([]string, len(docs))
	copy(out, docs)
	return &index.Entry{Word: word, Documents: out}, nil
}

func (s *Store) CreateEntries(ctx context.Context, entries []index.NewEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if _, exists := s.entries[e.Word]; exists {
			continue
		}
		s.entries[e.Word] = []string{e.Document}
	}
	return nil
}

func (s *Store) AppendDocument(ctx context.Context, word, document string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.entries[word]
	if !ok {
		return fmt.Errorf("appending to %q: entry does not exist", word)
	}
	s.entries[word] = append(docs, document)
	return nil
}

// Len returns the number of entries; used by tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
