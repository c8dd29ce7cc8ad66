package memory

import (
	"context"
	"fmt"
	"sync"

	"contas/internal/core"
	"contas/internal/storage"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.Mutex
	items []core.Entry
	index map[uuid.UUID]int
}

var _ storage.EntryStore = (*Store)(nil)

func New() *Store {
	return &Store{index: make(map[uuid.UUID]int)}
}

// Append stores the entry at the end of the collection.
func (s *Store) Append(_ context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[e.ID]; ok {
		return fmt.Errorf("append entry %s: duplicate id", e.ID)
	}
	s.index[e.ID] = len(s.items)
	s.items = append(s.items, e)
	return nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return core.Entry{}, core.ErrNotFound
	}
	return s.items[i], nil
}

// All returns a copy so callers can't modify the stored entries.
func (s *Store) All(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.items...), nil
}

func (s *Store) MarkSettled(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return core.ErrNotFound
	}
	s.items[i].Settled = true
	return nil
}

func (s *Store) Close() error {
	return nil
}
