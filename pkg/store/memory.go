package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tabula/pkg/board"
)

// MemoryStore is a volatile in-process store for development and testing.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string]map[string]*board.Item
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string]map[string]*board.Item)}
}

func (s *MemoryStore) ListBoards(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	ids := make([]string, 0, len(s.boards))
	for id := range s.boards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) ListItems(ctx context.Context, boardID string) ([]board.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	items := make([]board.Item, 0, len(s.boards[boardID]))
	for _, it := range s.boards[boardID] {
		items = append(items, *it.Clone())
	}
	sortItems(items)
	return items, nil
}

func (s *MemoryStore) CreateItem(ctx context.Context, boardID string, it board.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	b := s.boards[boardID]
	if b == nil {
		b = make(map[string]*board.Item)
		s.boards[boardID] = b
	}
	if _, taken := b[it.ID]; taken {
		return fmt.Errorf("item %s: %w", it.ID, ErrExists)
	}
	b[it.ID] = it.Clone()
	return nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, boardID, itemID string, p board.Patch) (*board.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	it, ok := s.boards[boardID][itemID]
	if !ok {
		return nil, fmt.Errorf("item %s/%s: %w", boardID, itemID, ErrNotFound)
	}
	p.Apply(it)
	return it.Clone(), nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, boardID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	it, ok := s.boards[boardID][itemID]
	if !ok {
		return fmt.Errorf("item %s/%s: %w", boardID, itemID, ErrNotFound)
	}
	it.Deleted = true
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)
