package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tabula/pkg/board"
	"tabula/pkg/errors"
)

// FileStore keeps each board as one JSON snapshot file in a directory. It is
// meant for single-user CLI use; writes rewrite the whole board file.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	closed  bool
}

// NewFileStore creates a file-backed store. If baseDir is empty, defaults to
// ~/.config/tabula/boards/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "tabula", "boards")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create board dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the directory holding the board files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) boardPath(boardID string) (string, error) {
	// Board ids become file names, so the id rules double as path safety.
	if err := errors.ValidateBoardID(boardID); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, boardID+".json"), nil
}

// load reads a board file. A missing file is an empty board.
func (s *FileStore) load(boardID string) (board.Snapshot, error) {
	path, err := s.boardPath(boardID)
	if err != nil {
		return board.Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return board.Snapshot{SchemaVersion: board.SchemaVersion, BoardID: boardID}, nil
		}
		return board.Snapshot{}, fmt.Errorf("read board file: %w", err)
	}
	snap, err := board.ReadSnapshot(bytes.NewReader(data))
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("board %s: %w", boardID, err)
	}
	return snap, nil
}

// save rewrites a board file.
func (s *FileStore) save(snap board.Snapshot) error {
	path, err := s.boardPath(snap.BoardID)
	if err != nil {
		return err
	}
	snap.ExportedAt = time.Now().UTC()

	var buf bytes.Buffer
	if err := board.WriteSnapshot(&buf, snap); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}
	return nil
}

func (s *FileStore) ListBoards(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read board dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *FileStore) ListItems(ctx context.Context, boardID string) ([]board.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	snap, err := s.load(boardID)
	if err != nil {
		return nil, err
	}
	sortItems(snap.Items)
	return snap.Items, nil
}

func (s *FileStore) CreateItem(ctx context.Context, boardID string, it board.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	snap, err := s.load(boardID)
	if err != nil {
		return err
	}
	for i := range snap.Items {
		if snap.Items[i].ID == it.ID {
			return fmt.Errorf("item %s: %w", it.ID, ErrExists)
		}
	}
	snap.Items = append(snap.Items, it)
	return s.save(snap)
}

func (s *FileStore) UpdateItem(ctx context.Context, boardID, itemID string, p board.Patch) (*board.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	snap, err := s.load(boardID)
	if err != nil {
		return nil, err
	}
	for i := range snap.Items {
		if snap.Items[i].ID != itemID {
			continue
		}
		p.Apply(&snap.Items[i])
		if err := s.save(snap); err != nil {
			return nil, err
		}
		return snap.Items[i].Clone(), nil
	}
	return nil, fmt.Errorf("item %s/%s: %w", boardID, itemID, ErrNotFound)
}

func (s *FileStore) DeleteItem(ctx context.Context, boardID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	snap, err := s.load(boardID)
	if err != nil {
		return err
	}
	for i := range snap.Items {
		if snap.Items[i].ID != itemID {
			continue
		}
		snap.Items[i].Deleted = true
		return s.save(snap)
	}
	return fmt.Errorf("item %s/%s: %w", boardID, itemID, ErrNotFound)
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Store = (*FileStore)(nil)
