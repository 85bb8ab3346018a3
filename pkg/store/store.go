// Package store provides board persistence backends.
//
// This package defines the storage interface for boards and their items,
// with implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: JSON files on disk for single-user CLI use
//   - sqlite: Embedded SQLite database for durable local storage
//   - redis: Redis-backed storage for low-latency shared deployments
//   - mongo: MongoDB-backed storage for document-oriented deployments
//   - httpapi: Client for a remote board server's REST API
//
// # Architecture
//
// A board is a flat collection of items keyed by id. Items are never
// removed by interactive deletion; they are marked deleted and kept as
// tombstones, so a reload restores exactly what the canvas held. Boards
// materialize when their first item is created.
//
// The Store interface supports:
//   - Listing boards and loading a board's items
//   - Creating, patching, and soft-deleting single items
//   - Clean shutdown via Close
//
// All implementations are safe for concurrent use; the canvas commit
// coordinator calls them from short-lived goroutines.
//
// # Usage
//
// Open a store from a DSN:
//
//	st, err := store.Open(ctx, "sqlite:~/.config/tabula/boards.db")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	items, err := st.ListItems(ctx, "retro-2026")
//	if err != nil {
//	    return err
//	}
//	doc, err := board.Load("retro-2026", items)
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tabula/pkg/board"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a board or item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when creating an item whose id is already taken.
	ErrExists = errors.New("already exists")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

// Store is the interface for board storage backends.
type Store interface {
	// ListBoards returns the ids of all boards, sorted.
	ListBoards(ctx context.Context) ([]string, error)

	// ListItems returns every item of a board, tombstones included, ordered
	// by creation time. An unknown board yields an empty slice, not an
	// error: an empty board and a missing board are the same thing.
	ListItems(ctx context.Context, boardID string) ([]board.Item, error)

	// CreateItem adds an item to a board, creating the board if needed.
	// Returns ErrExists if the id is already taken.
	CreateItem(ctx context.Context, boardID string, it board.Item) error

	// UpdateItem applies a patch to an item and returns the updated item.
	// Returns ErrNotFound if the board or item does not exist.
	UpdateItem(ctx context.Context, boardID, itemID string, p board.Patch) (*board.Item, error)

	// DeleteItem soft-deletes an item, keeping it as a tombstone.
	// Returns ErrNotFound if the board or item does not exist.
	DeleteItem(ctx context.Context, boardID, itemID string) error

	// Close releases backend resources.
	Close() error
}

// Open creates a store from a DSN. Supported forms:
//
//	memory:                     volatile in-process store
//	file:DIR                    JSON files under DIR
//	sqlite:PATH                 SQLite database at PATH
//	redis://HOST:PORT/DB        Redis server
//	mongodb://HOST:PORT         MongoDB server
//	http://HOST:PORT            remote board server API
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "" || dsn == "memory" || dsn == "memory:":
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "file:"):
		return NewFileStore(strings.TrimPrefix(dsn, "file:"))
	case strings.HasPrefix(dsn, "sqlite:"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return OpenRedis(ctx, dsn)
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return OpenMongo(ctx, dsn)
	case strings.HasPrefix(dsn, "http://"), strings.HasPrefix(dsn, "https://"):
		return NewHTTPStore(dsn), nil
	default:
		return nil, fmt.Errorf("unrecognized store DSN %q", dsn)
	}
}

// sortItems orders items by creation time, then id, the order ListItems
// promises.
func sortItems(items []board.Item) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
