package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"tabula/pkg/board"
)

// SQLiteStore keeps items in a single table keyed by (board_id, id), with
// the item itself as a JSON payload. Only the key and creation time are
// columns; everything the canvas cares about lives in the payload, so schema
// migrations track board.SchemaVersion rather than the item shape.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) a SQLite-backed store at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "tabula.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS items (
		board_id   TEXT NOT NULL,
		id         TEXT NOT NULL,
		created_at TEXT NOT NULL,
		payload    BLOB NOT NULL,
		PRIMARY KEY (board_id, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create items table: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) ListBoards(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT board_id FROM items ORDER BY board_id`)
	if err != nil {
		return nil, fmt.Errorf("select boards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) ListItems(ctx context.Context, boardID string) ([]board.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM items WHERE board_id = ? ORDER BY created_at, id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]board.Item, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var it board.Item
		if err := json.Unmarshal(payload, &it); err != nil {
			return nil, fmt.Errorf("parse item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) CreateItem(ctx context.Context, boardID string, it board.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE board_id = ? AND id = ?`, boardID, it.ID).Scan(&n); err != nil {
		return fmt.Errorf("check item: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("item %s: %w", it.ID, ErrExists)
	}

	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO items (board_id, id, created_at, payload) VALUES (?, ?, ?, ?)`,
		boardID, it.ID, it.CreatedAt.UTC().Format(time.RFC3339Nano), payload); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) UpdateItem(ctx context.Context, boardID, itemID string, p board.Patch) (*board.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var payload []byte
	err = tx.QueryRowContext(ctx,
		`SELECT payload FROM items WHERE board_id = ? AND id = ?`, boardID, itemID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %s/%s: %w", boardID, itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select item: %w", err)
	}

	var it board.Item
	if err := json.Unmarshal(payload, &it); err != nil {
		return nil, fmt.Errorf("parse item: %w", err)
	}
	p.Apply(&it)

	payload, err = json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET payload = ? WHERE board_id = ? AND id = ?`,
		payload, boardID, itemID); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, boardID, itemID string) error {
	_, err := s.UpdateItem(ctx, boardID, itemID, board.DeletePatch(true))
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
