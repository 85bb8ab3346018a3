package board

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// SchemaVersion identifies the snapshot interchange format. Bump it when the
// item shape changes incompatibly.
const SchemaVersion = 1

// Snapshot is the JSON interchange form of a board: every item, including
// soft-deleted ones, so persistence round-trips are lossless.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	BoardID       string    `json:"board_id"`
	ExportedAt    time.Time `json:"exported_at"`
	Items         []Item    `json:"items"`
}

// Snapshot captures the document's current state.
func (d *Document) Snapshot(now time.Time) Snapshot {
	items := make([]Item, len(d.items))
	for i, it := range d.items {
		items[i] = *it.Clone()
	}
	return Snapshot{
		SchemaVersion: SchemaVersion,
		BoardID:       d.boardID,
		ExportedAt:    now.UTC(),
		Items:         items,
	}
}

// FromSnapshot rebuilds a document from a snapshot, validating the schema
// version.
func FromSnapshot(s Snapshot) (*Document, error) {
	if s.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("board: unsupported snapshot schema version %d (want %d)",
			s.SchemaVersion, SchemaVersion)
	}
	return Load(s.BoardID, s.Items)
}

// WriteSnapshot encodes a snapshot as indented JSON.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot and validates its schema version.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.SchemaVersion != SchemaVersion {
		return Snapshot{}, fmt.Errorf("board: unsupported snapshot schema version %d (want %d)",
			s.SchemaVersion, SchemaVersion)
	}
	return s, nil
}
