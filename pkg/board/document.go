package board

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Document operations.
var (
	// ErrItemNotFound is returned when an item id is not present in the document.
	ErrItemNotFound = errors.New("board: item not found")

	// ErrDuplicateID is returned when adding an item whose id already exists.
	ErrDuplicateID = errors.New("board: duplicate item id")
)

// Document is the in-memory working copy of a single board.
//
// Items keep their insertion order; stacking is expressed through Z and
// CreatedAt, not slice position. The document is not safe for concurrent use —
// all mutation belongs on one event-processing goroutine.
type Document struct {
	boardID string
	items   []*Item
	index   map[string]*Item
}

// NewDocument creates an empty document for the given board.
func NewDocument(boardID string) *Document {
	return &Document{
		boardID: boardID,
		index:   make(map[string]*Item),
	}
}

// Load builds a document from a stored item list, e.g. the initial fetch from
// a board server. Items are deep-copied so the caller's slice stays untouched.
func Load(boardID string, items []Item) (*Document, error) {
	d := NewDocument(boardID)
	for i := range items {
		if err := d.Add(items[i].Clone()); err != nil {
			return nil, fmt.Errorf("load board %s: %w", boardID, err)
		}
	}
	return d, nil
}

// BoardID returns the board this document belongs to.
func (d *Document) BoardID() string { return d.boardID }

// Len returns the number of items, including soft-deleted ones.
func (d *Document) Len() int { return len(d.items) }

// Add inserts an item. The document takes ownership of the pointer.
func (d *Document) Add(it *Item) error {
	if it.ID == "" {
		return fmt.Errorf("board: add item: empty id")
	}
	if _, exists := d.index[it.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
	}
	d.items = append(d.items, it)
	d.index[it.ID] = it
	return nil
}

// Get returns the item with the given id.
func (d *Document) Get(id string) (*Item, bool) {
	it, ok := d.index[id]
	return it, ok
}

// Items returns the items in insertion order. The slice is a copy; the item
// pointers are live.
func (d *Document) Items() []*Item {
	out := make([]*Item, len(d.items))
	copy(out, d.items)
	return out
}

// Apply mutates the item with the given id by the patch and returns the
// inverse patch restoring the prior values. It works on soft-deleted items
// too, so a failed delete commit can be rolled back.
func (d *Document) Apply(id string, p Patch) (Patch, error) {
	it, ok := d.index[id]
	if !ok {
		return Patch{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return p.Apply(it), nil
}

// Remove hard-deletes an item from the document and returns it. This exists
// for rolling back failed creates; interactive deletion is the soft-delete
// patch.
func (d *Document) Remove(id string) (*Item, error) {
	it, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	delete(d.index, id)
	for i, cur := range d.items {
		if cur.ID == id {
			d.items = append(d.items[:i], d.items[i+1:]...)
			break
		}
	}
	return it, nil
}

// Frames returns the live (non-deleted) frame items in insertion order.
func (d *Document) Frames() []*Item {
	var out []*Item
	for _, it := range d.items {
		if it.Type == TypeFrame && !it.Deleted {
			out = append(out, it)
		}
	}
	return out
}

// Children returns the live items parented to the given frame.
func (d *Document) Children(frameID string) []*Item {
	var out []*Item
	for _, it := range d.items {
		if it.Deleted {
			continue
		}
		if it.Parent() == frameID && frameID != "" {
			out = append(out, it)
		}
	}
	return out
}

// MaxZ returns the highest stacking index among live items, or 0 for an
// empty document.
func (d *Document) MaxZ() int {
	maxZ := 0
	for _, it := range d.items {
		if !it.Deleted && it.Z > maxZ {
			maxZ = it.Z
		}
	}
	return maxZ
}

// MinZ returns the lowest stacking index among live items, or 0 for an
// empty document.
func (d *Document) MinZ() int {
	minZ := 0
	for _, it := range d.items {
		if !it.Deleted && it.Z < minZ {
			minZ = it.Z
		}
	}
	return minZ
}

// NextZ returns a stacking index that places a new item above everything.
func (d *Document) NextZ() int { return d.MaxZ() + 1 }
