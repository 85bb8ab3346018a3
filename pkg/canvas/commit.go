package canvas

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"tabula/pkg/board"
	"tabula/pkg/errors"
	"tabula/pkg/observability"
)

// ItemWriter is the slice of a store backend the coordinator needs. Store
// calls may be slow and may fail; they must be safe to invoke from multiple
// goroutines. The item UpdateItem returns is ignored here; the document
// already holds the optimistic result.
type ItemWriter interface {
	CreateItem(ctx context.Context, boardID string, it board.Item) error
	UpdateItem(ctx context.Context, boardID, itemID string, p board.Patch) (*board.Item, error)
	DeleteItem(ctx context.Context, boardID, itemID string) error
}

// Store operation names, used in logs and hooks.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// commitResult is what a commit goroutine reports back to the event
// goroutine. rollback undoes the optimistic mutation and runs only on the
// event goroutine, inside Pump or Flush.
type commitResult struct {
	itemID   string
	op       string
	err      error
	rollback func()
}

// Coordinator applies mutations to a document optimistically and commits
// them to a store in the background.
//
// Every mutation lands in the document immediately so the canvas never
// waits on storage. The store call runs in its own goroutine and reports
// into a result queue; Pump drains the queue and rolls back mutations whose
// commit failed. A frame drag that moves a frame and its children issues one
// independent commit per item, so one failure rolls back one item and the
// rest stand.
//
// All methods except the spawned commit goroutines must be called from the
// single goroutine that owns the document.
type Coordinator struct {
	doc     *board.Document
	store   ItemWriter
	log     *log.Logger
	results chan commitResult
	pending int
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCoordinatorLogger sets the logger for commit failures and rollbacks.
func WithCoordinatorLogger(l *log.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCoordinator creates a coordinator for a document backed by a store.
// A nil store yields an ephemeral board: mutations apply to the document and
// nothing is committed.
func NewCoordinator(doc *board.Document, store ItemWriter, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		doc:     doc,
		store:   store,
		log:     log.New(io.Discard),
		results: make(chan commitResult, 64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create adds an item to the document and commits it in the background. If
// the commit fails the item is removed again on a later Pump.
func (c *Coordinator) Create(ctx context.Context, it *board.Item) error {
	if err := c.doc.Add(it); err != nil {
		return err
	}

	id := it.ID
	snap := *it.Clone() // commit goroutine must not share the live item
	c.dispatch(ctx, id, opCreate,
		func() { c.doc.Remove(id) },
		func(ctx context.Context) error { return c.store.CreateItem(ctx, c.doc.BoardID(), snap) },
	)
	return nil
}

// Update applies a patch to an item and commits it in the background. If the
// commit fails the patched fields are restored on a later Pump.
func (c *Coordinator) Update(ctx context.Context, itemID string, p board.Patch) error {
	if p.IsZero() {
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	inverse, err := c.doc.Apply(itemID, p)
	if err != nil {
		return err
	}

	c.dispatch(ctx, itemID, opUpdate,
		func() { c.rollbackPatch(itemID, inverse) },
		func(ctx context.Context) error {
			_, err := c.store.UpdateItem(ctx, c.doc.BoardID(), itemID, p)
			return err
		},
	)
	return nil
}

// Delete soft-deletes an item and commits the deletion in the background. If
// the commit fails the item reappears on a later Pump.
func (c *Coordinator) Delete(ctx context.Context, itemID string) error {
	inverse, err := c.doc.Apply(itemID, board.DeletePatch(true))
	if err != nil {
		return err
	}

	c.dispatch(ctx, itemID, opDelete,
		func() { c.rollbackPatch(itemID, inverse) },
		func(ctx context.Context) error { return c.store.DeleteItem(ctx, c.doc.BoardID(), itemID) },
	)
	return nil
}

// dispatch spawns the commit goroutine. With no store the optimistic
// mutation is the whole operation.
func (c *Coordinator) dispatch(ctx context.Context, itemID, op string, rollback func(), call func(context.Context) error) {
	if c.store == nil {
		return
	}
	c.pending++
	boardID := c.doc.BoardID()
	observability.Commit().OnCommitStart(ctx, boardID, itemID, op)
	go func() {
		start := time.Now()
		err := call(ctx)
		observability.Commit().OnCommitComplete(ctx, boardID, itemID, op, time.Since(start), err)
		c.results <- commitResult{itemID: itemID, op: op, err: err, rollback: rollback}
	}()
}

// rollbackPatch reapplies an inverse patch, restoring the fields an
// optimistic mutation touched.
func (c *Coordinator) rollbackPatch(itemID string, inverse board.Patch) {
	if _, err := c.doc.Apply(itemID, inverse); err != nil {
		c.log.Error("rollback failed", "board", c.doc.BoardID(), "item", itemID, "err", err)
	}
}

// Pump drains finished commits without blocking and rolls back the failed
// ones. Returns the number of rollbacks applied, so a caller can treat a
// non-zero result as a dirty signal and redraw.
//
// Call this regularly from the goroutine that owns the document; rollbacks
// run here, never on the commit goroutines.
func (c *Coordinator) Pump() int {
	rolledBack := 0
	for {
		select {
		case r := <-c.results:
			if c.process(r) {
				rolledBack++
			}
		default:
			return rolledBack
		}
	}
}

// Flush blocks until every in-flight commit has finished and been processed,
// or the context expires. Meant for shutdown and explicit saves.
func (c *Coordinator) Flush(ctx context.Context) error {
	for c.pending > 0 {
		select {
		case r := <-c.results:
			c.process(r)
		case <-ctx.Done():
			return errors.Wrap(errors.ErrCodeCommitFailed, ctx.Err(),
				"flush interrupted with commits in flight")
		}
	}
	return nil
}

// Pending returns the number of commits still in flight.
func (c *Coordinator) Pending() int { return c.pending }

// process handles one finished commit. Reports whether it rolled back.
func (c *Coordinator) process(r commitResult) bool {
	c.pending--
	if r.err == nil {
		return false
	}
	c.log.Warn("commit failed, rolling back",
		"board", c.doc.BoardID(), "item", r.itemID, "op", r.op, "err", r.err)
	if r.rollback != nil {
		r.rollback()
	}
	observability.Commit().OnRollback(context.Background(), c.doc.BoardID(), r.itemID, r.op)
	return true
}
