// Package board defines the item model and in-memory document for a single
// whiteboard.
//
// # Overview
//
// A board is a flat collection of items on an infinite canvas: sticky notes,
// shapes, text blocks, frames, lines, connectors, and freehand strokes. Items
// carry world-space geometry (position, size), stacking order, an optional
// advisory reference to a containing frame, and a per-type style payload.
//
// The [Document] type holds the working copy of one board. It is the single
// mutable source of truth during an editing session: gesture engines read it,
// optimistic updates write it, and rollbacks restore it. Mutation happens
// through [Document.Apply], which takes a partial [Patch] and returns the
// inverse patch capturing the prior values of exactly the fields that changed.
// Holding the inverse is what makes optimistic persistence cheap to undo.
//
// # Parentage
//
// [Item.ParentID] points at a frame item. The reference is advisory: nothing
// enforces it referentially, frames are never parented themselves, and a
// dangling parent id simply renders the item as unparented. Paint order puts
// frames below unparented items and parented items on top, so frame contents
// always draw above their frame.
//
// # Soft Deletion
//
// Items are soft-deleted via [Item.Deleted]. Deleted items stay in the
// document (so a failed delete commit can restore them) but are excluded from
// rendering, hit-testing, and containment.
//
// # Concurrency
//
// Document instances are not safe for concurrent use. All mutation is expected
// to happen on a single event-processing goroutine; background persistence
// never touches the document directly.
package board
