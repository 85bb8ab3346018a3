// Package pkg provides the core libraries for Tabula whiteboard editing.
//
// # Overview
//
// Tabula is an infinite-canvas whiteboard: sticky notes, frames, shapes,
// text, lines, connectors, and freehand strokes placed on an unbounded
// plane, viewed through a pannable, zoomable viewport. The pkg directory is
// organized into five main areas:
//
//  1. [board] - Domain model (items, documents, patches, snapshots)
//  2. [canvas] - Interaction engine (viewport, gestures, selection, commits)
//  3. [store] - Persistence backends (memory, file, SQLite, Redis, MongoDB, HTTP)
//  4. [render] - Board export (SVG, PNG, Graphviz DOT, JSON)
//  5. [cache], [config], [errors], [httputil], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through Tabula:
//
//	Store backend (file, sqlite, redis, mongodb, http)
//	         ↓
//	    [board] package (document + items)
//	         ↓
//	    [canvas] package (viewport, gestures, optimistic commits)
//	         ↓
//	    host event loop (terminal UI, HTTP server)
//
// Exports flow from a [board.Snapshot] through [render] into SVG, PNG, DOT,
// or JSON artifacts, cached by content hash in [cache].
//
// # Quick Start
//
// Load a board, move an item, and persist the change:
//
//	import (
//	    "context"
//	    "tabula/pkg/board"
//	    "tabula/pkg/canvas"
//	    "tabula/pkg/store"
//	)
//
//	ctx := context.Background()
//
//	// 1. Open a store and load the board
//	st, _ := store.Open(ctx, "file:~/.local/share/tabula")
//	items, _ := st.ListItems(ctx, "roadmap")
//	doc, _ := board.Load("roadmap", items)
//
//	// 2. Create the interaction engine
//	eng := canvas.NewEngine(doc, st)
//	eng.SetScreenSize(1920, 1080)
//
//	// 3. Drive it from an event loop
//	eng.PointerDown(ctx, 400, 300)
//	eng.PointerMove(500, 350)
//	eng.PointerUp(ctx, 500, 350) // commits asynchronously
//	eng.Pump()                   // absorb commit results each tick
//
// # Main Packages
//
// ## Domain Model
//
// [board] - Items (sticky notes, frames, shapes, text, lines, connectors,
// freehand strokes), the Document holding one board's items, field-level
// patches with inverses for rollback, and schema-versioned snapshots.
//
// ## Interaction
//
// [canvas] - The single-goroutine interaction engine: viewport math
// (world/screen transforms, anchored zoom), drag and resize state machines,
// frame containment and auto-reparenting, hit testing, visibility culling
// with paint ordering, freehand stroke capture, the inline editor bridge,
// and the optimistic commit coordinator with rollback on store failure.
//
// ## Persistence
//
// [store] - The Store interface and its backends, selected by DSN:
// memory: (testing), file:DIR (JSON per board), sqlite:PATH,
// redis://, mongodb://, and http:// (a remote tabula server).
//
// ## Export
//
// [render] - Renders snapshots to SVG, PNG (via gg and freetype), Graphviz
// DOT of the connector graph (via go-graphviz), and snapshot JSON.
//
// ## Infrastructure
//
// [cache] - Content-addressed artifact cache with TTLs, used by export.
//
// [config] - TOML configuration with strict unknown-key rejection.
//
// [errors] - Coded errors mapping cleanly onto HTTP statuses, plus input
// validation helpers shared by the CLI, server, and stores.
//
// [httputil] - Retry with backoff for transient HTTP failures.
//
// [observability] - Pluggable hooks for gesture and commit telemetry.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/canvas/...       # Specific package
//	go test -run Example           # Examples only
//
// [board]: https://pkg.go.dev/tabula/pkg/board
// [canvas]: https://pkg.go.dev/tabula/pkg/canvas
// [store]: https://pkg.go.dev/tabula/pkg/store
// [render]: https://pkg.go.dev/tabula/pkg/render
// [cache]: https://pkg.go.dev/tabula/pkg/cache
// [config]: https://pkg.go.dev/tabula/pkg/config
// [errors]: https://pkg.go.dev/tabula/pkg/errors
// [httputil]: https://pkg.go.dev/tabula/pkg/httputil
// [observability]: https://pkg.go.dev/tabula/pkg/observability
package pkg
