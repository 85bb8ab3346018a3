// Package canvas implements the interaction engine for an infinite-canvas
// whiteboard: coordinate transforms, gesture state machines, render-list
// resolution, frame containment, and optimistic persistence.
//
// # Overview
//
// The package is host-agnostic. A host (the bundled terminal UI, a test, or
// any other front end) feeds screen-space pointer events into an [Engine] and
// reads back [Engine.RenderList] each tick: the ordered list of visible items
// with live gesture geometry folded in, alongside selection and editor state.
// The engine owns a [board.Document] and an [ItemWriter] and keeps them
// consistent through the [Coordinator]'s optimistic-apply/async-commit/rollback
// cycle.
//
// # Coordinate Spaces
//
// Two spaces exist: world (item geometry, persisted) and screen (pointer
// events, rendering). [Viewport] converts between them:
//
//	screen = world*zoom + pan
//	world  = (screen - pan) / zoom
//
// Zooming keeps the world point under the cursor fixed by recomputing pan.
//
// # Gestures
//
// Drag, resize, and freehand capture are independent state machines. While a
// gesture is live it never mutates the document; it exposes override geometry
// that the render-list resolver folds in each frame. Only when the gesture
// ends does the engine write the result through the coordinator. A drag below
// the activation threshold is a click and produces no write at all.
//
// The engines are forgiving at gesture boundaries: an End without a Start, a
// stray Update, or a cancellation mid-gesture leaves them idle without
// panicking. Hosts lose pointer captures in messy ways; the engine must not
// care.
//
// # Persistence
//
// [Coordinator.Create], [Coordinator.Update], and [Coordinator.Delete] mutate
// the document immediately and keep a rollback closure built from the inverse
// patch, then run the store call on a background goroutine and queue the
// outcome. [Coordinator.Pump], called by the host once per frame on the event
// goroutine, invokes rollbacks for failures and logs them. Dragging a frame
// commits the frame and every child independently, so one failed child snaps
// back alone while the rest of the move sticks.
//
// # Concurrency
//
// Everything except the store calls runs on the host's single event
// goroutine. No locks guard the document; the commit goroutines communicate
// only through the coordinator's result queue.
package canvas
