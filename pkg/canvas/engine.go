package canvas

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"tabula/pkg/board"
	"tabula/pkg/observability"
)

// Tool is the active interaction mode of the canvas.
type Tool string

// Canvas tools. Select manipulates existing items; the others place a new
// item on the next pointer press and then revert to Select.
const (
	ToolSelect     Tool = "select"
	ToolStickyNote Tool = "sticky_note"
	ToolShape      Tool = "shape"
	ToolText       Tool = "text"
	ToolFrame      Tool = "frame"
	ToolLine       Tool = "line"
	ToolConnector  Tool = "connector"
	ToolFreehand   Tool = "freehand"
)

// toolTypes maps placement tools to the item type they create.
var toolTypes = map[Tool]board.ItemType{
	ToolStickyNote: board.TypeStickyNote,
	ToolShape:      board.TypeShape,
	ToolText:       board.TypeText,
	ToolFrame:      board.TypeFrame,
	ToolLine:       board.TypeLine,
	ToolConnector:  board.TypeConnector,
}

// ZoomStep is the zoom factor applied per wheel notch.
const ZoomStep = 1.1

// Engine orchestrates all interaction with one board: pointer routing,
// selection, gestures, inline editing, and persistence.
//
// The engine is single-goroutine: the host owns an event loop, feeds pointer
// and key events in, and calls Pump once per tick to absorb the results of
// background commits. Nothing here locks.
type Engine struct {
	doc   *board.Document
	coord *Coordinator
	lim   Limits
	log   *log.Logger
	now   func() time.Time

	vp               Viewport
	screenW, screenH float64

	tool     Tool
	selected string

	drag   *DragEngine
	resize *ResizeEngine
	stroke *StrokeCapture
	edit   *EditSession

	panning        bool
	lastSX, lastSY float64
	gestureStart   time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger, shared with the commit coordinator.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithLimits overrides the default interaction limits.
func WithLimits(lim Limits) Option {
	return func(e *Engine) { e.lim = lim }
}

// WithNow sets the clock used for item creation timestamps.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine for a document backed by a store. A nil store
// gives an ephemeral board.
func NewEngine(doc *board.Document, store ItemWriter, opts ...Option) *Engine {
	e := &Engine{
		doc:  doc,
		lim:  DefaultLimits(),
		log:  log.New(io.Discard),
		now:  time.Now,
		vp:   NewViewport(),
		tool: ToolSelect,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.coord = NewCoordinator(doc, store, WithCoordinatorLogger(e.log))
	e.drag = NewDragEngine(e.lim)
	e.resize = NewResizeEngine(e.lim)
	e.stroke = NewStrokeCapture()
	e.edit = NewEditSession()
	return e
}

// Document returns the board document the engine mutates.
func (e *Engine) Document() *board.Document { return e.doc }

// Viewport returns the current viewport.
func (e *Engine) Viewport() Viewport { return e.vp }

// SetScreenSize tells the engine how large the host surface is, in screen
// units. Zero means unknown and disables culling.
func (e *Engine) SetScreenSize(w, h float64) {
	e.screenW, e.screenH = w, h
}

// ScreenSize returns the last reported host surface size.
func (e *Engine) ScreenSize() (w, h float64) { return e.screenW, e.screenH }

// SetTool switches the active tool. Switching cancels any gesture in flight.
func (e *Engine) SetTool(tool Tool) {
	if tool == e.tool {
		return
	}
	e.CancelGesture()
	e.tool = tool
}

// ActiveTool returns the current tool.
func (e *Engine) ActiveTool() Tool { return e.tool }

// SelectedID returns the selected item id, or "" when nothing is selected.
func (e *Engine) SelectedID() string { return e.selected }

// SelectedItem returns the selected live item, if any.
func (e *Engine) SelectedItem() (*board.Item, bool) {
	if e.selected == "" {
		return nil, false
	}
	it, ok := e.doc.Get(e.selected)
	if !ok || it.Deleted {
		return nil, false
	}
	return it, true
}

// Select sets the selection. Unknown ids clear it.
func (e *Engine) Select(itemID string) {
	if itemID == "" {
		e.selected = ""
		return
	}
	if it, ok := e.doc.Get(itemID); ok && !it.Deleted {
		e.selected = itemID
		return
	}
	e.selected = ""
}

// ClearSelection drops the selection.
func (e *Engine) ClearSelection() { e.selected = "" }

// override resolves live gesture geometry for an item. Resize wins over
// drag; only one can be active anyway.
func (e *Engine) override(itemID string) (board.Rect, bool) {
	if r, ok := e.resize.OverrideRect(itemID); ok {
		return r, true
	}
	if x, y, ok := e.drag.OverridePosition(itemID); ok {
		if it, found := e.doc.Get(itemID); found {
			return board.Rect{X: x, Y: y, W: it.Width, H: it.Height}, true
		}
	}
	return board.Rect{}, false
}

// RenderList returns the visible items in paint order, with in-flight
// gesture geometry applied.
func (e *Engine) RenderList() []*board.Item {
	return BuildRenderList(e.doc, e.vp, e.screenW, e.screenH, e.override, e.lim)
}

// ItemScreenRect returns an item's current screen-space rect, following any
// live gesture.
func (e *Engine) ItemScreenRect(itemID string) (board.Rect, bool) {
	it, ok := e.doc.Get(itemID)
	if !ok || it.Deleted {
		return board.Rect{}, false
	}
	return e.vp.WorldRectToScreen(itemBounds(it, e.override)), true
}

// PointerDown routes a press at screen coordinates.
func (e *Engine) PointerDown(ctx context.Context, sx, sy float64) {
	wx, wy := e.vp.ScreenToWorld(sx, sy)
	e.lastSX, e.lastSY = sx, sy

	// An open editor commits when the press lands anywhere outside the item
	// being edited.
	if e.edit.Editing() {
		hit := HitTest(e.doc, wx, wy, e.override)
		if hit != nil && hit.ID == e.edit.ItemID() {
			return
		}
		e.CommitEdit(ctx)
	}

	if e.tool == ToolFreehand {
		e.gestureStart = e.now()
		e.stroke.Begin(wx, wy)
		return
	}
	if typ, ok := toolTypes[e.tool]; ok {
		e.placeItem(ctx, typ, wx, wy)
		return
	}

	// Select tool. Resize handles sit on the selected item's corners and
	// take priority over whatever is underneath them.
	if it, ok := e.SelectedItem(); ok {
		if corner, ok := e.handleAt(it, sx, sy); ok {
			e.gestureStart = e.now()
			e.resize.Start(it, corner, sx, sy, e.vp.Zoom)
			return
		}
	}

	hit := HitTest(e.doc, wx, wy, e.override)
	if hit == nil {
		e.selected = ""
		e.panning = true
		return
	}

	e.selected = hit.ID
	e.gestureStart = e.now()
	e.drag.Start(hit.ID, hit.X, hit.Y, wx, wy, e.vp.Zoom)
	if hit.Type == board.TypeFrame {
		for _, child := range e.doc.Children(hit.ID) {
			e.drag.Attach(child.ID, child.X, child.Y)
		}
	}
}

// PointerMove routes pointer motion at screen coordinates.
func (e *Engine) PointerMove(sx, sy float64) {
	switch {
	case e.stroke.Capturing():
		wx, wy := e.vp.ScreenToWorld(sx, sy)
		e.stroke.Add(wx, wy)
	case e.resize.Resizing():
		e.resize.Update(sx, sy)
	case e.drag.Dragging():
		wx, wy := e.vp.ScreenToWorld(sx, sy)
		e.drag.Update(wx, wy)
	case e.panning:
		e.vp = e.vp.PannedBy(sx-e.lastSX, sy-e.lastSY)
	}
	e.lastSX, e.lastSY = sx, sy
}

// PointerUp routes a release at screen coordinates, completing whatever
// gesture is in flight and committing its result.
func (e *Engine) PointerUp(ctx context.Context, sx, sy float64) {
	e.PointerMove(sx, sy)

	switch {
	case e.stroke.Capturing():
		e.finishStroke(ctx)
	case e.resize.Resizing():
		e.finishResize(ctx)
	case e.drag.Dragging():
		e.finishDrag(ctx)
	case e.panning:
		e.panning = false
	}
}

// Wheel applies notches of zoom anchored at the cursor. Positive notches
// zoom in.
func (e *Engine) Wheel(sx, sy, notches float64) {
	if notches == 0 {
		return
	}
	e.vp = e.vp.ZoomedAt(sx, sy, math.Pow(ZoomStep, notches), e.lim)
}

// ZoomAt applies an explicit zoom factor anchored at a screen point.
func (e *Engine) ZoomAt(sx, sy, factor float64) {
	e.vp = e.vp.ZoomedAt(sx, sy, factor, e.lim)
}

// PanBy shifts the viewport by a screen-space delta.
func (e *Engine) PanBy(dx, dy float64) {
	e.vp = e.vp.PannedBy(dx, dy)
}

// CancelGesture abandons any drag, resize, stroke, or pan without touching
// the document. The open editor, if any, is left alone.
func (e *Engine) CancelGesture() {
	e.drag.Cancel()
	e.resize.Cancel()
	e.stroke.Cancel()
	e.panning = false
}

// Pump absorbs finished background commits, rolling back failures. Returns
// the number of rollbacks, a non-zero value meaning the document changed
// under the host and needs a redraw.
func (e *Engine) Pump() int { return e.coord.Pump() }

// Flush blocks until all in-flight commits have settled.
func (e *Engine) Flush(ctx context.Context) error { return e.coord.Flush(ctx) }

// PendingCommits returns the number of commits still in flight.
func (e *Engine) PendingCommits() int { return e.coord.Pending() }

// finishDrag commits a completed drag: one move per item, then the parent
// change for the dragged item if it crossed a frame boundary.
func (e *Engine) finishDrag(ctx context.Context) {
	results := e.drag.End()
	if results == nil {
		return
	}

	for _, r := range results {
		if err := e.coord.Update(ctx, r.ItemID, board.MovePatch(r.X, r.Y)); err != nil {
			e.log.Warn("move failed", "item", r.ItemID, "err", err)
		}
	}

	primary := results[0]
	if it, ok := e.doc.Get(primary.ItemID); ok {
		bounds := board.Rect{X: primary.X, Y: primary.Y, W: it.Width, H: it.Height}
		if p := ContainmentPatch(e.doc, it, bounds); p != nil {
			if err := e.coord.Update(ctx, it.ID, *p); err != nil {
				e.log.Warn("reparent failed", "item", it.ID, "err", err)
			}
		}
	}

	observability.Gesture().OnGestureEnd("drag", len(results), e.now().Sub(e.gestureStart))
}

// finishResize commits a completed resize and re-evaluates containment with
// the new bounds.
func (e *Engine) finishResize(ctx context.Context) {
	res := e.resize.End()
	if res == nil {
		return
	}

	if err := e.coord.Update(ctx, res.ItemID, board.ResizePatch(res.X, res.Y, res.Width, res.Height)); err != nil {
		e.log.Warn("resize failed", "item", res.ItemID, "err", err)
	}
	if it, ok := e.doc.Get(res.ItemID); ok {
		bounds := board.Rect{X: res.X, Y: res.Y, W: res.Width, H: res.Height}
		if p := ContainmentPatch(e.doc, it, bounds); p != nil {
			if err := e.coord.Update(ctx, it.ID, *p); err != nil {
				e.log.Warn("reparent failed", "item", it.ID, "err", err)
			}
		}
	}

	observability.Gesture().OnGestureEnd("resize", 1, e.now().Sub(e.gestureStart))
}

// finishStroke turns a completed freehand stroke into a new item.
func (e *Engine) finishStroke(ctx context.Context) {
	res := e.stroke.End()
	if res == nil {
		return
	}

	it := &board.Item{
		ID:        board.NewID(),
		Type:      board.TypeFreehand,
		X:         res.X,
		Y:         res.Y,
		Width:     res.Width,
		Height:    res.Height,
		Z:         e.doc.NextZ(),
		Style:     board.Style{Stroke: "#1a1a2e", StrokeWidth: 2, Points: res.Points},
		CreatedAt: e.now(),
	}
	if err := e.coord.Create(ctx, it); err != nil {
		e.log.Warn("stroke create failed", "err", err)
		return
	}
	e.selected = it.ID

	observability.Gesture().OnGestureEnd("stroke", 1, e.now().Sub(e.gestureStart))
}

// placeItem creates a new item centered on the pressed point, selects it,
// and reverts to the select tool. Sticky notes and text open the editor
// immediately so typing can start without another click.
func (e *Engine) placeItem(ctx context.Context, typ board.ItemType, wx, wy float64) {
	it := newItemAt(typ, wx, wy)
	it.Z = e.doc.NextZ()
	it.CreatedAt = e.now()

	if err := e.coord.Create(ctx, it); err != nil {
		e.log.Warn("create failed", "type", typ, "err", err)
		return
	}
	e.selected = it.ID
	e.tool = ToolSelect

	if typ == board.TypeStickyNote || typ == board.TypeText {
		e.edit.Begin(it)
	}
}

// InsertItem adds a fully formed item (paste, import) and selects it.
// Missing id, z, and timestamp are filled in.
func (e *Engine) InsertItem(ctx context.Context, it *board.Item) error {
	if it.ID == "" {
		it.ID = board.NewID()
	}
	if it.Z == 0 {
		it.Z = e.doc.NextZ()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = e.now()
	}
	if err := e.coord.Create(ctx, it); err != nil {
		return err
	}
	e.selected = it.ID
	return nil
}

// DeleteSelected soft-deletes the selected item. Children of a deleted
// frame stay on the board; their parent reference dangles harmlessly.
func (e *Engine) DeleteSelected(ctx context.Context) error {
	if e.selected == "" {
		return nil
	}
	id := e.selected
	e.selected = ""
	if e.edit.ItemID() == id {
		e.edit.Cancel()
	}
	return e.coord.Delete(ctx, id)
}

// BringToFront raises the selected item above everything in its layer.
func (e *Engine) BringToFront(ctx context.Context) error {
	if e.selected == "" {
		return nil
	}
	return e.coord.Update(ctx, e.selected, board.ZPatch(e.doc.MaxZ()+1))
}

// SendToBack lowers the selected item below everything in its layer.
func (e *Engine) SendToBack(ctx context.Context) error {
	if e.selected == "" {
		return nil
	}
	return e.coord.Update(ctx, e.selected, board.ZPatch(e.doc.MinZ()-1))
}

// BeginEdit opens the inline editor on the selected item.
func (e *Engine) BeginEdit() bool {
	it, ok := e.SelectedItem()
	if !ok {
		return false
	}
	e.edit.Begin(it)
	return true
}

// Editing reports whether the inline editor is open.
func (e *Engine) Editing() bool { return e.edit.Editing() }

// EditingID returns the id of the item being edited, or "".
func (e *Engine) EditingID() string { return e.edit.ItemID() }

// EditDraft returns the editor's draft text.
func (e *Engine) EditDraft() string { return e.edit.Draft() }

// SetEditDraft replaces the editor's draft text.
func (e *Engine) SetEditDraft(text string) { e.edit.SetDraft(text) }

// CommitEdit closes the editor and commits the new text if it changed.
func (e *Engine) CommitEdit(ctx context.Context) {
	id, patch := e.edit.Commit()
	if patch == nil {
		return
	}
	if err := e.coord.Update(ctx, id, *patch); err != nil {
		e.log.Warn("content update failed", "item", id, "err", err)
	}
}

// CancelEdit closes the editor discarding the draft.
func (e *Engine) CancelEdit() { e.edit.Cancel() }

// EditorOverlay returns the screen rect where the host should draw its text
// input, and whether the editor is open.
func (e *Engine) EditorOverlay() (board.Rect, bool) {
	if !e.edit.Editing() {
		return board.Rect{}, false
	}
	it, ok := e.doc.Get(e.edit.ItemID())
	if !ok {
		return board.Rect{}, false
	}
	return OverlayRect(it, e.vp, e.override), true
}

// handleAt reports which resize handle of an item a screen point grabs, if
// any. Handles are the four corners of the item's screen rect, padded by the
// handle slop.
func (e *Engine) handleAt(it *board.Item, sx, sy float64) (Corner, bool) {
	r := e.vp.WorldRectToScreen(itemBounds(it, e.override))
	corners := []struct {
		c    Corner
		x, y float64
	}{
		{CornerTopLeft, r.X, r.Y},
		{CornerTopRight, r.Right(), r.Y},
		{CornerBottomLeft, r.X, r.Bottom()},
		{CornerBottomRight, r.Right(), r.Bottom()},
	}
	for _, h := range corners {
		if math.Abs(sx-h.x) <= e.lim.HandleSlop && math.Abs(sy-h.y) <= e.lim.HandleSlop {
			return h.c, true
		}
	}
	return 0, false
}

// newItemAt builds a default item of a type centered on a world point.
func newItemAt(typ board.ItemType, wx, wy float64) *board.Item {
	var w, h float64
	var style board.Style
	switch typ {
	case board.TypeStickyNote:
		w, h = 160, 120
		style = board.Style{Fill: "#fff59d", FontSize: 14}
	case board.TypeShape:
		w, h = 120, 80
		style = board.Style{Fill: "#bbdefb", Stroke: "#1565c0", StrokeWidth: 1.5, Shape: "rectangle"}
	case board.TypeText:
		w, h = 200, 40
		style = board.Style{FontSize: 16}
	case board.TypeFrame:
		w, h = 320, 240
		style = board.Style{Stroke: "#9e9e9e", StrokeWidth: 1}
	case board.TypeLine:
		w, h = 160, 0
		style = board.Style{Stroke: "#424242", StrokeWidth: 2}
	case board.TypeConnector:
		w, h = 160, 0
		style = board.Style{Stroke: "#424242", StrokeWidth: 2, Arrow: true}
	default:
		w, h = 120, 80
	}
	return &board.Item{
		ID:     board.NewID(),
		Type:   typ,
		X:      wx - w/2,
		Y:      wy - h/2,
		Width:  w,
		Height: h,
		Style:  style,
	}
}
