package canvas

import "tabula/pkg/board"

// Corner identifies which resize handle a gesture grabbed.
type Corner int

// Resize handle corners.
const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// String returns a stable name for logging.
func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// left reports whether the corner moves the left edge.
func (c Corner) left() bool { return c == CornerTopLeft || c == CornerBottomLeft }

// top reports whether the corner moves the top edge.
func (c Corner) top() bool { return c == CornerTopLeft || c == CornerTopRight }

// ResizeResult is the final geometry of an item after a completed resize.
type ResizeResult struct {
	ItemID string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type resizeState struct {
	itemID   string
	itemType board.ItemType
	corner   Corner

	// Pointer anchor and latest position, screen space. Resize tracks the
	// raw pointer and converts to world deltas by the zoom captured at
	// Start; drag tracks world. The asymmetry is deliberate: each engine
	// follows the space its host events naturally arrive in.
	startScreenX float64
	startScreenY float64
	curScreenX   float64
	curScreenY   float64

	// Item geometry at Start, world space.
	startX float64
	startY float64
	startW float64
	startH float64

	zoom float64
}

// ResizeEngine tracks one corner-resize gesture at a time.
//
// There is no activation threshold: grabbing a handle is already an explicit
// act. Like the other engines it never touches the document and tolerates
// stray calls.
type ResizeEngine struct {
	lim Limits
	s   *resizeState
}

// NewResizeEngine creates a resize engine with the given limits.
func NewResizeEngine(lim Limits) *ResizeEngine {
	return &ResizeEngine{lim: lim}
}

// Start begins resizing an item from the given corner. screenX/screenY is the
// pointer position at press time, zoom the viewport scale. Any gesture in
// flight is discarded.
func (r *ResizeEngine) Start(it *board.Item, corner Corner, screenX, screenY, zoom float64) {
	if it == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	r.s = &resizeState{
		itemID:       it.ID,
		itemType:     it.Type,
		corner:       corner,
		startScreenX: screenX,
		startScreenY: screenY,
		curScreenX:   screenX,
		curScreenY:   screenY,
		startX:       it.X,
		startY:       it.Y,
		startW:       it.Width,
		startH:       it.Height,
		zoom:         zoom,
	}
}

// Update records the pointer's new screen position.
func (r *ResizeEngine) Update(screenX, screenY float64) {
	if r.s == nil {
		return
	}
	r.s.curScreenX = screenX
	r.s.curScreenY = screenY
}

// Resizing reports whether a gesture is in flight.
func (r *ResizeEngine) Resizing() bool { return r.s != nil }

// OverrideRect returns the live geometry for the item being resized. ok is
// false for other items and when idle.
func (r *ResizeEngine) OverrideRect(itemID string) (board.Rect, bool) {
	if r.s == nil || r.s.itemID != itemID {
		return board.Rect{}, false
	}
	return r.s.resolve(r.lim), true
}

// End completes the gesture and returns the final geometry, or nil when idle.
func (r *ResizeEngine) End() *ResizeResult {
	s := r.s
	r.s = nil
	if s == nil {
		return nil
	}
	rect := s.resolve(r.lim)
	return &ResizeResult{
		ItemID: s.itemID,
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.W,
		Height: rect.H,
	}
}

// Cancel discards the gesture. Safe to call when idle.
func (r *ResizeEngine) Cancel() { r.s = nil }

// resolve computes the current geometry from the pointer delta, corner, and
// clamping rules.
func (s *resizeState) resolve(lim Limits) board.Rect {
	// Screen delta to world delta.
	dx := (s.curScreenX - s.startScreenX) / s.zoom
	dy := (s.curScreenY - s.startScreenY) / s.zoom

	x, y := s.startX, s.startY
	w, h := s.startW, s.startH

	switch s.corner {
	case CornerTopLeft:
		x += dx
		y += dy
		w -= dx
		h -= dy
	case CornerTopRight:
		y += dy
		w += dx
		h -= dy
	case CornerBottomLeft:
		x += dx
		w -= dx
		h += dy
	case CornerBottomRight:
		w += dx
		h += dy
	}

	// Lines and connectors keep their vertical geometry; only the horizontal
	// span resizes.
	if s.itemType.Linear() {
		y = s.startY
		h = s.startH
	}

	// Clamp to the minimum size, pinning the edge opposite the grabbed
	// corner. For a left-side corner the right edge must not move, so x is
	// recomputed from it; right-side corners already keep x fixed.
	if w < lim.MinItemSize {
		w = lim.MinItemSize
		if s.corner.left() {
			x = s.startX + s.startW - w
		}
	}
	if !s.itemType.Linear() && h < lim.MinItemSize {
		h = lim.MinItemSize
		if s.corner.top() {
			y = s.startY + s.startH - h
		}
	}

	return board.Rect{X: x, Y: y, W: w, H: h}
}
