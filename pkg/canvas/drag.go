package canvas

import "math"

// DragResult is the final position of one item after a completed drag.
type DragResult struct {
	ItemID string
	X      float64
	Y      float64
}

// attachedItem is a secondary item moving with the primary one, e.g. a frame
// child. It shares the primary's delta.
type attachedItem struct {
	itemID string
	startX float64
	startY float64
}

type dragState struct {
	itemID string

	// World-space anchor of the gesture and of the item.
	startWorldX float64
	startWorldY float64
	startItemX  float64
	startItemY  float64

	// Latest pointer position, world space.
	curWorldX float64
	curWorldY float64

	// Zoom captured at Start so the activation threshold stays screen-space
	// even though updates arrive in world coordinates.
	zoom float64

	// active flips once the pointer travels past the threshold and never
	// flips back; below it the gesture is a click.
	active bool

	attached []attachedItem
}

// DragEngine tracks one move gesture at a time.
//
// The engine holds world-space state and never touches the document. While a
// drag is active, [DragEngine.OverridePosition] supplies the live geometry
// the renderer folds in; on End the host commits the returned results. All
// methods are safe to call in any order — stray calls are no-ops.
type DragEngine struct {
	lim Limits
	s   *dragState
}

// NewDragEngine creates a drag engine with the given limits.
func NewDragEngine(lim Limits) *DragEngine {
	return &DragEngine{lim: lim}
}

// Start begins a drag gesture on an item. itemX/itemY is the item's current
// position, worldX/worldY the pointer's world position, zoom the viewport
// scale at press time. Any gesture already in flight is discarded.
func (d *DragEngine) Start(itemID string, itemX, itemY, worldX, worldY, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	d.s = &dragState{
		itemID:      itemID,
		startWorldX: worldX,
		startWorldY: worldY,
		startItemX:  itemX,
		startItemY:  itemY,
		curWorldX:   worldX,
		curWorldY:   worldY,
		zoom:        zoom,
	}
}

// Attach adds a secondary item that moves with the primary, typically a frame
// child. Must be called after Start; otherwise it is a no-op.
func (d *DragEngine) Attach(itemID string, itemX, itemY float64) {
	if d.s == nil {
		return
	}
	d.s.attached = append(d.s.attached, attachedItem{itemID: itemID, startX: itemX, startY: itemY})
}

// Update records the pointer's new world position. The gesture activates once
// the screen-space distance from the down-point exceeds the drag threshold.
// No notifications fire: hosts read override positions at their own cadence.
func (d *DragEngine) Update(worldX, worldY float64) {
	if d.s == nil {
		return
	}
	d.s.curWorldX = worldX
	d.s.curWorldY = worldY
	if !d.s.active {
		screenDist := math.Hypot(worldX-d.s.startWorldX, worldY-d.s.startWorldY) * d.s.zoom
		if screenDist > d.lim.DragThreshold {
			d.s.active = true
		}
	}
}

// Dragging reports whether a gesture exists, active or not.
func (d *DragEngine) Dragging() bool { return d.s != nil }

// Active reports whether the gesture has crossed the drag threshold.
func (d *DragEngine) Active() bool { return d.s != nil && d.s.active }

// delta returns the current world-space displacement.
func (s *dragState) delta() (dx, dy float64) {
	return s.curWorldX - s.startWorldX, s.curWorldY - s.startWorldY
}

// OverridePosition returns the live position for an item participating in the
// drag. ok is false for uninvolved items and while the gesture is below the
// activation threshold.
func (d *DragEngine) OverridePosition(itemID string) (x, y float64, ok bool) {
	if d.s == nil || !d.s.active {
		return 0, 0, false
	}
	dx, dy := d.s.delta()
	if itemID == d.s.itemID {
		return d.s.startItemX + dx, d.s.startItemY + dy, true
	}
	for _, a := range d.s.attached {
		if a.itemID == itemID {
			return a.startX + dx, a.startY + dy, true
		}
	}
	return 0, 0, false
}

// End completes the gesture and returns the final positions: the primary item
// first, then attached items. It returns nil when no gesture exists or the
// pointer never crossed the threshold — a click, not a drag.
func (d *DragEngine) End() []DragResult {
	s := d.s
	d.s = nil
	if s == nil || !s.active {
		return nil
	}

	dx, dy := s.delta()
	results := make([]DragResult, 0, 1+len(s.attached))
	results = append(results, DragResult{
		ItemID: s.itemID,
		X:      s.startItemX + dx,
		Y:      s.startItemY + dy,
	})
	for _, a := range s.attached {
		results = append(results, DragResult{
			ItemID: a.itemID,
			X:      a.startX + dx,
			Y:      a.startY + dy,
		})
	}
	return results
}

// Cancel discards the gesture without producing results. Safe to call when
// idle.
func (d *DragEngine) Cancel() { d.s = nil }
