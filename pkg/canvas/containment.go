package canvas

import "tabula/pkg/board"

// ResolveContainment returns the id of the frame that should own an item
// occupying bounds, or "" when no frame fully contains it.
//
// Containment requires the whole rect inside the frame, edges included; an
// item straddling a frame border belongs to nobody. When frames nest or
// overlap, the smallest containing frame wins so dropping into an inner
// frame does not silently attach to the outer one; equal areas go to the
// older frame.
func ResolveContainment(doc *board.Document, itemID string, bounds board.Rect) string {
	var best *board.Item
	for _, f := range doc.Frames() {
		if f.ID == itemID {
			continue
		}
		if !f.Bounds().ContainsRect(bounds) {
			continue
		}
		if best == nil || smallerFrame(f, best) {
			best = f
		}
	}
	if best == nil {
		return ""
	}
	return best.ID
}

// smallerFrame reports whether a should win containment over b.
func smallerFrame(a, b *board.Item) bool {
	aa, ba := a.Bounds().Area(), b.Bounds().Area()
	if aa != ba {
		return aa < ba
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// ContainmentPatch compares an item's resolved frame against its current
// parent and returns the parent patch to reconcile them, or nil when nothing
// changes. Frames and deleted items never re-parent.
func ContainmentPatch(doc *board.Document, it *board.Item, bounds board.Rect) *board.Patch {
	if it == nil || it.Deleted || it.Type == board.TypeFrame {
		return nil
	}
	resolved := ResolveContainment(doc, it.ID, bounds)
	if resolved == it.Parent() {
		return nil
	}
	p := board.ParentPatch(resolved)
	return &p
}
