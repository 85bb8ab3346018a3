package canvas

import (
	"sort"

	"tabula/pkg/board"
)

// OverrideFunc reports a live geometry override for an item, typically fed
// by an in-flight drag or resize. ok is false for items with no override.
type OverrideFunc func(itemID string) (board.Rect, bool)

// itemBounds resolves an item's effective bounds, honoring overrides.
func itemBounds(it *board.Item, override OverrideFunc) board.Rect {
	if override != nil {
		if r, ok := override(it.ID); ok {
			return r
		}
	}
	return it.Bounds()
}

// paintBand buckets items into the coarse paint layers: frames below
// everything so their children stay visible, then free-floating items, then
// items inside a frame on top.
func paintBand(it *board.Item) int {
	switch {
	case it.Type == board.TypeFrame:
		return 0
	case !it.HasParent():
		return 1
	default:
		return 2
	}
}

// sortPaintOrder sorts items bottom-to-top: band, then Z, then creation
// time, then ID. Creation time breaks Z ties so two items dropped at the
// same level stack in the order they were made; ID keeps the order total.
func sortPaintOrder(items []*board.Item) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ba, bb := paintBand(a), paintBand(b); ba != bb {
			return ba < bb
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// BuildRenderList returns the visible items of a document in paint order,
// bottom first.
//
// Culling uses the viewport's visible world rect expanded by the cull margin
// in world units (margin divided by zoom, so the buffer is constant on
// screen). When screenW or screenH is not positive the screen size is
// unknown and culling is skipped entirely rather than culling everything.
func BuildRenderList(doc *board.Document, vp Viewport, screenW, screenH float64, override OverrideFunc, lim Limits) []*board.Item {
	cull := screenW > 0 && screenH > 0
	var visible board.Rect
	if cull {
		visible = vp.VisibleWorldRect(screenW, screenH).Expanded(lim.CullMargin / vp.Zoom)
	}

	var out []*board.Item
	for _, it := range doc.Items() {
		if it.Deleted {
			continue
		}
		if cull && !itemBounds(it, override).Intersects(visible) {
			continue
		}
		out = append(out, it)
	}
	sortPaintOrder(out)
	return out
}

// HitTest returns the topmost live item whose bounds contain the world
// point, or nil. Walks the paint order top-down so whatever the user sees
// uppermost is what they grab; overrides keep hits in sync with an item
// being dragged or resized.
func HitTest(doc *board.Document, worldX, worldY float64, override OverrideFunc) *board.Item {
	items := make([]*board.Item, 0, doc.Len())
	for _, it := range doc.Items() {
		if it.Deleted {
			continue
		}
		items = append(items, it)
	}
	sortPaintOrder(items)

	for i := len(items) - 1; i >= 0; i-- {
		if itemBounds(items[i], override).ContainsPoint(worldX, worldY) {
			return items[i]
		}
	}
	return nil
}
