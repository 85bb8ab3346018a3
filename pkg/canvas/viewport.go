package canvas

import "tabula/pkg/board"

// Viewport maps between world space and screen space. It is an immutable
// value: pan and zoom operations return a new viewport.
//
// The transform is uniform scale plus translation:
//
//	screenX = worldX*Zoom + PanX
//	screenY = worldY*Zoom + PanY
type Viewport struct {
	PanX float64
	PanY float64
	Zoom float64
}

// NewViewport returns the identity viewport (no pan, zoom 1).
func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

// WorldToScreen converts a world point to screen coordinates.
func (v Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx*v.Zoom + v.PanX, wy*v.Zoom + v.PanY
}

// ScreenToWorld converts a screen point to world coordinates. It is the exact
// inverse of [Viewport.WorldToScreen].
func (v Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return (sx - v.PanX) / v.Zoom, (sy - v.PanY) / v.Zoom
}

// WorldRectToScreen converts a world rect to screen coordinates.
func (v Viewport) WorldRectToScreen(r board.Rect) board.Rect {
	x, y := v.WorldToScreen(r.X, r.Y)
	return board.Rect{X: x, Y: y, W: r.W * v.Zoom, H: r.H * v.Zoom}
}

// VisibleWorldRect returns the world-space rect covered by a screen of the
// given size.
func (v Viewport) VisibleWorldRect(screenW, screenH float64) board.Rect {
	x, y := v.ScreenToWorld(0, 0)
	return board.Rect{X: x, Y: y, W: screenW / v.Zoom, H: screenH / v.Zoom}
}

// PannedBy returns the viewport translated by a screen-space delta.
func (v Viewport) PannedBy(dx, dy float64) Viewport {
	v.PanX += dx
	v.PanY += dy
	return v
}

// ZoomedAt returns the viewport with zoom multiplied by factor and clamped to
// the limits, keeping the world point under the screen point (sx, sy) fixed.
//
// Fixing the anchor means solving pan' from
//
//	sx = wx*zoom' + panX'
//
// for the world point wx that currently sits at sx.
func (v Viewport) ZoomedAt(sx, sy, factor float64, lim Limits) Viewport {
	zoom := clamp(v.Zoom*factor, lim.MinZoom, lim.MaxZoom)
	if zoom == v.Zoom {
		return v
	}
	wx, wy := v.ScreenToWorld(sx, sy)
	return Viewport{
		PanX: sx - wx*zoom,
		PanY: sy - wy*zoom,
		Zoom: zoom,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
