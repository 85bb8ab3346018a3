package canvas

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestWorldToScreen(t *testing.T) {
	tests := []struct {
		name     string
		vp       Viewport
		wx, wy   float64
		sx, sy   float64
	}{
		{"identity", Viewport{Zoom: 1}, 10, 20, 10, 20},
		{"zoomed", Viewport{Zoom: 2}, 10, 20, 20, 40},
		{"panned", Viewport{PanX: 100, PanY: -50, Zoom: 1}, 10, 20, 110, -30},
		{"zoomed and panned", Viewport{PanX: 5, PanY: 7, Zoom: 0.5}, 40, 80, 25, 47},
		{"origin", Viewport{PanX: 33, PanY: 44, Zoom: 3}, 0, 0, 33, 44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := tt.vp.WorldToScreen(tt.wx, tt.wy)
			if !almostEqual(sx, tt.sx) || !almostEqual(sy, tt.sy) {
				t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want (%v, %v)",
					tt.wx, tt.wy, sx, sy, tt.sx, tt.sy)
			}
		})
	}
}

func TestScreenToWorldRoundTrip(t *testing.T) {
	viewports := []Viewport{
		{Zoom: 1},
		{PanX: 123.4, PanY: -567.8, Zoom: 0.25},
		{PanX: -9.5, PanY: 3.25, Zoom: 5},
		{PanX: 1000, PanY: 1000, Zoom: 0.1},
	}
	points := [][2]float64{{0, 0}, {17.5, -42.25}, {-300, 900}, {1e6, -1e6}}

	for _, vp := range viewports {
		for _, p := range points {
			sx, sy := vp.WorldToScreen(p[0], p[1])
			wx, wy := vp.ScreenToWorld(sx, sy)
			if !almostEqual(wx, p[0]) || !almostEqual(wy, p[1]) {
				t.Errorf("vp %+v: round trip of (%v, %v) = (%v, %v)", vp, p[0], p[1], wx, wy)
			}
		}
	}
}

func TestZoomedAtKeepsAnchorFixed(t *testing.T) {
	tests := []struct {
		name   string
		vp     Viewport
		sx, sy float64
		factor float64
	}{
		{"zoom in at cursor", Viewport{PanX: 50, PanY: 30, Zoom: 1}, 400, 300, 1.2},
		{"zoom out at cursor", Viewport{PanX: -20, PanY: 80, Zoom: 2}, 100, 700, 0.8},
		{"zoom at origin", Viewport{Zoom: 1}, 0, 0, 2},
		{"deep zoom sequence anchor", Viewport{PanX: 5, PanY: 5, Zoom: 0.5}, 123, 456, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantWX, wantWY := tt.vp.ScreenToWorld(tt.sx, tt.sy)

			next := tt.vp.ZoomedAt(tt.sx, tt.sy, tt.factor, DefaultLimits())

			gotWX, gotWY := next.ScreenToWorld(tt.sx, tt.sy)
			if !almostEqual(gotWX, wantWX) || !almostEqual(gotWY, wantWY) {
				t.Errorf("world point under cursor moved: (%v, %v) -> (%v, %v)",
					wantWX, wantWY, gotWX, gotWY)
			}
			if !almostEqual(next.Zoom, tt.vp.Zoom*tt.factor) {
				t.Errorf("Zoom = %v, want %v", next.Zoom, tt.vp.Zoom*tt.factor)
			}
		})
	}
}

func TestZoomedAtClamps(t *testing.T) {
	lim := DefaultLimits()

	vp := Viewport{Zoom: 4}
	if got := vp.ZoomedAt(0, 0, 10, lim); !almostEqual(got.Zoom, lim.MaxZoom) {
		t.Errorf("Zoom = %v, want clamped to %v", got.Zoom, lim.MaxZoom)
	}

	vp = Viewport{Zoom: 0.2}
	if got := vp.ZoomedAt(0, 0, 0.01, lim); !almostEqual(got.Zoom, lim.MinZoom) {
		t.Errorf("Zoom = %v, want clamped to %v", got.Zoom, lim.MinZoom)
	}

	// Already at the limit: viewport unchanged, pan untouched.
	vp = Viewport{PanX: 12, PanY: 34, Zoom: lim.MaxZoom}
	if got := vp.ZoomedAt(100, 100, 2, lim); got != vp {
		t.Errorf("zoom beyond max changed viewport: %+v", got)
	}
}

func TestVisibleWorldRect(t *testing.T) {
	vp := Viewport{PanX: -100, PanY: -200, Zoom: 2}
	r := vp.VisibleWorldRect(800, 600)

	if !almostEqual(r.X, 50) || !almostEqual(r.Y, 100) {
		t.Errorf("origin = (%v, %v), want (50, 100)", r.X, r.Y)
	}
	if !almostEqual(r.W, 400) || !almostEqual(r.H, 300) {
		t.Errorf("size = (%v, %v), want (400, 300)", r.W, r.H)
	}
}

func TestPannedBy(t *testing.T) {
	vp := Viewport{PanX: 10, PanY: 20, Zoom: 1.5}
	got := vp.PannedBy(-5, 15)
	if got.PanX != 5 || got.PanY != 35 || got.Zoom != 1.5 {
		t.Errorf("PannedBy = %+v", got)
	}
	// Original untouched.
	if vp.PanX != 10 {
		t.Error("PannedBy mutated the receiver")
	}
}
