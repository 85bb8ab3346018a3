package canvas

import (
	"testing"

	"tabula/pkg/board"
)

func newTestItem(id string, typ board.ItemType, x, y, w, h float64) *board.Item {
	return &board.Item{ID: id, Type: typ, X: x, Y: y, Width: w, Height: h}
}

func TestResizeCorners(t *testing.T) {
	tests := []struct {
		name   string
		corner Corner
		dx, dy float64
		want   board.Rect
	}{
		{
			name:   "bottom-right grows both",
			corner: CornerBottomRight,
			dx:     30, dy: 40,
			want: board.Rect{X: 0, Y: 0, W: 130, H: 140},
		},
		{
			name:   "top-left moves origin and shrinks",
			corner: CornerTopLeft,
			dx:     10, dy: 20,
			want: board.Rect{X: 10, Y: 20, W: 90, H: 80},
		},
		{
			name:   "top-right grows width shrinks height",
			corner: CornerTopRight,
			dx:     15, dy: 25,
			want: board.Rect{X: 0, Y: 25, W: 115, H: 75},
		},
		{
			name:   "bottom-left shrinks width grows height",
			corner: CornerBottomLeft,
			dx:     15, dy: 25,
			want: board.Rect{X: 15, Y: 0, W: 85, H: 125},
		},
		{
			name:   "negative delta grows toward origin",
			corner: CornerTopLeft,
			dx:     -10, dy: -10,
			want: board.Rect{X: -10, Y: -10, W: 110, H: 110},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewResizeEngine(DefaultLimits())
			it := newTestItem("a", board.TypeShape, 0, 0, 100, 100)
			eng.Start(it, tt.corner, 500, 500, 1.0)
			eng.Update(500+tt.dx, 500+tt.dy)

			got := eng.End()
			if got == nil {
				t.Fatal("End() = nil, want result")
			}
			rect := board.Rect{X: got.X, Y: got.Y, W: got.Width, H: got.Height}
			if rect != tt.want {
				t.Errorf("resize %s = %+v, want %+v", tt.corner, rect, tt.want)
			}
		})
	}
}

func TestResizeDeltaScalesWithZoom(t *testing.T) {
	tests := []struct {
		name     string
		zoom     float64
		screenDx float64
		wantW    float64
	}{
		{name: "zoomed out doubles world delta", zoom: 0.5, screenDx: 50, wantW: 200},
		{name: "unity zoom passes through", zoom: 1.0, screenDx: 50, wantW: 150},
		{name: "zoomed in halves world delta", zoom: 2.0, screenDx: 50, wantW: 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewResizeEngine(DefaultLimits())
			it := newTestItem("a", board.TypeShape, 0, 0, 100, 100)
			eng.Start(it, CornerBottomRight, 0, 0, tt.zoom)
			eng.Update(tt.screenDx, 0)

			got := eng.End()
			if got == nil {
				t.Fatal("End() = nil, want result")
			}
			if got.Width != tt.wantW {
				t.Errorf("Width = %v, want %v", got.Width, tt.wantW)
			}
			if got.Height != 100 {
				t.Errorf("Height = %v, want 100", got.Height)
			}
		})
	}
}

func TestResizeMinSizeClamp(t *testing.T) {
	tests := []struct {
		name   string
		corner Corner
		dx, dy float64
		want   board.Rect
	}{
		{
			name:   "bottom-right clamps width keeping origin",
			corner: CornerBottomRight,
			dx:     -90, dy: 0,
			want: board.Rect{X: 0, Y: 0, W: 20, H: 100},
		},
		{
			name:   "top-left clamps both pinning bottom-right edge",
			corner: CornerTopLeft,
			dx:     95, dy: 95,
			want: board.Rect{X: 80, Y: 80, W: 20, H: 20},
		},
		{
			name:   "top-right clamps height pinning bottom edge",
			corner: CornerTopRight,
			dx:     0, dy: 150,
			want: board.Rect{X: 0, Y: 80, W: 100, H: 20},
		},
		{
			name:   "bottom-left clamps width pinning right edge",
			corner: CornerBottomLeft,
			dx:     200, dy: 0,
			want: board.Rect{X: 80, Y: 0, W: 20, H: 100},
		},
		{
			name:   "crossing past the anchor stays at minimum",
			corner: CornerBottomRight,
			dx:     -500, dy: -500,
			want: board.Rect{X: 0, Y: 0, W: 20, H: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewResizeEngine(DefaultLimits())
			it := newTestItem("a", board.TypeShape, 0, 0, 100, 100)
			eng.Start(it, tt.corner, 0, 0, 1.0)
			eng.Update(tt.dx, tt.dy)

			got := eng.End()
			if got == nil {
				t.Fatal("End() = nil, want result")
			}
			rect := board.Rect{X: got.X, Y: got.Y, W: got.Width, H: got.Height}
			if rect != tt.want {
				t.Errorf("resize %s = %+v, want %+v", tt.corner, rect, tt.want)
			}
		})
	}
}

func TestResizeLinearLocksVertical(t *testing.T) {
	for _, typ := range []board.ItemType{board.TypeLine, board.TypeConnector} {
		t.Run(string(typ), func(t *testing.T) {
			eng := NewResizeEngine(DefaultLimits())
			it := newTestItem("a", typ, 10, 50, 100, 2)
			eng.Start(it, CornerBottomRight, 0, 0, 1.0)
			eng.Update(40, 80)

			got := eng.End()
			if got == nil {
				t.Fatal("End() = nil, want result")
			}
			if got.Width != 140 {
				t.Errorf("Width = %v, want 140", got.Width)
			}
			if got.Y != 50 || got.Height != 2 {
				t.Errorf("vertical geometry moved: y=%v h=%v, want y=50 h=2", got.Y, got.Height)
			}
		})
	}
}

func TestResizeLinearClampsWidthOnly(t *testing.T) {
	eng := NewResizeEngine(DefaultLimits())
	it := newTestItem("a", board.TypeLine, 0, 50, 100, 2)
	eng.Start(it, CornerBottomLeft, 0, 0, 1.0)
	eng.Update(300, 0)

	got := eng.End()
	if got == nil {
		t.Fatal("End() = nil, want result")
	}
	// Width pins at the minimum with the right edge fixed; height stays
	// untouched even though it is far below the minimum.
	if got.X != 80 || got.Width != 20 {
		t.Errorf("horizontal = (x=%v w=%v), want (x=80 w=20)", got.X, got.Width)
	}
	if got.Height != 2 {
		t.Errorf("Height = %v, want 2", got.Height)
	}
}

func TestResizeOverrideRect(t *testing.T) {
	eng := NewResizeEngine(DefaultLimits())

	if _, ok := eng.OverrideRect("a"); ok {
		t.Error("OverrideRect() ok = true before Start")
	}

	it := newTestItem("a", board.TypeShape, 0, 0, 100, 100)
	eng.Start(it, CornerBottomRight, 0, 0, 1.0)
	eng.Update(25, 35)

	rect, ok := eng.OverrideRect("a")
	if !ok {
		t.Fatal("OverrideRect(a) ok = false during resize")
	}
	want := board.Rect{X: 0, Y: 0, W: 125, H: 135}
	if rect != want {
		t.Errorf("OverrideRect(a) = %+v, want %+v", rect, want)
	}
	if _, ok := eng.OverrideRect("other"); ok {
		t.Error("OverrideRect(other) ok = true, want false")
	}

	eng.End()
	if _, ok := eng.OverrideRect("a"); ok {
		t.Error("OverrideRect() ok = true after End")
	}
}

func TestResizeStrayCalls(t *testing.T) {
	eng := NewResizeEngine(DefaultLimits())

	// All of these are no-ops on an idle engine.
	eng.Update(10, 10)
	eng.Cancel()
	if got := eng.End(); got != nil {
		t.Errorf("End() on idle engine = %+v, want nil", got)
	}
	if eng.Resizing() {
		t.Error("Resizing() = true on idle engine")
	}

	eng.Start(nil, CornerTopLeft, 0, 0, 1.0)
	if eng.Resizing() {
		t.Error("Resizing() = true after Start(nil)")
	}

	it := newTestItem("a", board.TypeShape, 0, 0, 100, 100)
	eng.Start(it, CornerTopLeft, 0, 0, 1.0)
	eng.Cancel()
	if eng.Resizing() {
		t.Error("Resizing() = true after Cancel")
	}
	if got := eng.End(); got != nil {
		t.Errorf("End() after Cancel = %+v, want nil", got)
	}
}
