package canvas

import "testing"

func TestDragClickBelowThresholdIsNotADrag(t *testing.T) {
	d := NewDragEngine(DefaultLimits())
	d.Start("a", 100, 100, 50, 50, 1)

	// 2px of travel at zoom 1 stays below the 3px threshold.
	d.Update(51, 51)

	if d.Active() {
		t.Error("drag should not activate below the threshold")
	}
	if _, _, ok := d.OverridePosition("a"); ok {
		t.Error("no override should exist below the threshold")
	}
	if got := d.End(); got != nil {
		t.Errorf("End() = %v, want nil for a click", got)
	}
}

func TestDragThresholdScalesWithZoom(t *testing.T) {
	tests := []struct {
		name       string
		zoom       float64
		worldDelta float64
		wantActive bool
	}{
		// Screen distance = worldDelta * zoom, threshold is 3 screen px.
		{"zoom 1 under", 1, 2.5, false},
		{"zoom 1 over", 1, 3.5, true},
		{"zoomed out needs more world travel", 0.1, 20, false},
		{"zoomed out over", 0.1, 40, true},
		{"zoomed in needs less world travel", 5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDragEngine(DefaultLimits())
			d.Start("a", 0, 0, 0, 0, tt.zoom)
			d.Update(tt.worldDelta, 0)

			if got := d.Active(); got != tt.wantActive {
				t.Errorf("Active() = %v, want %v", got, tt.wantActive)
			}
		})
	}
}

func TestDragOverrideAndEnd(t *testing.T) {
	d := NewDragEngine(DefaultLimits())
	d.Start("a", 100, 200, 50, 50, 1)
	d.Update(80, 40) // delta (30, -10)

	x, y, ok := d.OverridePosition("a")
	if !ok {
		t.Fatal("override missing for dragged item")
	}
	if x != 130 || y != 190 {
		t.Errorf("override = (%v, %v), want (130, 190)", x, y)
	}

	if _, _, ok := d.OverridePosition("other"); ok {
		t.Error("override should not apply to uninvolved items")
	}

	results := d.End()
	if len(results) != 1 {
		t.Fatalf("End() returned %d results, want 1", len(results))
	}
	if r := results[0]; r.ItemID != "a" || r.X != 130 || r.Y != 190 {
		t.Errorf("End() = %+v, want {a 130 190}", r)
	}

	// Engine is idle again.
	if d.Dragging() {
		t.Error("engine should be idle after End")
	}
	if got := d.End(); got != nil {
		t.Errorf("second End() = %v, want nil", got)
	}
}

func TestDragStaysActiveAfterReturningToOrigin(t *testing.T) {
	d := NewDragEngine(DefaultLimits())
	d.Start("a", 0, 0, 10, 10, 1)
	d.Update(30, 10)  // activates
	d.Update(10, 10)  // back to the down-point

	if !d.Active() {
		t.Error("activation must not revert when the pointer returns to origin")
	}
	results := d.End()
	if len(results) != 1 || results[0].X != 0 || results[0].Y != 0 {
		t.Errorf("End() = %+v, want position back at (0, 0)", results)
	}
}

func TestDragAttachedChildrenShareDelta(t *testing.T) {
	d := NewDragEngine(DefaultLimits())
	d.Start("frame", 0, 0, 100, 100, 1)
	d.Attach("child1", 20, 30)
	d.Attach("child2", 50, 60)
	d.Update(125, 90) // delta (25, -10)

	for _, tc := range []struct {
		id   string
		x, y float64
	}{
		{"frame", 25, -10},
		{"child1", 45, 20},
		{"child2", 75, 50},
	} {
		x, y, ok := d.OverridePosition(tc.id)
		if !ok || x != tc.x || y != tc.y {
			t.Errorf("OverridePosition(%s) = (%v, %v, %v), want (%v, %v, true)",
				tc.id, x, y, ok, tc.x, tc.y)
		}
	}

	results := d.End()
	if len(results) != 3 {
		t.Fatalf("End() returned %d results, want 3", len(results))
	}
	if results[0].ItemID != "frame" {
		t.Errorf("primary item should come first, got %s", results[0].ItemID)
	}
	if r := results[2]; r.ItemID != "child2" || r.X != 75 || r.Y != 50 {
		t.Errorf("child2 result = %+v", r)
	}
}

func TestDragCancelAndStrayCalls(t *testing.T) {
	d := NewDragEngine(DefaultLimits())

	// Stray calls on an idle engine must not panic or produce state.
	d.Update(10, 10)
	d.Attach("x", 0, 0)
	d.Cancel()
	if got := d.End(); got != nil {
		t.Errorf("End() on idle engine = %v, want nil", got)
	}

	d.Start("a", 0, 0, 0, 0, 1)
	d.Update(50, 50)
	d.Cancel()

	if d.Dragging() {
		t.Error("Cancel should clear the gesture")
	}
	if got := d.End(); got != nil {
		t.Errorf("End() after Cancel = %v, want nil", got)
	}
}

func TestDragRestartReplacesGesture(t *testing.T) {
	d := NewDragEngine(DefaultLimits())
	d.Start("a", 0, 0, 0, 0, 1)
	d.Update(100, 0)

	d.Start("b", 10, 10, 5, 5, 1)
	if d.Active() {
		t.Error("new gesture must start below the threshold")
	}
	if _, _, ok := d.OverridePosition("a"); ok {
		t.Error("override from the discarded gesture leaked")
	}
}
