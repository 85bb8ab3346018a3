package board

import (
	"errors"
	"math"
	"testing"
	"time"
)

func newTestItem(id string, typ ItemType, x, y, w, h float64) *Item {
	return &Item{
		ID:        id,
		Type:      typ,
		X:         x,
		Y:         y,
		Width:     w,
		Height:    h,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDocumentAdd(t *testing.T) {
	d := NewDocument("b1")

	if err := d.Add(newTestItem("a", TypeStickyNote, 0, 0, 100, 100)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}

	err := d.Add(newTestItem("a", TypeShape, 0, 0, 10, 10))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate Add() error = %v, want ErrDuplicateID", err)
	}

	if err := d.Add(&Item{Type: TypeShape}); err == nil {
		t.Error("Add() with empty id should fail")
	}
}

func TestDocumentApplyInverse(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Item)
		patch Patch
	}{
		{
			name:  "move",
			patch: MovePatch(250, -40),
		},
		{
			name:  "resize",
			patch: ResizePatch(10, 20, 300, 200),
		},
		{
			name:  "set parent",
			patch: ParentPatch("frame-1"),
		},
		{
			name: "clear parent",
			setup: func(it *Item) {
				p := "frame-1"
				it.ParentID = &p
			},
			patch: ParentPatch(""),
		},
		{
			name:  "content",
			patch: ContentPatch("hello"),
		},
		{
			name:  "soft delete",
			patch: DeletePatch(true),
		},
		{
			name:  "z order",
			patch: ZPatch(17),
		},
		{
			name: "style",
			patch: Patch{Style: &Style{
				Fill:   "#ffd966",
				Points: []Point{{X: 0, Y: 0}, {X: 4, Y: 5}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument("b1")
			it := newTestItem("a", TypeStickyNote, 100, 100, 80, 80)
			if tt.setup != nil {
				tt.setup(it)
			}
			if err := d.Add(it); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			before := *it.Clone()

			inv, err := d.Apply("a", tt.patch)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}

			if _, err := d.Apply("a", inv); err != nil {
				t.Fatalf("Apply(inverse) error = %v", err)
			}

			after, _ := d.Get("a")
			if after.X != before.X || after.Y != before.Y ||
				after.Width != before.Width || after.Height != before.Height ||
				after.Z != before.Z || after.Content != before.Content ||
				after.Deleted != before.Deleted ||
				after.Parent() != before.Parent() ||
				after.Style.Fill != before.Style.Fill ||
				len(after.Style.Points) != len(before.Style.Points) {
				t.Errorf("inverse did not restore item:\n got %+v\nwant %+v", *after, before)
			}
		})
	}
}

func TestDocumentApplyNotFound(t *testing.T) {
	d := NewDocument("b1")
	_, err := d.Apply("ghost", MovePatch(1, 2))
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Apply() error = %v, want ErrItemNotFound", err)
	}
}

func TestDocumentApplyOnlyTouchesSetFields(t *testing.T) {
	d := NewDocument("b1")
	it := newTestItem("a", TypeShape, 5, 6, 70, 80)
	it.Content = "keep me"
	if err := d.Add(it); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	x := 42.0
	inv, err := d.Apply("a", Patch{X: &x})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if it.X != 42 || it.Y != 6 || it.Content != "keep me" {
		t.Errorf("item after partial patch = %+v", *it)
	}
	if inv.Y != nil || inv.Content != nil || inv.Width != nil {
		t.Errorf("inverse should only carry the touched field, got %+v", inv)
	}
	if inv.X == nil || *inv.X != 5 {
		t.Errorf("inverse X = %v, want 5", inv.X)
	}
}

func TestDocumentRemove(t *testing.T) {
	d := NewDocument("b1")
	if err := d.Add(newTestItem("a", TypeShape, 0, 0, 10, 10)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := d.Add(newTestItem("b", TypeShape, 0, 0, 10, 10)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	removed, err := d.Remove("a")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed.ID != "a" {
		t.Errorf("Remove() returned %q, want %q", removed.ID, "a")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
	if _, ok := d.Get("a"); ok {
		t.Error("removed item still retrievable")
	}

	if _, err := d.Remove("a"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("second Remove() error = %v, want ErrItemNotFound", err)
	}
}

func TestDocumentFramesAndChildren(t *testing.T) {
	d := NewDocument("b1")
	frame := newTestItem("f1", TypeFrame, 0, 0, 500, 400)
	deleted := newTestItem("f2", TypeFrame, 600, 0, 200, 200)
	deleted.Deleted = true
	child := newTestItem("c1", TypeStickyNote, 10, 10, 50, 50)
	p := "f1"
	child.ParentID = &p
	loose := newTestItem("c2", TypeStickyNote, 700, 10, 50, 50)

	for _, it := range []*Item{frame, deleted, child, loose} {
		if err := d.Add(it); err != nil {
			t.Fatalf("Add(%s) error = %v", it.ID, err)
		}
	}

	frames := d.Frames()
	if len(frames) != 1 || frames[0].ID != "f1" {
		t.Errorf("Frames() = %v, want [f1]", frames)
	}

	children := d.Children("f1")
	if len(children) != 1 || children[0].ID != "c1" {
		t.Errorf("Children(f1) = %v, want [c1]", children)
	}
	if got := d.Children(""); got != nil {
		t.Errorf("Children(\"\") = %v, want nil", got)
	}
}

func TestDocumentZOrder(t *testing.T) {
	d := NewDocument("b1")
	for i, id := range []string{"a", "b", "c"} {
		it := newTestItem(id, TypeShape, 0, 0, 10, 10)
		it.Z = i - 1 // -1, 0, 1
		if err := d.Add(it); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	if got := d.MaxZ(); got != 1 {
		t.Errorf("MaxZ() = %d, want 1", got)
	}
	if got := d.MinZ(); got != -1 {
		t.Errorf("MinZ() = %d, want -1", got)
	}
	if got := d.NextZ(); got != 2 {
		t.Errorf("NextZ() = %d, want 2", got)
	}
}

func TestLoadClones(t *testing.T) {
	src := []Item{*newTestItem("a", TypeStickyNote, 1, 2, 30, 40)}
	d, err := Load("b1", src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	src[0].X = 999
	it, _ := d.Get("a")
	if it.X != 1 {
		t.Errorf("document item mutated through source slice: X = %v", it.X)
	}
}

func TestPatchIsZeroAndValidate(t *testing.T) {
	if !(Patch{}).IsZero() {
		t.Error("empty patch should be zero")
	}
	if MovePatch(1, 2).IsZero() {
		t.Error("move patch should not be zero")
	}

	bad := math.NaN()
	if err := (Patch{X: &bad}).Validate(); err == nil {
		t.Error("Validate() should reject NaN geometry")
	}
	if err := MovePatch(3, 4).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
