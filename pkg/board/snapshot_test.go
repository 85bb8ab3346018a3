package board

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	d := NewDocument("retro")
	sticky := newTestItem("s1", TypeStickyNote, 10, 20, 120, 120)
	sticky.Content = "ship it"
	sticky.Style.Fill = "#ffd966"
	gone := newTestItem("s2", TypeShape, 0, 0, 50, 50)
	gone.Deleted = true
	for _, it := range []*Item{sticky, gone} {
		if err := d.Add(it); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	now := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	snap := d.Snapshot(now)

	if snap.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", snap.SchemaVersion, SchemaVersion)
	}
	if snap.BoardID != "retro" {
		t.Errorf("BoardID = %q, want %q", snap.BoardID, "retro")
	}
	if len(snap.Items) != 2 {
		t.Fatalf("Items = %d, want 2 (soft-deleted items must survive export)", len(snap.Items))
	}

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}

	back, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot() error = %v", err)
	}

	d2, err := FromSnapshot(back)
	if err != nil {
		t.Fatalf("FromSnapshot() error = %v", err)
	}
	got, ok := d2.Get("s1")
	if !ok {
		t.Fatal("item s1 missing after round trip")
	}
	if got.Content != "ship it" || got.Style.Fill != "#ffd966" || got.X != 10 {
		t.Errorf("round-tripped item = %+v", *got)
	}
	if g2, _ := d2.Get("s2"); !g2.Deleted {
		t.Error("soft-delete flag lost in round trip")
	}
}

func TestReadSnapshotRejectsUnknownVersion(t *testing.T) {
	in := strings.NewReader(`{"schema_version": 99, "board_id": "b", "items": []}`)
	if _, err := ReadSnapshot(in); err == nil {
		t.Error("ReadSnapshot() should reject unknown schema versions")
	}
}

func TestFromSnapshotRejectsUnknownVersion(t *testing.T) {
	_, err := FromSnapshot(Snapshot{SchemaVersion: 2, BoardID: "b"})
	if err == nil {
		t.Error("FromSnapshot() should reject unknown schema versions")
	}
}

func TestItemClone(t *testing.T) {
	p := "frame-1"
	it := &Item{
		ID:       "a",
		Type:     TypeFreehand,
		ParentID: &p,
		Style:    Style{Points: []Point{{X: 1, Y: 2}}},
	}

	c := it.Clone()
	c.Style.Points[0].X = 99
	*c.ParentID = "other"

	if it.Style.Points[0].X != 1 {
		t.Error("Clone() shares the points slice")
	}
	if *it.ParentID != "frame-1" {
		t.Error("Clone() shares the parent pointer")
	}
}

func TestItemTypeHelpers(t *testing.T) {
	if !TypeLine.Linear() || !TypeConnector.Linear() {
		t.Error("line and connector should be linear")
	}
	if TypeStickyNote.Linear() {
		t.Error("sticky notes are not linear")
	}
	if !TypeFrame.Valid() {
		t.Error("frame should be a valid type")
	}
	if ItemType("blob").Valid() {
		t.Error("unknown type should be invalid")
	}
}
