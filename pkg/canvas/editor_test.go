package canvas

import (
	"testing"

	"tabula/pkg/board"
)

func TestEditSessionCommitChanged(t *testing.T) {
	s := NewEditSession()
	it := &board.Item{ID: "a", Type: board.TypeStickyNote, Content: "before"}

	s.Begin(it)
	if !s.Editing() || s.ItemID() != "a" {
		t.Fatalf("Editing() = %v, ItemID() = %q; want true, a", s.Editing(), s.ItemID())
	}
	if s.Draft() != "before" {
		t.Errorf("Draft() = %q, want original content", s.Draft())
	}

	s.SetDraft("after")
	id, patch := s.Commit()
	if id != "a" {
		t.Errorf("Commit() id = %q, want a", id)
	}
	if patch == nil || patch.Content == nil {
		t.Fatalf("Commit() patch = %+v, want content patch", patch)
	}
	if *patch.Content != "after" {
		t.Errorf("patch content = %q, want after", *patch.Content)
	}
	if s.Editing() {
		t.Error("Editing() = true after Commit")
	}
}

func TestEditSessionCommitUnchanged(t *testing.T) {
	s := NewEditSession()
	s.Begin(&board.Item{ID: "a", Content: "same"})
	s.SetDraft("same")

	id, patch := s.Commit()
	if id != "a" {
		t.Errorf("Commit() id = %q, want a", id)
	}
	if patch != nil {
		t.Errorf("Commit() patch = %+v, want nil for unchanged text", patch)
	}
}

func TestEditSessionCommitToEmpty(t *testing.T) {
	s := NewEditSession()
	s.Begin(&board.Item{ID: "a", Content: "text"})
	s.SetDraft("")

	_, patch := s.Commit()
	if patch == nil || patch.Content == nil || *patch.Content != "" {
		t.Errorf("Commit() patch = %+v, want patch clearing content", patch)
	}
}

func TestEditSessionCancel(t *testing.T) {
	s := NewEditSession()
	s.Begin(&board.Item{ID: "a", Content: "keep"})
	s.SetDraft("discard me")
	s.Cancel()

	if s.Editing() {
		t.Error("Editing() = true after Cancel")
	}
	if id, patch := s.Commit(); id != "" || patch != nil {
		t.Errorf("Commit() after Cancel = (%q, %+v), want (\"\", nil)", id, patch)
	}
}

func TestEditSessionStrayCalls(t *testing.T) {
	s := NewEditSession()

	s.SetDraft("ignored")
	s.Cancel()
	if id, patch := s.Commit(); id != "" || patch != nil {
		t.Errorf("Commit() on idle session = (%q, %+v), want (\"\", nil)", id, patch)
	}
	if s.ItemID() != "" || s.Draft() != "" {
		t.Errorf("idle session leaks state: id=%q draft=%q", s.ItemID(), s.Draft())
	}

	s.Begin(nil)
	if s.Editing() {
		t.Error("Editing() = true after Begin(nil)")
	}
}

func TestEditSessionBeginReplaces(t *testing.T) {
	s := NewEditSession()
	s.Begin(&board.Item{ID: "a", Content: "first"})
	s.SetDraft("edited")
	s.Begin(&board.Item{ID: "b", Content: "second"})

	if s.ItemID() != "b" || s.Draft() != "second" {
		t.Errorf("session = (%q, %q), want fresh session for b", s.ItemID(), s.Draft())
	}
}

func TestOverlayRect(t *testing.T) {
	it := &board.Item{ID: "a", X: 100, Y: 50, Width: 200, Height: 80}
	vp := Viewport{PanX: 10, PanY: 20, Zoom: 2}

	got := OverlayRect(it, vp, nil)
	want := board.Rect{X: 210, Y: 120, W: 400, H: 160}
	if got != want {
		t.Errorf("OverlayRect = %+v, want %+v", got, want)
	}

	override := func(id string) (board.Rect, bool) {
		return board.Rect{X: 0, Y: 0, W: 100, H: 100}, true
	}
	got = OverlayRect(it, vp, override)
	want = board.Rect{X: 10, Y: 20, W: 200, H: 200}
	if got != want {
		t.Errorf("OverlayRect with override = %+v, want %+v", got, want)
	}
}
