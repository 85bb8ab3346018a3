package canvas

import "tabula/pkg/board"

// EditSession bridges the canvas to a host-owned text input for inline
// editing. The session tracks which item is being edited and the draft text;
// the host owns the actual input widget and pushes keystrokes in through
// SetDraft.
type EditSession struct {
	itemID   string
	original string
	draft    string
	active   bool
}

// NewEditSession returns an idle session.
func NewEditSession() *EditSession {
	return &EditSession{}
}

// Begin starts editing an item's content, replacing any session in flight.
func (s *EditSession) Begin(it *board.Item) {
	if it == nil {
		return
	}
	s.itemID = it.ID
	s.original = it.Content
	s.draft = it.Content
	s.active = true
}

// Editing reports whether a session is in flight.
func (s *EditSession) Editing() bool { return s.active }

// ItemID returns the item being edited, or "" when idle.
func (s *EditSession) ItemID() string {
	if !s.active {
		return ""
	}
	return s.itemID
}

// Draft returns the current draft text.
func (s *EditSession) Draft() string {
	if !s.active {
		return ""
	}
	return s.draft
}

// SetDraft replaces the draft text. No-op when idle.
func (s *EditSession) SetDraft(text string) {
	if !s.active {
		return
	}
	s.draft = text
}

// Commit ends the session and returns the edited item id plus the content
// patch to apply. The patch is nil when the text did not change, so a click
// in and straight back out leaves no trace in the undo or commit stream.
func (s *EditSession) Commit() (string, *board.Patch) {
	if !s.active {
		return "", nil
	}
	id, original, draft := s.itemID, s.original, s.draft
	s.reset()
	if draft == original {
		return id, nil
	}
	p := board.ContentPatch(draft)
	return id, &p
}

// Cancel ends the session discarding the draft. Safe to call when idle.
func (s *EditSession) Cancel() { s.reset() }

func (s *EditSession) reset() {
	s.itemID = ""
	s.original = ""
	s.draft = ""
	s.active = false
}

// OverlayRect returns the screen-space rectangle where the host should place
// its editor widget for an item: the item's bounds through the viewport,
// following any live drag or resize override so the editor rides along.
func OverlayRect(it *board.Item, vp Viewport, override OverrideFunc) board.Rect {
	return vp.WorldRectToScreen(itemBounds(it, override))
}
