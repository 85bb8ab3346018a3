package canvas

import "tabula/pkg/board"

// StrokeResult is the geometry of a completed freehand stroke: the bounding
// box in world space plus the sampled points relative to the box origin.
// Storing points relative to the box lets a later move patch the box alone.
type StrokeResult struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Points []board.Point
}

// StrokeCapture accumulates pointer samples for a freehand stroke.
//
// Samples arrive in world space; the host converts from screen before
// feeding them in so a pan or zoom mid-stroke cannot bend the line.
type StrokeCapture struct {
	points []board.Point
}

// NewStrokeCapture creates an idle capture.
func NewStrokeCapture() *StrokeCapture {
	return &StrokeCapture{}
}

// Begin starts a new stroke at the given world point, discarding any stroke
// in progress.
func (c *StrokeCapture) Begin(worldX, worldY float64) {
	c.points = []board.Point{{X: worldX, Y: worldY}}
}

// Add appends a sample. Consecutive duplicates are dropped: hosts re-deliver
// the same coordinates on release, and a tap must not turn into a two-point
// stroke. No-op when idle.
func (c *StrokeCapture) Add(worldX, worldY float64) {
	if c.points == nil {
		return
	}
	p := board.Point{X: worldX, Y: worldY}
	if c.points[len(c.points)-1] == p {
		return
	}
	c.points = append(c.points, p)
}

// Capturing reports whether a stroke is in progress.
func (c *StrokeCapture) Capturing() bool { return c.points != nil }

// Preview returns the absolute world points sampled so far, for live
// rendering. The slice is shared; callers must not mutate it.
func (c *StrokeCapture) Preview() []board.Point { return c.points }

// End completes the stroke. Strokes with fewer than two samples are
// discarded and End returns nil: a stray tap should not leave an invisible
// item on the board.
func (c *StrokeCapture) End() *StrokeResult {
	pts := c.points
	c.points = nil
	if len(pts) < 2 {
		return nil
	}

	bounds := board.BoundsOf(pts)
	rel := make([]board.Point, len(pts))
	for i, p := range pts {
		rel[i] = board.Point{X: p.X - bounds.X, Y: p.Y - bounds.Y}
	}
	return &StrokeResult{
		X:      bounds.X,
		Y:      bounds.Y,
		Width:  bounds.W,
		Height: bounds.H,
		Points: rel,
	}
}

// Cancel discards the stroke. Safe to call when idle.
func (c *StrokeCapture) Cancel() { c.points = nil }
