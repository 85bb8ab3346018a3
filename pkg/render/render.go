package render

import (
	"bytes"
	"fmt"

	"tabula/pkg/board"
	"tabula/pkg/canvas"
	"tabula/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// ValidateFormat checks that format names a supported output format.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat,
		"unknown format %q (supported: svg, png, dot, json)", format)
}

// Options configures rendering.
type Options struct {
	// Padding is the world-unit margin around the board's content bounds.
	Padding float64

	// Background is the canvas background fill. Empty means white.
	Background string

	// Scale multiplies PNG pixel dimensions (2.0 for high-DPI output).
	Scale float64

	// DOTDetailed includes geometry in DOT node labels.
	DOTDetailed bool
}

// DefaultOptions returns the standard render settings.
func DefaultOptions() Options {
	return Options{Padding: 40, Background: "#ffffff", Scale: 2.0}
}

// Artifact is one rendered output.
type Artifact struct {
	Format string
	Data   []byte
}

// Render produces an artifact in the given format from a snapshot.
func Render(snap board.Snapshot, format string, opts Options) (Artifact, error) {
	if err := ValidateFormat(format); err != nil {
		return Artifact{}, err
	}
	if opts.Scale <= 0 {
		opts.Scale = 2.0
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = RenderSVG(snap, opts)
	case FormatPNG:
		data, err = RenderPNG(snap, opts)
	case FormatDOT:
		data = []byte(ToDOT(snap, opts))
	case FormatJSON:
		var buf bytes.Buffer
		if err = board.WriteSnapshot(&buf, snap); err == nil {
			data = buf.Bytes()
		}
	}
	if err != nil {
		return Artifact{}, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return Artifact{Format: format, Data: data}, nil
}

// scene is the resolved drawing input shared by the SVG and PNG renderers:
// live items in paint order plus the padded world bounds enclosing them.
type scene struct {
	items  []*board.Item
	bounds board.Rect
	index  map[string]*board.Item
}

// buildScene orders a snapshot's items for painting. The canvas render list
// with an unknown screen size skips culling, which is exactly what an export
// wants: everything, in paint order.
func buildScene(snap board.Snapshot, opts Options) (scene, error) {
	doc, err := board.FromSnapshot(snap)
	if err != nil {
		return scene{}, err
	}

	items := canvas.BuildRenderList(doc, canvas.NewViewport(), 0, 0, nil, canvas.DefaultLimits())
	if len(items) == 0 {
		return scene{}, fmt.Errorf("board %s has no visible items", snap.BoardID)
	}

	bounds := items[0].Bounds()
	index := make(map[string]*board.Item, len(items))
	for _, it := range items {
		bounds = bounds.Union(it.Bounds())
		index[it.ID] = it
	}
	return scene{items: items, bounds: bounds.Expanded(opts.Padding), index: index}, nil
}

// anchor returns the point a connector endpoint attaches to: the referenced
// item's center when the reference resolves, else the fallback.
func (s scene) anchor(id string, fallbackX, fallbackY float64) (x, y float64) {
	if it, ok := s.index[id]; ok && id != "" {
		b := it.Bounds()
		return b.X + b.W/2, b.Y + b.H/2
	}
	return fallbackX, fallbackY
}
