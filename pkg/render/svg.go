package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"tabula/pkg/board"
)

// Fallbacks for items whose style omits a color.
const (
	defaultStickyFill  = "#fff59d"
	defaultShapeFill   = "#bbdefb"
	defaultStroke      = "#424242"
	defaultFrameStroke = "#9e9e9e"
	defaultFontSize    = 14.0
	defaultTextColor   = "#1a1a2e"
)

// arrowMarkerDef is emitted once and referenced by every connector with an
// arrowhead.
const arrowMarkerDef = `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>
    </marker>
  </defs>
`

// RenderSVG draws a snapshot as a self-contained SVG document.
func RenderSVG(snap board.Snapshot, opts Options) ([]byte, error) {
	sc, err := buildScene(snap, opts)
	if err != nil {
		return nil, err
	}

	bg := opts.Background
	if bg == "" {
		bg = "#ffffff"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		sc.bounds.X, sc.bounds.Y, sc.bounds.W, sc.bounds.H, sc.bounds.W, sc.bounds.H)
	fmt.Fprintf(&buf, arrowMarkerDef, defaultStroke)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		sc.bounds.X, sc.bounds.Y, sc.bounds.W, sc.bounds.H, bg)

	for _, it := range sc.items {
		renderItemSVG(&buf, sc, it)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderItemSVG(buf *bytes.Buffer, sc scene, it *board.Item) {
	switch it.Type {
	case board.TypeFrame:
		renderFrameSVG(buf, it)
	case board.TypeStickyNote:
		renderStickySVG(buf, it)
	case board.TypeShape:
		renderShapeSVG(buf, it)
	case board.TypeText:
		renderTextSVG(buf, it)
	case board.TypeLine, board.TypeConnector:
		renderConnectorSVG(buf, sc, it)
	case board.TypeFreehand:
		renderFreehandSVG(buf, it)
	}
}

func renderFrameSVG(buf *bytes.Buffer, it *board.Item) {
	stroke := orDefault(it.Style.Stroke, defaultFrameStroke)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="%.1f"/>`+"\n",
		it.X, it.Y, it.Width, it.Height, stroke, orDefaultF(it.Style.StrokeWidth, 1))
	if it.Content != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="12" fill="%s">%s</text>`+"\n",
			it.X+4, it.Y-6, stroke, html.EscapeString(it.Content))
	}
}

func renderStickySVG(buf *bytes.Buffer, it *board.Item) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s"/>`+"\n",
		it.X, it.Y, it.Width, it.Height, orDefault(it.Style.Fill, defaultStickyFill))
	renderContentLines(buf, it)
}

func renderShapeSVG(buf *bytes.Buffer, it *board.Item) {
	fill := orDefault(it.Style.Fill, defaultShapeFill)
	stroke := orDefault(it.Style.Stroke, defaultStroke)
	sw := orDefaultF(it.Style.StrokeWidth, 1.5)

	switch it.Style.Shape {
	case "ellipse":
		fmt.Fprintf(buf, `  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			it.X+it.Width/2, it.Y+it.Height/2, it.Width/2, it.Height/2, fill, stroke, sw)
	case "diamond":
		cx, cy := it.X+it.Width/2, it.Y+it.Height/2
		fmt.Fprintf(buf, `  <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			cx, it.Y, it.X+it.Width, cy, cx, it.Y+it.Height, it.X, cy, fill, stroke, sw)
	default:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			it.X, it.Y, it.Width, it.Height, fill, stroke, sw)
	}
	renderContentLines(buf, it)
}

func renderTextSVG(buf *bytes.Buffer, it *board.Item) {
	renderContentLines(buf, it)
}

func renderConnectorSVG(buf *bytes.Buffer, sc scene, it *board.Item) {
	// A detached line spans its own bounds; a connector with resolved
	// endpoints snaps to the referenced items' centers instead.
	x1, y1 := it.X, it.Y+it.Height/2
	x2, y2 := it.X+it.Width, it.Y+it.Height/2
	if it.Type == board.TypeConnector {
		x1, y1 = sc.anchor(it.Style.FromID, x1, y1)
		x2, y2 = sc.anchor(it.Style.ToID, x2, y2)
	}

	marker := ""
	if it.Style.Arrow {
		marker = ` marker-end="url(#arrow)"`
	}
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		x1, y1, x2, y2, orDefault(it.Style.Stroke, defaultStroke), orDefaultF(it.Style.StrokeWidth, 2), marker)
}

func renderFreehandSVG(buf *bytes.Buffer, it *board.Item) {
	if len(it.Style.Points) < 2 {
		return
	}
	var path strings.Builder
	for i, p := range it.Style.Points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%.1f %.1f ", cmd, it.X+p.X, it.Y+p.Y)
	}
	fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		strings.TrimSpace(path.String()), orDefault(it.Style.Stroke, defaultTextColor), orDefaultF(it.Style.StrokeWidth, 2))
}

// renderContentLines emits an item's text, wrapped to the item width.
func renderContentLines(buf *bytes.Buffer, it *board.Item) {
	if it.Content == "" {
		return
	}
	size := orDefaultF(it.Style.FontSize, defaultFontSize)
	lines := wrapText(it.Content, it.Width, size)
	for i, line := range lines {
		y := it.Y + size + float64(i)*size*1.3
		if y > it.Y+it.Height && it.Height > 0 {
			break
		}
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" font-family="sans-serif" fill="%s">%s</text>`+"\n",
			it.X+6, y, size, defaultTextColor, html.EscapeString(line))
	}
}

// wrapText breaks text into lines fitting the given width, assuming the
// usual ~0.55em average glyph advance. Good enough for sticky notes; exact
// metrics would need the font, which SVG leaves to the viewer anyway.
func wrapText(text string, width, fontSize float64) []string {
	maxChars := int(width / (fontSize * 0.55))
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > maxChars {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultF(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
