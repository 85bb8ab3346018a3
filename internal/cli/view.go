package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tabula/pkg/board"
	"tabula/pkg/canvas"
)

// The canvas is painted onto a rune grid: one terminal cell is one screen
// pixel for the engine, so pointer coordinates map 1:1 onto cells.

// Cell paint classes, mapped to lipgloss styles when the grid is rendered.
const (
	cellEmpty uint8 = iota
	cellFrame
	cellSticky
	cellShape
	cellText
	cellLine
	cellFreehand
	cellSelected
	cellHandle
	cellEditor
)

var cellStyles = map[uint8]lipgloss.Style{
	cellFrame:    lipgloss.NewStyle().Foreground(colorGray),
	cellSticky:   lipgloss.NewStyle().Foreground(lipgloss.Color("227")),
	cellShape:    lipgloss.NewStyle().Foreground(colorBlue),
	cellText:     lipgloss.NewStyle().Foreground(colorWhite),
	cellLine:     lipgloss.NewStyle().Foreground(colorGray),
	cellFreehand: lipgloss.NewStyle().Foreground(colorCyan),
	cellSelected: lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	cellHandle:   lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	cellEditor:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorYellow),
}

// Border runes for boxes.
const (
	runeH  = '─'
	runeV  = '│'
	runeTL = '┌'
	runeTR = '┐'
	runeBL = '└'
	runeBR = '┘'
)

// cellGrid is a w×h rune grid with a paint class per cell.
type cellGrid struct {
	w, h  int
	runes []rune
	class []uint8
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h, runes: make([]rune, w*h), class: make([]uint8, w*h)}
	for i := range g.runes {
		g.runes[i] = ' '
	}
	return g
}

func (g *cellGrid) set(x, y int, r rune, cls uint8) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	i := y*g.w + x
	g.runes[i] = r
	g.class[i] = cls
}

// text writes a string starting at (x, y), clipped to maxX.
func (g *cellGrid) text(x, y int, s string, cls uint8, maxX int) {
	for _, r := range s {
		if x >= maxX {
			return
		}
		g.set(x, y, r, cls)
		x++
	}
}

// box draws a bordered rectangle. Interior cells are left untouched, so
// overlapping items stay readable.
func (g *cellGrid) box(x0, y0, x1, y1 int, cls uint8) {
	if x1 < x0 || y1 < y0 {
		return
	}
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, runeH, cls)
		g.set(x, y1, runeH, cls)
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, runeV, cls)
		g.set(x1, y, runeV, cls)
	}
	g.set(x0, y0, runeTL, cls)
	g.set(x1, y0, runeTR, cls)
	g.set(x0, y1, runeBL, cls)
	g.set(x1, y1, runeBR, cls)
}

// line draws a rough line between two cells.
func (g *cellGrid) line(x0, y0, x1, y1 int, cls uint8, arrow bool) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		g.set(x0, y0, '·', cls)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		r := runeH
		if abs(dy) > abs(dx) {
			r = runeV
		}
		g.set(x, y, r, cls)
	}
	if arrow {
		r := '>'
		switch {
		case abs(dy) > abs(dx) && dy > 0:
			r = 'v'
		case abs(dy) > abs(dx):
			r = '^'
		case dx < 0:
			r = '<'
		}
		g.set(x1, y1, r, cls)
	}
}

// render flushes the grid to a string, styling runs of equal class together
// to keep the ANSI overhead down.
func (g *cellGrid) render() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		row := y * g.w
		x := 0
		for x < g.w {
			cls := g.class[row+x]
			start := x
			for x < g.w && g.class[row+x] == cls {
				x++
			}
			run := string(g.runes[row+start : row+x])
			if cls == cellEmpty {
				b.WriteString(run)
			} else {
				b.WriteString(cellStyles[cls].Render(run))
			}
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// paintBoard draws the render list onto a fresh grid. Items arrive in paint
// order, so later items draw over earlier ones.
func paintBoard(items []*board.Item, vp canvas.Viewport, w, h int, selectedID string) *cellGrid {
	g := newCellGrid(w, h)
	for _, it := range items {
		paintItem(g, it, vp, it.ID == selectedID)
	}
	return g
}

func paintItem(g *cellGrid, it *board.Item, vp canvas.Viewport, selected bool) {
	sr := vp.WorldRectToScreen(it.Bounds())
	x0, y0 := cellOf(sr.X), cellOf(sr.Y)
	x1, y1 := cellOf(sr.Right()), cellOf(sr.Bottom())

	cls := classOf(it.Type)
	if selected {
		cls = cellSelected
	}

	switch it.Type {
	case board.TypeFrame:
		g.box(x0, y0, x1, y1, cls)
		if it.Content != "" {
			g.text(x0+2, y0, " "+it.Content+" ", cls, x1-1)
		}
	case board.TypeStickyNote, board.TypeShape:
		g.box(x0, y0, x1, y1, cls)
		paintContent(g, it.Content, x0, y0, x1, y1, cls)
	case board.TypeText:
		paintContent(g, it.Content, x0-1, y0-1, x1+1, y1+1, cls)
	case board.TypeLine, board.TypeConnector:
		midY := (y0 + y1) / 2
		g.line(x0, midY, x1, midY, cls, it.Style.Arrow)
	case board.TypeFreehand:
		for _, p := range it.Style.Points {
			sx, sy := vp.WorldToScreen(it.X+p.X, it.Y+p.Y)
			g.set(cellOf(sx), cellOf(sy), '·', cls)
		}
	}

	if selected {
		g.set(x0, y0, '◆', cellHandle)
		g.set(x1, y0, '◆', cellHandle)
		g.set(x0, y1, '◆', cellHandle)
		g.set(x1, y1, '◆', cellHandle)
	}
}

// paintContent writes word-wrapped text into a box interior.
func paintContent(g *cellGrid, content string, x0, y0, x1, y1 int, cls uint8) {
	if content == "" {
		return
	}
	width := x1 - x0 - 1
	if width < 1 {
		return
	}
	y := y0 + 1
	for _, line := range wrapRunes(content, width) {
		if y >= y1 {
			return
		}
		g.text(x0+1, y, line, cls, x1)
		y++
	}
}

// paintEditor splices the inline editor draft over the item being edited.
func paintEditor(g *cellGrid, overlay board.Rect, draft string) {
	x0, y0 := cellOf(overlay.X), cellOf(overlay.Y)
	x1 := cellOf(overlay.Right())
	y := y0 + 1
	if overlay.H < 2 {
		y = y0
	}
	width := x1 - x0 - 1
	if width < 1 {
		width = 1
		x1 = x0 + 2
	}

	lines := wrapRunes(draft, width)
	if len(lines) == 0 {
		lines = []string{""}
	}
	for i, line := range lines {
		pad := line + strings.Repeat(" ", max(0, width-len([]rune(line))))
		if i == len(lines)-1 {
			pad = line + "▌" + strings.Repeat(" ", max(0, width-len([]rune(line))-1))
		}
		g.text(x0+1, y+i, pad, cellEditor, x1)
	}
}

// wrapRunes breaks text into lines of at most width runes, on word
// boundaries where possible.
func wrapRunes(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
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

func classOf(t board.ItemType) uint8 {
	switch t {
	case board.TypeFrame:
		return cellFrame
	case board.TypeStickyNote:
		return cellSticky
	case board.TypeShape:
		return cellShape
	case board.TypeText:
		return cellText
	case board.TypeLine, board.TypeConnector:
		return cellLine
	case board.TypeFreehand:
		return cellFreehand
	}
	return cellText
}

func cellOf(v float64) int { return int(math.Round(v)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
