package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"tabula/pkg/board"
)

// RenderPNG rasterizes a snapshot. The image covers the board's padded
// content bounds at Scale pixels per world unit factor.
func RenderPNG(snap board.Snapshot, opts Options) ([]byte, error) {
	sc, err := buildScene(snap, opts)
	if err != nil {
		return nil, err
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 2.0
	}
	w := int(sc.bounds.W * scale)
	h := int(sc.bounds.H * scale)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("degenerate image size %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(orDefault(opts.Background, "#ffffff"))
	dc.Clear()

	// World coordinates map straight onto the context from here on.
	dc.Scale(scale, scale)
	dc.Translate(-sc.bounds.X, -sc.bounds.Y)

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	p := pngPainter{dc: dc, sc: sc, ttf: ttf}
	for _, it := range sc.items {
		p.paint(it)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type pngPainter struct {
	dc       *gg.Context
	sc       scene
	ttf      *truetype.Font
	faceSize float64
}

// setFace installs a font face of the given size, skipping the rebuild when
// the size hasn't changed.
func (p *pngPainter) setFace(size float64) {
	if p.faceSize == size {
		return
	}
	p.faceSize = size
	p.dc.SetFontFace(truetype.NewFace(p.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}))
}

func (p *pngPainter) paint(it *board.Item) {
	switch it.Type {
	case board.TypeFrame:
		p.paintFrame(it)
	case board.TypeStickyNote:
		p.dc.SetHexColor(orDefault(it.Style.Fill, defaultStickyFill))
		p.dc.DrawRoundedRectangle(it.X, it.Y, it.Width, it.Height, 6)
		p.dc.Fill()
		p.paintContent(it)
	case board.TypeShape:
		p.paintShape(it)
	case board.TypeText:
		p.paintContent(it)
	case board.TypeLine, board.TypeConnector:
		p.paintConnector(it)
	case board.TypeFreehand:
		p.paintFreehand(it)
	}
}

func (p *pngPainter) paintFrame(it *board.Item) {
	p.dc.SetHexColor(orDefault(it.Style.Stroke, defaultFrameStroke))
	p.dc.SetLineWidth(orDefaultF(it.Style.StrokeWidth, 1))
	p.dc.DrawRectangle(it.X, it.Y, it.Width, it.Height)
	p.dc.Stroke()
	if it.Content != "" {
		p.setFace(12)
		p.dc.DrawString(it.Content, it.X+4, it.Y-6)
	}
}

func (p *pngPainter) paintShape(it *board.Item) {
	p.dc.SetHexColor(orDefault(it.Style.Fill, defaultShapeFill))
	switch it.Style.Shape {
	case "ellipse":
		p.dc.DrawEllipse(it.X+it.Width/2, it.Y+it.Height/2, it.Width/2, it.Height/2)
	case "diamond":
		cx, cy := it.X+it.Width/2, it.Y+it.Height/2
		p.dc.MoveTo(cx, it.Y)
		p.dc.LineTo(it.X+it.Width, cy)
		p.dc.LineTo(cx, it.Y+it.Height)
		p.dc.LineTo(it.X, cy)
		p.dc.ClosePath()
	default:
		p.dc.DrawRectangle(it.X, it.Y, it.Width, it.Height)
	}
	p.dc.FillPreserve()
	p.dc.SetHexColor(orDefault(it.Style.Stroke, defaultStroke))
	p.dc.SetLineWidth(orDefaultF(it.Style.StrokeWidth, 1.5))
	p.dc.Stroke()
	p.paintContent(it)
}

func (p *pngPainter) paintConnector(it *board.Item) {
	x1, y1 := it.X, it.Y+it.Height/2
	x2, y2 := it.X+it.Width, it.Y+it.Height/2
	if it.Type == board.TypeConnector {
		x1, y1 = p.sc.anchor(it.Style.FromID, x1, y1)
		x2, y2 = p.sc.anchor(it.Style.ToID, x2, y2)
	}

	p.dc.SetHexColor(orDefault(it.Style.Stroke, defaultStroke))
	p.dc.SetLineWidth(orDefaultF(it.Style.StrokeWidth, 2))
	p.dc.DrawLine(x1, y1, x2, y2)
	p.dc.Stroke()

	if it.Style.Arrow {
		p.paintArrowhead(x1, y1, x2, y2)
	}
}

// paintArrowhead fills a triangle at the line's destination end.
func (p *pngPainter) paintArrowhead(x1, y1, x2, y2 float64) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx, dy = dx/length, dy/length

	const size = 8.0
	p.dc.MoveTo(x2, y2)
	p.dc.LineTo(x2-size*dx+size*dy*0.5, y2-size*dy-size*dx*0.5)
	p.dc.LineTo(x2-size*dx-size*dy*0.5, y2-size*dy+size*dx*0.5)
	p.dc.ClosePath()
	p.dc.Fill()
}

func (p *pngPainter) paintFreehand(it *board.Item) {
	if len(it.Style.Points) < 2 {
		return
	}
	p.dc.SetHexColor(orDefault(it.Style.Stroke, defaultTextColor))
	p.dc.SetLineWidth(orDefaultF(it.Style.StrokeWidth, 2))
	p.dc.SetLineCapRound()
	p.dc.SetLineJoinRound()
	for i, pt := range it.Style.Points {
		if i == 0 {
			p.dc.MoveTo(it.X+pt.X, it.Y+pt.Y)
			continue
		}
		p.dc.LineTo(it.X+pt.X, it.Y+pt.Y)
	}
	p.dc.Stroke()
}

func (p *pngPainter) paintContent(it *board.Item) {
	if it.Content == "" {
		return
	}
	size := orDefaultF(it.Style.FontSize, defaultFontSize)
	p.setFace(size)
	p.dc.SetHexColor(defaultTextColor)
	for i, line := range wrapText(it.Content, it.Width, size) {
		y := it.Y + size + float64(i)*size*1.3
		if y > it.Y+it.Height && it.Height > 0 {
			break
		}
		p.dc.DrawString(line, it.X+6, y)
	}
}
