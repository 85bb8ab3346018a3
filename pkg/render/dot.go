package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"tabula/pkg/board"
)

// ToDOT converts a snapshot's connector graph to Graphviz DOT format: every
// item referenced by a connector becomes a node, every connector an edge.
// Boards without connectors yield an empty graph.
//
// This view deliberately drops geometry — it answers "what points at what"
// when the spatial layout has grown too tangled to read.
func ToDOT(snap board.Snapshot, opts Options) string {
	index := make(map[string]*board.Item, len(snap.Items))
	for i := range snap.Items {
		if !snap.Items[i].Deleted {
			index[snap.Items[i].ID] = &snap.Items[i]
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph board {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	seen := make(map[string]bool)
	emitNode := func(id string) {
		if id == "" || seen[id] {
			return
		}
		it, ok := index[id]
		if !ok {
			return
		}
		seen[id] = true
		fmt.Fprintf(&buf, "  %q [label=%q];\n", it.ID, dotLabel(it, opts.DOTDetailed))
	}

	for _, it := range index {
		if it.Type != board.TypeConnector {
			continue
		}
		emitNode(it.Style.FromID)
		emitNode(it.Style.ToID)
	}

	buf.WriteString("\n")
	for i := range snap.Items {
		it := &snap.Items[i]
		if it.Deleted || it.Type != board.TypeConnector {
			continue
		}
		if !seen[it.Style.FromID] || !seen[it.Style.ToID] {
			continue // dangling endpoint, nothing to connect
		}
		attrs := ""
		if it.Content != "" {
			attrs = fmt.Sprintf(" [label=%q]", it.Content)
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", it.Style.FromID, it.Style.ToID, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotLabel picks a node label: the item's text when it has any, else its
// type plus a short id suffix.
func dotLabel(it *board.Item, detailed bool) string {
	label := it.Content
	if label == "" {
		id := it.ID
		if len(id) > 8 {
			id = id[:8]
		}
		label = fmt.Sprintf("%s %s", it.Type, id)
	}
	if detailed {
		label += fmt.Sprintf("\n(%.0f, %.0f) %gx%g", it.X, it.Y, it.Width, it.Height)
	}
	return label
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's svg element so the viewBox starts at
// the origin and the pixel size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
