package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tabula/pkg/board"
	"tabula/pkg/cache"
	"tabula/pkg/render"
	"tabula/pkg/store"
)

// formatDOTSVG is a CLI-level format: the connector graph laid out by
// Graphviz instead of the board's own geometry.
const formatDOTSVG = "dot-svg"

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output     string  // output file path; derived from board id when empty
	format     string  // svg, png, dot, dot-svg, or json
	noCache    bool    // bypass the artifact cache
	detailed   bool    // include geometry in DOT node labels
	scale      float64 // PNG pixels per world unit
	padding    float64 // world-unit margin around the content bounds
	background string  // background fill color
}

// exportCommand creates the export command rendering a board to a file.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{
		scale:      2.0,
		padding:    40,
		background: "#ffffff",
	}

	cmd := &cobra.Command{
		Use:   "export <board>",
		Short: "Export a board to SVG, PNG, DOT, or JSON",
		Long: `Export renders a board from the configured store into a file.

Formats:
  svg      vector drawing of the board in paint order
  png      raster image of the board
  dot      Graphviz DOT source of the connector graph
  dot-svg  connector graph laid out by Graphviz, as SVG
  json     schema-versioned board snapshot

Rendered artifacts are cached under ~/.cache/tabula/ keyed by the board
content and render settings; --no-cache forces a fresh render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				opts.format = cfg.Export.Format
			}
			if err := validateExportFormat(opts.format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <board>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, dot, dot-svg, json")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include item geometry in DOT labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixels per world unit")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "margin around the board content, in world units")
	cmd.Flags().StringVar(&opts.background, "background", opts.background, "background fill color")

	return cmd
}

// validateExportFormat accepts the render formats plus the dot-svg composite.
func validateExportFormat(format string) error {
	if format == formatDOTSVG {
		return nil
	}
	return render.ValidateFormat(format)
}

// runExport loads the board, renders it (or pulls the artifact from cache),
// and writes the output file.
func (c *CLI) runExport(ctx context.Context, boardID string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Loading board %s", boardID))
	spin.Start()

	st, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Open store: %v", err))
		return err
	}
	defer st.Close()

	items, err := st.ListItems(ctx, boardID)
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Load board %s: %v", boardID, err))
		return err
	}
	doc, err := board.Load(boardID, items)
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Load board %s: %v", boardID, err))
		return err
	}
	logger.Debug("board loaded", "board", boardID, "items", doc.Len())
	spin.SetMessage(fmt.Sprintf("Rendering %s", opts.format))

	snap := doc.Snapshot(time.Now())
	data, cached, err := c.renderCached(ctx, snap, opts)
	spin.Stop()
	if err != nil {
		printError("Render failed: %v", err)
		return err
	}

	path := opts.output
	if path == "" {
		path = boardID + "." + outputExt(opts.format)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Exported %s as %s", boardID, opts.format)
	printStats(doc.Len(), len(doc.Frames()), cached)
	printFile(path)
	return nil
}

// renderCached renders the snapshot, going through the artifact cache unless
// disabled. The cache key covers the snapshot bytes and every render setting.
func (c *CLI) renderCached(ctx context.Context, snap board.Snapshot, opts *exportOpts) (data []byte, cached bool, err error) {
	// Snapshots carry an export timestamp, which would bust the cache on
	// every run. Hash the items, not the envelope.
	itemsJSON, err := json.Marshal(snap.Items)
	if err != nil {
		return nil, false, err
	}

	renderOpts := render.Options{
		Padding:     opts.padding,
		Background:  opts.background,
		Scale:       opts.scale,
		DOTDetailed: opts.detailed,
	}

	keyOpts := struct {
		Format string
		Opts   render.Options
	}{opts.format, renderOpts}

	artifacts, cacheErr := newCache(opts.noCache)
	if cacheErr != nil {
		artifacts = cache.NewNullCache()
	}
	defer artifacts.Close()

	key := cache.ArtifactKey(itemsJSON, opts.format, keyOpts)
	if data, ok, _ := artifacts.Get(ctx, key); ok {
		return data, true, nil
	}

	data, err = renderArtifact(snap, opts.format, renderOpts)
	if err != nil {
		return nil, false, err
	}
	_ = artifacts.Set(ctx, key, data, 7*24*time.Hour)
	return data, false, nil
}

// renderArtifact dispatches one format, including the dot-svg composite the
// render package does not know about.
func renderArtifact(snap board.Snapshot, format string, opts render.Options) ([]byte, error) {
	if format == formatDOTSVG {
		return render.RenderDOTSVG(render.ToDOT(snap, opts))
	}
	art, err := render.Render(snap, format, opts)
	if err != nil {
		return nil, err
	}
	return art.Data, nil
}

// outputExt maps a format to its file extension.
func outputExt(format string) string {
	if format == formatDOTSVG {
		return "svg"
	}
	return strings.ToLower(format)
}
