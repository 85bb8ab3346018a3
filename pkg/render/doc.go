// Package render turns board snapshots into export artifacts.
//
// Four formats are supported:
//   - SVG: the whole board drawn in paint order, self-contained
//   - PNG: the same scene rasterized via fogleman/gg
//   - DOT: the connector graph as Graphviz DOT (optionally rendered to SVG)
//   - JSON: the schema-versioned snapshot itself
//
// All renderers are deterministic: the same snapshot and options produce
// identical bytes, which is what makes artifact caching by content hash
// sound (see pkg/cache).
//
// Items are drawn in the same paint order the canvas uses: frames first,
// then free-floating items, then items nested inside frames, each band
// sorted by stacking index. Soft-deleted items never render.
package render
