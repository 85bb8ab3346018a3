// Package config loads the tabula configuration file.
//
// Configuration lives at ~/.config/tabula/config.toml (or under
// $XDG_CONFIG_HOME) and is entirely optional: every field has a default and
// a missing file yields the default configuration. Unknown keys are
// rejected so a typo like "min_zooom" fails loudly instead of silently
// using the default.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"tabula/pkg/canvas"
	"tabula/pkg/errors"
)

// appName is the directory name under the config and cache homes.
const appName = "tabula"

// Config is the full application configuration.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Export ExportConfig `toml:"export"`
}

// CanvasConfig tunes the interaction engine.
type CanvasConfig struct {
	MinZoom       float64 `toml:"min_zoom"`
	MaxZoom       float64 `toml:"max_zoom"`
	MinItemSize   float64 `toml:"min_item_size"`
	CullMargin    float64 `toml:"cull_margin"`
	DragThreshold float64 `toml:"drag_threshold"`
	HandleSlop    float64 `toml:"handle_slop"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// DSN selects the backend: memory:, file:DIR, sqlite:PATH, redis://,
	// mongodb://, or http(s):// for a remote board server.
	DSN string `toml:"dsn"`
}

// ServerConfig configures the board server.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// ExportConfig configures board exports.
type ExportConfig struct {
	Format   string  `toml:"format"`
	PNGScale float64 `toml:"png_scale"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	lim := canvas.DefaultLimits()
	return Config{
		Canvas: CanvasConfig{
			MinZoom:       lim.MinZoom,
			MaxZoom:       lim.MaxZoom,
			MinItemSize:   lim.MinItemSize,
			CullMargin:    lim.CullMargin,
			DragThreshold: lim.DragThreshold,
			HandleSlop:    lim.HandleSlop,
		},
		Store:  StoreConfig{DSN: "file:" + defaultBoardsDir()},
		Server: ServerConfig{Addr: "localhost:8418", Metrics: true},
		Export: ExportConfig{Format: "svg", PNGScale: 2.0},
	}
}

// Load reads the configuration at path, or the default location when path is
// empty. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Default(), nil
		}
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot work with.
func (c Config) Validate() error {
	if c.Canvas.MinZoom <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.min_zoom must be positive, got %g", c.Canvas.MinZoom)
	}
	if c.Canvas.MaxZoom < c.Canvas.MinZoom {
		return errors.New(errors.ErrCodeInvalidConfig,
			"canvas.max_zoom (%g) must be at least canvas.min_zoom (%g)", c.Canvas.MaxZoom, c.Canvas.MinZoom)
	}
	if c.Canvas.MinItemSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.min_item_size must be positive, got %g", c.Canvas.MinItemSize)
	}
	if c.Canvas.DragThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.drag_threshold must not be negative, got %g", c.Canvas.DragThreshold)
	}
	if c.Export.PNGScale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "export.png_scale must be positive, got %g", c.Export.PNGScale)
	}
	return nil
}

// Limits converts the canvas section into engine limits.
func (c Config) Limits() canvas.Limits {
	return canvas.Limits{
		MinZoom:       c.Canvas.MinZoom,
		MaxZoom:       c.Canvas.MaxZoom,
		MinItemSize:   c.Canvas.MinItemSize,
		CullMargin:    c.Canvas.CullMargin,
		DragThreshold: c.Canvas.DragThreshold,
		HandleSlop:    c.Canvas.HandleSlop,
	}
}

// DefaultPath returns the default config file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// defaultBoardsDir is where the file store keeps boards when nothing is
// configured.
func defaultBoardsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "boards"
	}
	return filepath.Join(home, ".local", "share", appName, "boards")
}
