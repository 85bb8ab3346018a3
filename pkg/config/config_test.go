package config

import (
	"os"
	"path/filepath"
	"testing"

	"tabula/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.MinZoom != Default().Canvas.MinZoom {
		t.Errorf("MinZoom = %g, want default %g", cfg.Canvas.MinZoom, Default().Canvas.MinZoom)
	}
	if cfg.Server.Addr != "localhost:8418" {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[canvas]
max_zoom = 8.0

[store]
dsn = "memory:"

[server]
addr = ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.MaxZoom != 8.0 {
		t.Errorf("MaxZoom = %g, want 8.0", cfg.Canvas.MaxZoom)
	}
	if cfg.Canvas.MinZoom != Default().Canvas.MinZoom {
		t.Errorf("MinZoom = %g, want untouched default", cfg.Canvas.MinZoom)
	}
	if cfg.Store.DSN != "memory:" {
		t.Errorf("DSN = %q, want memory:", cfg.Store.DSN)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[canvas]
min_zooom = 0.5
`)
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Load = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero min zoom", func(c *Config) { c.Canvas.MinZoom = 0 }, true},
		{"max below min", func(c *Config) { c.Canvas.MaxZoom = c.Canvas.MinZoom / 2 }, true},
		{"zero min item size", func(c *Config) { c.Canvas.MinItemSize = 0 }, true},
		{"negative drag threshold", func(c *Config) { c.Canvas.DragThreshold = -1 }, true},
		{"zero png scale", func(c *Config) { c.Export.PNGScale = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLimitsMapping(t *testing.T) {
	cfg := Default()
	cfg.Canvas.DragThreshold = 7
	lim := cfg.Limits()
	if lim.DragThreshold != 7 {
		t.Errorf("DragThreshold = %g, want 7", lim.DragThreshold)
	}
	if lim.MinZoom != cfg.Canvas.MinZoom || lim.MaxZoom != cfg.Canvas.MaxZoom {
		t.Error("zoom limits not mapped")
	}
}
