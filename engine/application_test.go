package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planogram.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadApplicationConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
name = "Octagon"
sides = 8
variant = "textured"
start_width = 1280
log_level = "debug"
debug = true
`)
	cfg, err := LoadApplicationConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadApplicationConfig failed: %v", err)
	}
	if cfg.Name != "Octagon" || cfg.Sides != 8 || cfg.StartWidth != 1280 || !cfg.Debug {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.StartHeight != 600 || cfg.AssetsDir != "assets" || cfg.StartPosX != 100 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if kind, err := cfg.VertexKind(); err != nil || kind != metadata.VertexKindTextured {
		t.Errorf("VertexKind() = %v, %v; want %v", kind, err, metadata.VertexKindTextured)
	}
	if level, err := cfg.Level(); err != nil || level != core.DebugLevel {
		t.Errorf("Level() = %v, %v; want %v", level, err, core.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadApplicationConfig_MissingFile(t *testing.T) {
	base := DefaultApplicationConfig()
	base.Name = "from testbed"

	cfg, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "absent.toml"), base)
	if err != nil {
		t.Fatalf("LoadApplicationConfig failed: %v", err)
	}
	if *cfg != *base {
		t.Errorf("cfg = %+v, want %+v", cfg, base)
	}
	if cfg == base {
		t.Errorf("base was returned instead of a copy")
	}
}

func TestLoadApplicationConfig_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key": `colour = "red"`,
		"bad type":    `sides = "six"`,
		"bad syntax":  `sides = `,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadApplicationConfig(writeConfig(t, body), nil); err == nil {
				t.Errorf("expected an error for %q", body)
			}
		})
	}
}

func TestApplicationConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *ApplicationConfig)
		want   error
	}{
		{"defaults", func(c *ApplicationConfig) {}, nil},
		{"two sides", func(c *ApplicationConfig) { c.Sides = 2 }, core.ErrInvalidSides},
		{"max sides", func(c *ApplicationConfig) { c.Sides = 65535 }, nil},
		{"index overflow", func(c *ApplicationConfig) { c.Sides = 70000 }, core.ErrInvalidSides},
		{"zero width", func(c *ApplicationConfig) { c.StartWidth = 0 }, core.ErrZeroSize},
		{"unknown variant", func(c *ApplicationConfig) { c.Variant = "wireframe" }, core.ErrUnknownVertexKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultApplicationConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	cfg := DefaultApplicationConfig()
	cfg.LogLevel = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate() accepted log level %q", cfg.LogLevel)
	}
}
