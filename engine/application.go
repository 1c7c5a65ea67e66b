package engine

import (
	"errors"
	"fmt"
	gomath "math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

// DefaultConfigFile is read from the working directory when no path is given.
const DefaultConfigFile = "planogram.toml"

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Number of perimeter points of the generated polygon.
	Sides uint32 `toml:"sides"`
	// "color" or "textured".
	Variant string `toml:"variant"`
	// Texture for the textured variant, relative to AssetsDir.
	TexturePath string `toml:"texture_path"`
	AssetsDir   string `toml:"assets_dir"`
	LogLevel    string `toml:"log_level"`
	// Enables the Vulkan validation layers.
	Debug bool `toml:"debug"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  800,
		StartHeight: 600,
		Name:        "Planogram",
		Sides:       6,
		Variant:     metadata.VertexKindColor.String(),
		TexturePath: "textures/polygon.png",
		AssetsDir:   "assets",
		LogLevel:    "info",
	}
}

// LoadApplicationConfig overlays the TOML file at path on top of base. An
// empty path means DefaultConfigFile. A missing file leaves base untouched;
// unknown keys are rejected.
func LoadApplicationConfig(path string, base *ApplicationConfig) (*ApplicationConfig, error) {
	if base == nil {
		base = DefaultApplicationConfig()
	}
	cfg := *base
	if path == "" {
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			core.LogDebug("no config file at %s, using defaults", path)
			return &cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	core.LogInfo("loaded config from %s", path)
	return &cfg, nil
}

func (c *ApplicationConfig) VertexKind() (metadata.VertexKind, error) {
	return metadata.ParseVertexKind(c.Variant)
}

func (c *ApplicationConfig) Level() (core.LogLevel, error) {
	return core.ParseLogLevel(c.LogLevel)
}

// Validate rejects configurations that cannot produce a window or a polygon.
func (c *ApplicationConfig) Validate() error {
	if c.Sides < 3 || c.Sides > gomath.MaxUint16 {
		return fmt.Errorf("sides = %d: %w", c.Sides, core.ErrInvalidSides)
	}
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("start size %dx%d: %w", c.StartWidth, c.StartHeight, core.ErrZeroSize)
	}
	if _, err := c.VertexKind(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return nil
}
