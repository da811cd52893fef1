// Package config holds the viewer's tunables and loads them from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// Config holds renderer and viewer settings. Zero values are not valid;
// start from Default.
type Config struct {
	FOV            float64 `toml:"fov"` // Vertical field of view in degrees
	Near           float64 `toml:"near"`
	Far            float64 `toml:"far"`
	FPS            int     `toml:"fps"`
	Background     string  `toml:"background"` // "R,G,B"
	Workers        int     `toml:"workers"`    // Row bands; 0 means GOMAXPROCS
	SSAA           int     `toml:"ssaa"`       // Snapshot supersampling factor
	TextureFilter  string  `toml:"texture_filter"`
	LogLevel       string  `toml:"log_level"`
	OrbitFrequency float64 `toml:"orbit_frequency"`
	OrbitDamping   float64 `toml:"orbit_damping"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FOV:            45,
		Near:           0.1,
		Far:            100,
		FPS:            60,
		Background:     "30,30,40",
		Workers:        0,
		SSAA:           1,
		TextureFilter:  "bilinear",
		LogLevel:       "info",
		OrbitFrequency: 4.0,
		OrbitDamping:   1.0,
	}
}

// Load overlays the TOML file at path on Default. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, len(strict.Errors))
			for i, e := range strict.Errors {
				keys[i] = strings.Join(e.Key(), ".")
			}
			return cfg, fmt.Errorf("decode config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	switch {
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("fov %g: must be in (0, 180)", c.FOV)
	case c.Near <= 0:
		return fmt.Errorf("near %g: must be positive", c.Near)
	case c.Far <= c.Near:
		return fmt.Errorf("far %g: must exceed near %g", c.Far, c.Near)
	case c.FPS <= 0:
		return fmt.Errorf("fps %d: must be positive", c.FPS)
	case c.Workers < 0:
		return fmt.Errorf("workers %d: must not be negative", c.Workers)
	case c.SSAA < 1:
		return fmt.Errorf("ssaa %d: must be at least 1", c.SSAA)
	case c.OrbitFrequency <= 0:
		return fmt.Errorf("orbit_frequency %g: must be positive", c.OrbitFrequency)
	case c.OrbitDamping < 0:
		return fmt.Errorf("orbit_damping %g: must not be negative", c.OrbitDamping)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	if _, err := c.Filter(); err != nil {
		return err
	}
	return nil
}

// BackgroundColor parses Background.
func (c Config) BackgroundColor() (render.Color, error) {
	bg, err := render.ParseRGB(c.Background)
	if err != nil {
		return bg, fmt.Errorf("background: %w", err)
	}
	return bg, nil
}

// Filter parses TextureFilter.
func (c Config) Filter() (render.FilterMode, error) {
	m, err := render.ParseFilterMode(c.TextureFilter)
	if err != nil {
		return m, fmt.Errorf("texture_filter: %w", err)
	}
	return m, nil
}

// ApplyCamera sets the projection parameters on cam.
func (c Config) ApplyCamera(cam *render.Camera) {
	cam.SetFOV(math3d.DegToRad(c.FOV))
	cam.SetClipPlanes(c.Near, c.Far)
}
