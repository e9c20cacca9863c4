// Package config loads the server configuration from a TOML file
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"lines-drawer/internal/router"
)

// ErrInvalid is returned for configurations that fail validation
var ErrInvalid = errors.New("invalid configuration")

// Config is the server configuration
type Config struct {
	Addr            string  `toml:"addr"`
	ObstaclesDir    string  `toml:"obstacles_dir"`
	KeepObstacles   bool    `toml:"keep_obstacles"`
	SimplifyEpsilon float64 `toml:"simplify_epsilon"`
	Router          Router  `toml:"router"`
	Canvas          Canvas  `toml:"canvas"`
}

// Router holds the routing parameters
type Router struct {
	KeepDistance   float64 `toml:"keep_distance"`
	Offset         float64 `toml:"offset"`
	DetourAngleDeg float64 `toml:"detour_angle_deg"`
	Strategy       string  `toml:"strategy"`
}

// Canvas sizes the PNG snapshot
type Canvas struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	StrokeWidth float64 `toml:"stroke_width"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Addr: ":8080",
		Router: Router{
			KeepDistance:   router.DefaultKeepDistance,
			Offset:         router.DefaultOffset,
			DetourAngleDeg: 60,
			Strategy:       router.Layered.String(),
		},
		Canvas: Canvas{
			Width:       800,
			Height:      600,
			StrokeWidth: 2,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err = Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("failed to decode config at line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that have no usable fallback
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalid)
	}
	if c.SimplifyEpsilon < 0 {
		return fmt.Errorf("%w: simplify_epsilon must not be negative", ErrInvalid)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas must be at least 1x1, got %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.StrokeWidth <= 0 {
		return fmt.Errorf("%w: stroke_width must be positive", ErrInvalid)
	}
	if _, err := c.RouterOptions(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// RouterOptions converts the [router] table to router options
func (c Config) RouterOptions() (router.Options, error) {
	strategy, err := router.ParseStrategy(c.Router.Strategy)
	if err != nil {
		return router.Options{}, err
	}

	opts := router.Options{
		KeepDistance: c.Router.KeepDistance,
		Offset:       c.Router.Offset,
		DetourAngle:  c.Router.DetourAngleDeg * math.Pi / 180,
		Strategy:     strategy,
	}
	if _, err := router.New(opts); err != nil {
		return router.Options{}, err
	}
	return opts, nil
}
