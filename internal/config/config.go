// Package config loads server settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/array-tools-mcp/internal/detection"
	"github.com/ironsheep/array-tools-mcp/internal/display"
)

// Environment variables read by Load.
const (
	EnvConfig    = "ARRAY_MCP_CONFIG"
	EnvLogLevel  = "ARRAY_MCP_LOG_LEVEL"
	EnvDisplay   = "ARRAY_MCP_DISPLAY"
	EnvOutputDir = "ARRAY_MCP_OUTPUT_DIR"
)

// Config holds all server settings.
type Config struct {
	LogLevel string   `yaml:"log_level"`
	Display  Display  `yaml:"display"`
	Defaults Defaults `yaml:"defaults"`
}

// Display selects where drawn contours are shown.
type Display struct {
	Backend   string `yaml:"backend"`    // window, png or none
	OutputDir string `yaml:"output_dir"` // png backend only
	Transpose bool   `yaml:"transpose"`  // image rows run along the array's first axis
}

// Defaults are used by tools when an argument is omitted.
type Defaults struct {
	Threshold     float64 `yaml:"threshold"`
	MinArea       float64 `yaml:"min_area"`
	GaussianSide  int     `yaml:"gaussian_side"`
	GaussianSigma float64 `yaml:"gaussian_sigma"`
	MedianSide    int     `yaml:"median_side"`
	ContourColor  string  `yaml:"contour_color"`
	Workers       int     `yaml:"workers"`

	// Adaptive thresholding neighbourhood side and deviation weight.
	AdaptiveWindow int     `yaml:"adaptive_window"`
	AdaptiveK      float64 `yaml:"adaptive_k"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Display: Display{
			Backend: display.BackendNone,
		},
		Defaults: Defaults{
			Threshold:     127,
			MinArea:       10,
			GaussianSide:  5,
			GaussianSigma: 0,
			MedianSide:    5,
			ContourColor:  "#000000",
			Workers:       4,

			AdaptiveWindow: detection.DefaultAdaptive.Window,
			AdaptiveK:      detection.DefaultAdaptive.K,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides. The result is validated.
//
// An empty path falls back to $ARRAY_MCP_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	// Fields missing from the file keep their defaults.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDisplay); v != "" {
		c.Display.Backend = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Display.OutputDir = v
	}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Validate checks the settings and returns all problems found.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "":
	default:
		errs = append(errs, fmt.Errorf("log_level: %q is not debug or info", c.LogLevel))
	}

	if _, err := display.NewBackend(c.Display.Backend, c.Display.OutputDir); err != nil {
		errs = append(errs, fmt.Errorf("display.backend: %w", err))
	}

	d := c.Defaults
	if d.MinArea < 0 {
		errs = append(errs, fmt.Errorf("defaults.min_area: must be >= 0, got %v", d.MinArea))
	}
	if d.GaussianSide < 0 || (d.GaussianSide > 0 && d.GaussianSide%2 == 0) {
		errs = append(errs, fmt.Errorf("defaults.gaussian_side: must be odd or 0, got %d", d.GaussianSide))
	}
	if d.GaussianSide == 0 && d.GaussianSigma <= 0 {
		errs = append(errs, errors.New("defaults.gaussian_sigma: must be > 0 when gaussian_side is 0"))
	}
	if d.MedianSide < 1 || d.MedianSide%2 == 0 {
		errs = append(errs, fmt.Errorf("defaults.median_side: must be odd and positive, got %d", d.MedianSide))
	}
	if _, err := detection.ParseColor(d.ContourColor); err != nil {
		errs = append(errs, fmt.Errorf("defaults.contour_color: %w", err))
	}
	if d.Workers < 1 {
		errs = append(errs, fmt.Errorf("defaults.workers: must be >= 1, got %d", d.Workers))
	}
	if err := c.Adaptive().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults.adaptive_window/adaptive_k: %w", err))
	}

	return errors.Join(errs...)
}

// NewBackend returns the display backend the configuration selects.
func (c *Config) NewBackend() (display.Backend, error) {
	return display.NewBackend(c.Display.Backend, c.Display.OutputDir)
}

// Adaptive returns the configured adaptive threshold parameters.
func (c *Config) Adaptive() detection.Adaptive {
	return detection.Adaptive{Window: c.Defaults.AdaptiveWindow, K: c.Defaults.AdaptiveK}
}

// Adapter returns the display adapter for the configured layout.
func (c *Config) Adapter() display.Adapter {
	return display.Adapter{Transpose: c.Display.Transpose}
}
