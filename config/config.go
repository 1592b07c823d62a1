// Package config provides configuration loading and access for the
// visualization.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all visualization configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	Particles ParticlesConfig `yaml:"particles"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Data      DataConfig      `yaml:"data"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// CameraConfig holds orbital camera parameters.
type CameraConfig struct {
	FOV              float64 `yaml:"fov"`               // Vertical field of view in degrees
	MinDistance      float64 `yaml:"min_distance"`      // Closest orbit in globe radii
	MaxDistance      float64 `yaml:"max_distance"`      // Farthest orbit in globe radii
	OrbitSensitivity float64 `yaml:"orbit_sensitivity"` // Degrees of orbit per pixel dragged
	ZoomStep         float64 `yaml:"zoom_step"`         // Distance factor per wheel notch
	MoveThreshold    float64 `yaml:"move_threshold"`    // Eye displacement that counts as movement
	TargetThreshold  float64 `yaml:"target_threshold"`  // Look-target displacement that counts as movement
}

// ParticlesConfig holds tracer particle parameters.
type ParticlesConfig struct {
	Count          int     `yaml:"count"`            // Pool size
	LifetimeTicks  int     `yaml:"lifetime_ticks"`   // Ticks before recycling
	SpeedFactor    float64 `yaml:"speed_factor"`     // Degrees of travel per tick per m/s
	MaxSegmentPx   float64 `yaml:"max_segment_px"`   // Screen-space guard against date-line streaks
	LineWidth      float64 `yaml:"line_width"`       // Trail segment width in pixels
	TrailFadeAlpha int     `yaml:"trail_fade_alpha"` // Per-tick fade rectangle alpha, 0-255
	BaseAlpha      int     `yaml:"base_alpha"`       // Segment alpha before age fade, 0-255
}

// OverlayConfig holds overlay rasterization parameters.
type OverlayConfig struct {
	WindStrideDivisor int `yaml:"wind_stride_divisor"` // Coarse block size = width / divisor
	TempStrideDivisor int `yaml:"temp_stride_divisor"` // Temperature uses a finer grid
	SettleTicks       int `yaml:"settle_ticks"`        // Quiet ticks before recomputing
	Workers           int `yaml:"workers"`             // Row workers for the pass, 0 = NumCPU

	FaceTolerance float64 `yaml:"face_tolerance"` // Minimum normal-to-camera dot product
	WindAlpha     int     `yaml:"wind_alpha"`     // Overlay alpha for wind, 0-255
	TempAlpha     int     `yaml:"temp_alpha"`     // Overlay alpha for temperature, 0-255

	// Temperature artifact policy. Hand-tuned heuristics, not
	// correctness contracts.
	ArtifactDelta   float64 `yaml:"artifact_delta"`    // Neighbor delta that marks a sample suspect
	PlausibleMinC   float64 `yaml:"plausible_min_c"`   // Patch-fill candidates must exceed this
	PlausibleMaxC   float64 `yaml:"plausible_max_c"`   // Patch-fill candidates must stay below this
	PatchRadius     int     `yaml:"patch_radius"`      // Neighborhood radius in grid cells
	PatchAlphaScale float64 `yaml:"patch_alpha_scale"` // Opacity multiplier for filled samples
}

// DataConfig holds dataset discovery parameters.
type DataConfig struct {
	Dir      string `yaml:"dir"`       // Directory holding grid JSON files
	WindGlob string `yaml:"wind_glob"` // Wind file pattern inside Dir
	TempGlob string `yaml:"temp_glob"` // Temperature file pattern inside Dir
	Borders  string `yaml:"borders"`   // Optional GeoJSON border file
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int `yaml:"perf_collector_window"`
	LogEveryTicks       int `yaml:"log_every_ticks"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW    float64 // Screen.Width as float64
	ScreenH    float64 // Screen.Height as float64
	WindStride int     // Coarse overlay block size in pixels
	TempStride int     // Temperature overlay block size in pixels
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields
		// present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// Resize updates the screen dimensions and everything derived from
// them after a window resize.
func (c *Config) Resize(width, height int) {
	c.Screen.Width = width
	c.Screen.Height = height
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
	c.Derived.WindStride = strideFor(c.Screen.Width, c.Overlay.WindStrideDivisor)
	c.Derived.TempStride = strideFor(c.Screen.Width, c.Overlay.TempStrideDivisor)
}

// strideFor sizes overlay blocks proportionally to the output width
// so coverage stays constant across resolutions.
func strideFor(width, divisor int) int {
	if divisor <= 0 {
		return 1
	}
	s := (width + divisor/2) / divisor
	if s < 1 {
		s = 1
	}
	if s > 16 {
		s = 16
	}
	return s
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
