package overlay

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the defaults a Canvas applies to the entities it creates.
type Config struct {
	Entity      EntityConfig      `yaml:"entity"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Render      RenderConfig      `yaml:"render"`
}

// EntityConfig holds default styling and size for new entities.
type EntityConfig struct {
	BorderStyle       BorderStyle `yaml:"border_style"`
	BorderStrokeWidth float64     `yaml:"border_stroke_width"`
	BorderColor       Color       `yaml:"border_color"`
	StrokeWidth       float64     `yaml:"stroke_width"`
	StrokeColor       Color       `yaml:"stroke_color"`
	ShapeWidth        float64     `yaml:"shape_width"`  // 0 = canvas width
	ShapeHeight       float64     `yaml:"shape_height"` // 0 = canvas height
}

// MeasurementConfig holds measurement-tool policy.
type MeasurementConfig struct {
	MaxPoints     int       `yaml:"max_points"` // 0 = unlimited
	HitPolicy     HitPolicy `yaml:"hit_policy"`
	PathTolerance float64   `yaml:"path_tolerance"`
}

// RenderConfig holds stroke-building parameters.
type RenderConfig struct {
	DashLength       float64 `yaml:"dash_length"`
	MarkerRadius     float64 `yaml:"marker_radius"`
	MarkerRingRadius float64 `yaml:"marker_ring_radius"`
	MarkerRingWidth  float64 `yaml:"marker_ring_width"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("overlay: parsing embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig overlays YAML data on the embedded defaults. Only fields present
// in data are overwritten.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("overlay: parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML file and overlays it on the embedded defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("overlay: reading config file: %w", err)
	}
	return LoadConfig(data)
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if err := c.Style().validate(); err != nil {
		return err
	}
	if !finite(c.Entity.ShapeWidth, c.Entity.ShapeHeight) || c.Entity.ShapeWidth < 0 || c.Entity.ShapeHeight < 0 {
		return fmt.Errorf("overlay: config shape size %vx%v: %w", c.Entity.ShapeWidth, c.Entity.ShapeHeight, ErrInvalidSize)
	}
	if c.Measurement.MaxPoints < 0 {
		return fmt.Errorf("overlay: config max_points %d must not be negative", c.Measurement.MaxPoints)
	}
	if c.Measurement.HitPolicy > HitBoundsOrPath {
		return fmt.Errorf("overlay: config hit policy %d out of range", c.Measurement.HitPolicy)
	}
	r := c.Render
	if !finite(c.Measurement.PathTolerance, r.DashLength, r.MarkerRadius, r.MarkerRingRadius, r.MarkerRingWidth) ||
		c.Measurement.PathTolerance < 0 || r.DashLength < 0 || r.MarkerRadius < 0 ||
		r.MarkerRingRadius < 0 || r.MarkerRingWidth < 0 {
		return fmt.Errorf("overlay: config render values: %w", ErrInvalidStyle)
	}
	return nil
}

// Style returns the entity style described by the config.
func (c Config) Style() EntityStyle {
	return EntityStyle{
		BorderStyle:       c.Entity.BorderStyle,
		BorderStrokeWidth: c.Entity.BorderStrokeWidth,
		BorderColor:       c.Entity.BorderColor,
		StrokeWidth:       c.Entity.StrokeWidth,
		StrokeColor:       c.Entity.StrokeColor,
	}
}

// WriteYAML writes the config to path.
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("overlay: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("overlay: writing config file: %w", err)
	}
	return nil
}
