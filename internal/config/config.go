package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/subcanvas/internal/render"
)

const DefaultPath = "subcanvas.yaml"

type Config struct {
	Style   StyleConfig   `yaml:"style"`
	Surface SurfaceConfig `yaml:"surface"`

	// refresh rate of the render loop and the rate frames are decoded at
	FPS float64 `yaml:"fps"`

	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	Encode EncodeConfig `yaml:"encode"`
}

type StyleConfig struct {
	FontSize         float64 `yaml:"font_size"`
	Padding          float64 `yaml:"padding"`
	VerticalFraction float64 `yaml:"vertical_fraction"`
	BackingAlpha     float64 `yaml:"backing_alpha"`
}

type SurfaceConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

type EncodeConfig struct {
	Codec  string `yaml:"codec"`
	CRF    int    `yaml:"crf"`
	Preset string `yaml:"preset"`
}

func Default() *Config {
	style := render.DefaultStyle()
	return &Config{
		Style: StyleConfig{
			FontSize:         style.FontSize,
			Padding:          style.Padding,
			VerticalFraction: style.VerticalFraction,
			BackingAlpha:     0.7,
		},
		Surface: SurfaceConfig{
			Width:      1280,
			Height:     720,
			PixelRatio: 1,
		},
		FPS: 30,
		Encode: EncodeConfig{
			Codec:  "libx264",
			CRF:    20,
			Preset: "veryfast",
		},
	}
}

// Load reads path on top of the defaults. An empty path falls back to
// DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		errs = append(errs, fmt.Errorf("surface size must be positive, got %vx%v", c.Surface.Width, c.Surface.Height))
	}
	if c.Surface.PixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("pixel_ratio must be positive, got %v", c.Surface.PixelRatio))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %v", c.FPS))
	}
	if c.Style.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font_size must be positive, got %v", c.Style.FontSize))
	}
	if c.Style.Padding < 0 {
		errs = append(errs, fmt.Errorf("padding must not be negative, got %v", c.Style.Padding))
	}
	if c.Style.VerticalFraction <= 0 || c.Style.VerticalFraction > 1 {
		errs = append(errs, fmt.Errorf("vertical_fraction must be in (0, 1], got %v", c.Style.VerticalFraction))
	}
	if c.Style.BackingAlpha < 0 || c.Style.BackingAlpha > 1 {
		errs = append(errs, fmt.Errorf("backing_alpha must be in [0, 1], got %v", c.Style.BackingAlpha))
	}
	return errors.Join(errs...)
}

// render style described by the config
func (c *Config) RenderStyle() render.Style {
	style := render.DefaultStyle()
	style.FontSize = c.Style.FontSize
	style.Padding = c.Style.Padding
	style.VerticalFraction = c.Style.VerticalFraction
	style.Backing = color.NRGBA{A: uint8(c.Style.BackingAlpha*255 + 0.5)}
	return style
}

// writes the config as YAML, creating or truncating path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
