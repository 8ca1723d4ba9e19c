// Package pullrefresh holds the configuration shared by the pull-to-refresh
// tools: the gesture geometry, indicator look and animation timings, stored
// as pullrefresh.toml.
package pullrefresh

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agiangrant/pullrefresh/refresh"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is the config file name looked up in the working directory.
const DefaultConfigFile = "pullrefresh.toml"

// Config represents the pullrefresh.toml configuration file
type Config struct {
	Gesture   GestureConfig   `toml:"gesture"`
	Indicator IndicatorConfig `toml:"indicator"`
	Animation AnimationConfig `toml:"animation"`
	Display   DisplayConfig   `toml:"display"`
	Demo      DemoConfig      `toml:"demo"`
}

// GestureConfig defines the pull geometry in dp
type GestureConfig struct {
	TotalDragDistanceDP float64 `toml:"total_drag_distance_dp"`
	TouchSlopDP         float64 `toml:"touch_slop_dp"`
	// Fraction of finger travel turned into pull distance
	DragRate float64 `toml:"drag_rate"`
}

type IndicatorConfig struct {
	DiameterDP float64 `toml:"diameter_dp"`
	// "contained" or "uncontained"
	Style string `toml:"style"`
	// #RRGGBB or #RRGGBBAA, empty for the style default
	Color string `toml:"color"`
}

type AnimationConfig struct {
	TriggerMS int `toml:"trigger_ms"`
	SettleMS  int `toml:"settle_ms"`
	SpinMS    int `toml:"spin_ms"`
}

type DisplayConfig struct {
	// Pixels per dp
	Density float64 `toml:"density"`
}

// DemoConfig controls the terminal demo and replay runner
type DemoConfig struct {
	// How long a demo refresh runs before it completes by itself
	RefreshDelayMS int `toml:"refresh_delay_ms"`
	// Frame interval for the demo and for script replay
	FrameMS int `toml:"frame_ms"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() Config {
	return Config{
		Gesture: GestureConfig{
			TotalDragDistanceDP: refresh.DefaultTotalDragDistanceDP,
			TouchSlopDP:         refresh.DefaultTouchSlopDP,
			DragRate:            refresh.DefaultDragRate,
		},
		Indicator: IndicatorConfig{
			DiameterDP: refresh.DefaultIndicatorDiameterDP,
			Style:      refresh.StyleContained.String(),
		},
		Animation: AnimationConfig{
			TriggerMS: int(refresh.DefaultTriggerDuration / time.Millisecond),
			SettleMS:  int(refresh.DefaultSettleDuration / time.Millisecond),
			SpinMS:    int(refresh.DefaultSpinDuration / time.Millisecond),
		},
		Display: DisplayConfig{
			Density: 1,
		},
		Demo: DemoConfig{
			RefreshDelayMS: 2000,
			FrameMS:        16,
		},
	}
}

// LoadConfig loads the configuration from path.
// If the file doesn't exist, returns default config.
// Keys the file does not set keep their defaults; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return config, fmt.Errorf("failed to parse %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to path
func SaveConfig(path string, config Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// FrameInterval returns the demo frame interval.
func (c Config) FrameInterval() time.Duration {
	if c.Demo.FrameMS <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.Demo.FrameMS) * time.Millisecond
}

// RefreshDelay returns how long a demo refresh runs.
func (c Config) RefreshDelay() time.Duration {
	return time.Duration(c.Demo.RefreshDelayMS) * time.Millisecond
}

// Options converts the configuration into validated container options for
// content. Distances are scaled from dp to pixels by the display density.
func (c Config) Options(content refresh.Content) (refresh.Options, error) {
	density := c.Display.Density
	if density <= 0 {
		return refresh.Options{}, fmt.Errorf("%w: display density %v", refresh.ErrInvalidGeometry, density)
	}

	style, err := refresh.ParseStyle(c.Indicator.Style)
	if err != nil {
		return refresh.Options{}, fmt.Errorf("indicator: %w", err)
	}

	var color refresh.Color
	if c.Indicator.Color != "" {
		color, err = refresh.ParseColor(c.Indicator.Color)
		if err != nil {
			return refresh.Options{}, fmt.Errorf("indicator: %w", err)
		}
	}

	opts := refresh.Options{
		Content:           content,
		TotalDragDistance: c.Gesture.TotalDragDistanceDP * density,
		IndicatorDiameter: c.Indicator.DiameterDP * density,
		TouchSlop:         c.Gesture.TouchSlopDP * density,
		DragRate:          c.Gesture.DragRate,
		TriggerDuration:   time.Duration(c.Animation.TriggerMS) * time.Millisecond,
		SettleDuration:    time.Duration(c.Animation.SettleMS) * time.Millisecond,
		SpinDuration:      time.Duration(c.Animation.SpinMS) * time.Millisecond,
		Style:             style,
		Color:             color,
	}
	if err := opts.Validate(); err != nil {
		return refresh.Options{}, err
	}
	return opts, nil
}
