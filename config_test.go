package pullrefresh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agiangrant/pullrefresh/refresh"
)

type topContent struct{}

func (topContent) CanScrollUp() bool { return false }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("missing file gave %+v, want defaults", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		check   func(t *testing.T, cfg Config)
		wantErr string
	}{
		{
			name: "partial keeps defaults",
			body: "[gesture]\ndrag_rate = 0.5\n\n[display]\ndensity = 2.0\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Gesture.DragRate != 0.5 || cfg.Display.Density != 2 {
					t.Errorf("overrides not applied: %+v", cfg)
				}
				if cfg.Gesture.TotalDragDistanceDP != refresh.DefaultTotalDragDistanceDP {
					t.Errorf("TotalDragDistanceDP = %v, want default", cfg.Gesture.TotalDragDistanceDP)
				}
				if cfg.Animation != DefaultConfig().Animation {
					t.Errorf("Animation = %+v, want defaults", cfg.Animation)
				}
			},
		},
		{
			name: "indicator section",
			body: "[indicator]\nstyle = \"uncontained\"\ncolor = \"#FF0000\"\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Indicator.Style != "uncontained" || cfg.Indicator.Color != "#FF0000" {
					t.Errorf("Indicator = %+v", cfg.Indicator)
				}
			},
		},
		{
			name:    "unknown key",
			body:    "[gesture]\ndrag_speed = 2\n",
			wantErr: "drag_speed",
		},
		{
			name:    "bad syntax",
			body:    "[gesture\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.body))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadConfig error = %v, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestSaveConfigThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	cfg := DefaultConfig()
	cfg.Display.Density = 3
	cfg.Indicator.Style = "uncontained"
	cfg.Demo.RefreshDelayMS = 500

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != cfg {
		t.Errorf("loaded %+v, saved %+v", got, cfg)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display.Density = 3

	opts, err := cfg.Options(topContent{})
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.TotalDragDistance != 288 || opts.IndicatorDiameter != 144 || opts.TouchSlop != 24 {
		t.Errorf("geometry = %v/%v/%v, want 288/144/24", opts.TotalDragDistance, opts.IndicatorDiameter, opts.TouchSlop)
	}
	if opts.TriggerDuration != 200*time.Millisecond || opts.SpinDuration != time.Second {
		t.Errorf("durations = %v/%v", opts.TriggerDuration, opts.SpinDuration)
	}
	if opts.Style != refresh.StyleContained || opts.Color != 0 {
		t.Errorf("style = %v, color = %v", opts.Style, opts.Color)
	}

	if _, err := refresh.New(opts); err != nil {
		t.Errorf("refresh.New rejected converted options: %v", err)
	}
}

func TestConfigOptionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero density", func(c *Config) { c.Display.Density = 0 }, refresh.ErrInvalidGeometry},
		{"zero distance", func(c *Config) { c.Gesture.TotalDragDistanceDP = 0 }, refresh.ErrInvalidGeometry},
		{"bad style", func(c *Config) { c.Indicator.Style = "filled" }, nil},
		{"bad color", func(c *Config) { c.Indicator.Color = "red" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			_, err := cfg.Options(topContent{})
			if err == nil {
				t.Fatal("Options accepted an invalid config")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := DefaultConfig().Options(nil); !errors.Is(err, refresh.ErrNoContent) {
		t.Errorf("nil content error = %v, want ErrNoContent", err)
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FrameInterval() != 16*time.Millisecond {
		t.Errorf("FrameInterval = %v", cfg.FrameInterval())
	}
	cfg.Demo.FrameMS = 0
	if cfg.FrameInterval() != 16*time.Millisecond {
		t.Errorf("zero frame_ms gave %v", cfg.FrameInterval())
	}
	if cfg.RefreshDelay() != 2*time.Second {
		t.Errorf("RefreshDelay = %v", cfg.RefreshDelay())
	}
}
