// Package script loads gesture replay scripts: YAML files describing a
// sequence of touches, nested scrolls, flings and waits to feed a
// pull-to-refresh container, with optional expectations checked along the way.
package script

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Step actions.
const (
	ActionDown    = "down"
	ActionMove    = "move"
	ActionUp      = "up"
	ActionCancel  = "cancel"
	ActionWheel   = "wheel"
	ActionFling   = "fling"
	ActionWait    = "wait"
	ActionRefresh = "refresh" // start a refresh from code
	ActionFinish  = "finish"  // complete the running refresh
	ActionStyle   = "style"
	ActionEnable  = "enable"
	ActionDisable = "disable"
	ActionExpect  = "expect"
)

var knownActions = map[string]bool{
	ActionDown: true, ActionMove: true, ActionUp: true, ActionCancel: true,
	ActionWheel: true, ActionFling: true, ActionWait: true,
	ActionRefresh: true, ActionFinish: true, ActionStyle: true,
	ActionEnable: true, ActionDisable: true, ActionExpect: true,
}

// ErrInvalidScript is returned for scripts that parse but cannot run.
var ErrInvalidScript = errors.New("invalid script")

// Script is a parsed replay script.
type Script struct {
	Name    string      `yaml:"name"`
	Width   float64     `yaml:"width"`
	Content ContentSpec `yaml:"content"`
	Steps   []Step      `yaml:"steps"`
}

// ContentSpec sizes the scroll view wrapped by the container, in pixels.
type ContentSpec struct {
	Viewport float64 `yaml:"viewport"`
	Height   float64 `yaml:"height"`
	Scroll   float64 `yaml:"scroll"`
}

// Step is one scripted input.
type Step struct {
	Action  string  `yaml:"action"`
	Pointer int     `yaml:"pointer,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	// Wheel delta, negative toward the top of the content
	DY float64 `yaml:"dy,omitempty"`
	// Fling velocity in px/s
	Velocity float64       `yaml:"velocity,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty"`
	Style    string        `yaml:"style,omitempty"`
	Expect   *Expectation  `yaml:"expect,omitempty"`
}

// Expectation checks container state. Unset fields are not checked.
type Expectation struct {
	Phase      string   `yaml:"phase,omitempty"`
	Refreshing *bool    `yaml:"refreshing,omitempty"`
	Visible    *bool    `yaml:"visible,omitempty"`
	Offset     *float64 `yaml:"offset,omitempty"`
	ScrollY    *float64 `yaml:"scroll_y,omitempty"`
	Refreshes  *int     `yaml:"refreshes,omitempty"`
	Thresholds *int     `yaml:"thresholds,omitempty"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse parses and checks a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports the first step that cannot run.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		st.Action = strings.ToLower(strings.TrimSpace(st.Action))
		if !knownActions[st.Action] {
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScript, i+1, st.Action)
		}
		switch st.Action {
		case ActionWait:
			if st.Duration <= 0 {
				return fmt.Errorf("%w: step %d: wait needs a positive duration", ErrInvalidScript, i+1)
			}
		case ActionExpect:
			if st.Expect == nil {
				return fmt.Errorf("%w: step %d: expect needs an expect block", ErrInvalidScript, i+1)
			}
		case ActionStyle:
			if st.Style == "" {
				return fmt.Errorf("%w: step %d: style needs a style name", ErrInvalidScript, i+1)
			}
		}
	}
	return nil
}
