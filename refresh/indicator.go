package refresh

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Style selects the indicator variant.
type Style int

const (
	// StyleUncontained draws the loading indicator with no background.
	StyleUncontained Style = iota
	// StyleContained draws the loading indicator inside a filled circle.
	StyleContained
)

// String returns the config-file name of the style.
func (s Style) String() string {
	switch s {
	case StyleUncontained:
		return "uncontained"
	case StyleContained:
		return "contained"
	default:
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseStyle parses "contained" or "uncontained".
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "contained":
		return StyleContained, nil
	case "uncontained":
		return StyleUncontained, nil
	default:
		return 0, fmt.Errorf("unknown indicator style %q", name)
	}
}

// Color is an RGBA color packed as 0xRRGGBBAA.
type Color uint32

const (
	// ColorOnPrimaryContainer is the default contained indicator color.
	ColorOnPrimaryContainer Color = 0x21005DFF
	// ColorPrimary is the default uncontained indicator color.
	ColorPrimary Color = 0x6750A4FF
)

// DefaultColor returns the indicator color used by a style when the caller
// does not supply one.
func DefaultColor(s Style) Color {
	if s == StyleContained {
		return ColorOnPrimaryContainer
	}
	return ColorPrimary
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		hex += "ff"
	case 8:
	default:
		return 0, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

// Hex formats the color as "#RRGGBB", dropping an opaque alpha.
func (c Color) Hex() string {
	if c&0xFF == 0xFF {
		return fmt.Sprintf("#%06X", uint32(c)>>8)
	}
	return fmt.Sprintf("#%08X", uint32(c))
}

// StyleConfig is the look of the indicator.
type StyleConfig struct {
	Variant Style
	Color   Color
}

// ============================================================================
// Indicator geometry
// ============================================================================

const (
	// trailFactor keeps the indicator behind the content offset.
	trailFactor = 0.6
	// maxScaleRatio caps the drag ratio used for scaling.
	maxScaleRatio = 1.5
	// fullScaleRatio is the drag ratio at which the indicator reaches full size.
	fullScaleRatio = 0.7
)

// Visual is the derived render state of the indicator.
type Visual struct {
	Scale     float64 // 0-1
	Rotation  float64 // degrees, 0-360
	Visible   bool
	Spinning  bool
	SpinPhase float64 // progress of the spin loop, 0-1

	// Top-left corner of the indicator inside the container
	X, Y     float64
	Diameter float64

	Style StyleConfig
}

// smoothstep eases x in [0,1] with zero slope at both ends.
func smoothstep(x float64) float64 {
	return x * x * (3 - 2*x)
}

// IndicatorScale maps a drag ratio to the indicator scale.
func IndicatorScale(ratio float64, refreshing bool) float64 {
	if refreshing {
		return 1
	}
	raw := math.Min(1, math.Min(maxScaleRatio, ratio)/fullScaleRatio)
	if raw < 0 {
		raw = 0
	}
	return smoothstep(raw)
}

// IndicatorRotation maps a drag ratio to the indicator rotation in degrees.
func IndicatorRotation(ratio float64, refreshing bool) float64 {
	if refreshing {
		return 0
	}
	rot := math.Mod(ratio*360, 360)
	if rot < 0 {
		rot += 360
	}
	return rot
}

// ============================================================================
// Indicator
// ============================================================================

// Indicator turns the pull offset into indicator visuals and owns the
// continuous spin loop shown while refreshing.
type Indicator struct {
	registry     *AnimationRegistry
	spinDuration time.Duration
	diameter     float64
	width        float64
	style        StyleConfig

	spin   *Animation
	visual Visual
}

func newIndicator(registry *AnimationRegistry, style StyleConfig, diameter float64, spinDuration time.Duration) *Indicator {
	ind := &Indicator{
		registry:     registry,
		spinDuration: spinDuration,
		diameter:     diameter,
		style:        style,
	}
	ind.visual = Visual{Diameter: diameter, Style: style}
	ind.place(0)
	return ind
}

// Update recomputes the visual for a new offset.
func (ind *Indicator) Update(offset, totalDragDistance float64, refreshing bool) {
	ratio := offset / totalDragDistance

	ind.visual.Scale = IndicatorScale(ratio, refreshing)
	ind.visual.Rotation = IndicatorRotation(ratio, refreshing)
	ind.visual.Visible = offset > 0 || refreshing
	ind.place(offset)
}

// place positions the indicator for the given content offset.
func (ind *Indicator) place(offset float64) {
	ind.visual.X = (ind.width - ind.diameter) / 2
	ind.visual.Y = offset * trailFactor
	ind.visual.Diameter = ind.diameter
}

// SetWidth records the container width used for horizontal centering.
func (ind *Indicator) SetWidth(width float64) {
	ind.width = width
	ind.visual.X = (width - ind.diameter) / 2
}

// StartSpin starts the spin loop. Starting a running spin does nothing.
func (ind *Indicator) StartSpin() {
	ind.visual.Visible = true
	if ind.spin.Running() {
		return
	}
	ind.spin = ind.registry.Animate().
		Duration(ind.spinDuration).
		Easing(EaseLinear).
		Loop().
		Custom(func(progress float64) {
			ind.visual.SpinPhase = progress
		})
	ind.visual.Spinning = true
}

// StopSpin stops the spin loop. Stopping a stopped spin does nothing.
func (ind *Indicator) StopSpin() {
	if !ind.spin.Running() {
		return
	}
	ind.spin.Cancel()
	ind.spin = nil
	ind.visual.Spinning = false
	ind.visual.SpinPhase = 0
}

// Spinning reports whether the spin loop is running.
func (ind *Indicator) Spinning() bool {
	return ind.spin.Running()
}

// Hide makes the indicator invisible and stops its spin.
func (ind *Indicator) Hide() {
	ind.visual.Visible = false
	ind.StopSpin()
}

// Rebuild replaces the indicator look. The new indicator starts hidden and
// stopped, like a freshly inflated view.
func (ind *Indicator) Rebuild(style StyleConfig) {
	ind.StopSpin()
	ind.style = style
	ind.visual.Style = style
	ind.visual.Visible = false
}

// Style returns the current look.
func (ind *Indicator) Style() StyleConfig {
	return ind.style
}

// Visual returns a copy of the current render state.
func (ind *Indicator) Visual() Visual {
	return ind.visual
}
