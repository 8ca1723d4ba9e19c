// Package refresh implements a pull-to-refresh container: the drag state
// machine, the nested scroll negotiation with the wrapped content and the
// indicator visuals derived from the pull distance.
//
// All methods must be called from the one goroutine that delivers input and
// animation frames. Nothing in this package locks.
package refresh

import (
	"errors"
	"fmt"
	"time"
)

// Geometry defaults in density-independent pixels.
const (
	DefaultTotalDragDistanceDP = 96
	DefaultIndicatorDiameterDP = 48
	DefaultTouchSlopDP         = 8
)

// Behavior defaults.
const (
	DefaultDragRate        = 0.8
	DefaultTriggerDuration = 200 * time.Millisecond
	DefaultSettleDuration  = 200 * time.Millisecond
	DefaultSpinDuration    = time.Second
)

var (
	// ErrNoContent is returned when no content is configured.
	ErrNoContent = errors.New("refresh: no content")
	// ErrInvalidGeometry is returned for non-positive distances or rates.
	ErrInvalidGeometry = errors.New("refresh: invalid geometry")
)

// Content is the scrollable element wrapped by the container.
type Content interface {
	// CanScrollUp reports whether the content can still scroll toward its
	// start. Pulls only begin when it returns false.
	CanScrollUp() bool
}

// Options configures a container. Distances are in pixels.
type Options struct {
	Content Content

	TotalDragDistance float64 // pull distance that triggers a refresh
	IndicatorDiameter float64
	TouchSlop         float64
	DragRate          float64 // fraction of finger travel turned into pull

	TriggerDuration time.Duration
	SettleDuration  time.Duration
	SpinDuration    time.Duration

	Style Style
	Color Color // zero picks DefaultColor(Style)

	// OnRefresh runs inline when a pull triggers a refresh.
	OnRefresh func()
	// OnThreshold runs each time the pull crosses the trigger distance,
	// meant for a haptic tick.
	OnThreshold func()

	// Ancestor receives nested scroll deltas the container does not use.
	Ancestor NestedScrollParent

	// Now stamps animation start times. Nil means time.Now.
	Now func() time.Time
	// Logf traces phase changes when set, e.g. log.Printf.
	Logf func(format string, args ...any)
}

// DefaultOptions returns the standard geometry scaled for a display density.
func DefaultOptions(density float64) Options {
	return Options{
		TotalDragDistance: DefaultTotalDragDistanceDP * density,
		IndicatorDiameter: DefaultIndicatorDiameterDP * density,
		TouchSlop:         DefaultTouchSlopDP * density,
		DragRate:          DefaultDragRate,
		TriggerDuration:   DefaultTriggerDuration,
		SettleDuration:    DefaultSettleDuration,
		SpinDuration:      DefaultSpinDuration,
		Style:             StyleContained,
	}
}

// Validate checks the options once so the per-event paths never have to.
func (o Options) Validate() error {
	if o.Content == nil {
		return ErrNoContent
	}
	if o.TotalDragDistance <= 0 {
		return fmt.Errorf("%w: total drag distance %v", ErrInvalidGeometry, o.TotalDragDistance)
	}
	if o.IndicatorDiameter <= 0 {
		return fmt.Errorf("%w: indicator diameter %v", ErrInvalidGeometry, o.IndicatorDiameter)
	}
	if o.DragRate <= 0 {
		return fmt.Errorf("%w: drag rate %v", ErrInvalidGeometry, o.DragRate)
	}
	if o.TouchSlop < 0 {
		return fmt.Errorf("%w: touch slop %v", ErrInvalidGeometry, o.TouchSlop)
	}
	if o.SpinDuration <= 0 {
		return fmt.Errorf("%w: spin duration %v", ErrInvalidGeometry, o.SpinDuration)
	}
	return nil
}

// ============================================================================
// Container
// ============================================================================

// PullToRefresh wraps one scrollable content element and turns overscroll
// at its top into a pull-to-refresh gesture.
type PullToRefresh struct {
	content   Content
	registry  *AnimationRegistry
	indicator *Indicator
	gesture   *GestureController
	nested    *NestedScrollCoordinator

	enabled       bool
	detached      bool
	intercepting  bool
	childTouching bool
	touching      bool // a primary pointer is down
	touchPointer  int
}

// New validates opts and builds a container.
func New(opts Options) (*PullToRefresh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Color == 0 {
		opts.Color = DefaultColor(opts.Style)
	}

	registry := NewAnimationRegistry(opts.Now)
	indicator := newIndicator(registry, StyleConfig{Variant: opts.Style, Color: opts.Color}, opts.IndicatorDiameter, opts.SpinDuration)
	gesture := newGestureController(opts, registry, indicator)

	return &PullToRefresh{
		content:   opts.Content,
		registry:  registry,
		indicator: indicator,
		gesture:   gesture,
		nested:    newNestedScrollCoordinator(gesture, opts.Content, opts.Ancestor),
		enabled:   true,
	}, nil
}

// Gesture exposes the drag state machine.
func (p *PullToRefresh) Gesture() *GestureController { return p.gesture }

// Nested exposes the nested scroll coordinator.
func (p *PullToRefresh) Nested() *NestedScrollCoordinator { return p.nested }

// Content returns the wrapped content.
func (p *PullToRefresh) Content() Content { return p.content }

// SetOnRefreshListener replaces the refresh callback.
func (p *PullToRefresh) SetOnRefreshListener(fn func()) {
	p.gesture.onRefresh = fn
}

// SetRefreshing starts or stops the refresh without notifying the listener.
func (p *PullToRefresh) SetRefreshing(refreshing bool) {
	p.gesture.SetRefreshing(refreshing, false)
}

// IsRefreshing reports whether a refresh is in progress.
func (p *PullToRefresh) IsRefreshing() bool {
	return p.gesture.IsRefreshing()
}

// Phase returns the gesture phase.
func (p *PullToRefresh) Phase() Phase {
	return p.gesture.Phase()
}

// State returns the drag state.
func (p *PullToRefresh) State() DragState {
	return p.gesture.State()
}

// Visual returns the indicator render state.
func (p *PullToRefresh) Visual() Visual {
	return p.indicator.Visual()
}

// SetEnabled turns the container on or off. A disabled container lets every
// touch and nested scroll through untouched.
func (p *PullToRefresh) SetEnabled(enabled bool) {
	p.enabled = enabled
	p.nested.SetEnabled(enabled)
	if !enabled {
		p.gesture.resetPointer()
		p.intercepting = false
		p.touching = false
	}
}

// Enabled reports whether the container reacts to input.
func (p *PullToRefresh) Enabled() bool {
	return p.enabled
}

// SetIndicatorStyle rebuilds the indicator with the default color of style.
// The drag and refresh state are kept.
func (p *PullToRefresh) SetIndicatorStyle(style Style) {
	if p.indicator.Style().Variant == style {
		return
	}
	p.rebuildIndicator(StyleConfig{Variant: style, Color: DefaultColor(style)})
}

// IndicatorStyle returns the indicator variant.
func (p *PullToRefresh) IndicatorStyle() Style {
	return p.indicator.Style().Variant
}

// SetIndicatorColor recolors the indicator.
func (p *PullToRefresh) SetIndicatorColor(c Color) {
	cfg := p.indicator.Style()
	if cfg.Color == c {
		return
	}
	cfg.Color = c
	p.rebuildIndicator(cfg)
}

func (p *PullToRefresh) rebuildIndicator(cfg StyleConfig) {
	g := p.gesture
	p.indicator.Rebuild(cfg)
	if g.State().CurrentOffset > 0 || g.IsRefreshing() {
		p.indicator.Update(g.State().CurrentOffset, g.State().TotalDragDistance, g.IsRefreshing())
	}
	if g.IsRefreshing() {
		p.indicator.StartSpin()
	}
}

// Layout records the container width so the indicator stays centered.
func (p *PullToRefresh) Layout(width float64) {
	p.indicator.SetWidth(width)
}

// Tick advances animations to now. It returns true while animations are
// still running. A detached container does not animate.
func (p *PullToRefresh) Tick(now time.Time) bool {
	if p.detached {
		return false
	}
	return p.registry.Tick(now)
}

// Animating reports whether any animation needs frames.
func (p *PullToRefresh) Animating() bool {
	return !p.detached && p.registry.HasActive()
}

// Detach cancels every animation, closes any open nested scroll session and
// hides the indicator. No animation callback fires afterwards, and input is
// ignored until Attach.
func (p *PullToRefresh) Detach() {
	p.detached = true
	p.gesture.detach()
	p.nested.detach()
	p.registry.CancelAll()
	p.intercepting = false
	p.childTouching = false
	p.touching = false
}

// Attach resumes a detached container. A refresh that was running when the
// container detached shows its spinning indicator at the trigger distance.
func (p *PullToRefresh) Attach() {
	if !p.detached {
		return
	}
	p.detached = false
	g := p.gesture
	if g.IsRefreshing() {
		g.setTargetOffset(g.state.TotalDragDistance)
		p.indicator.StartSpin()
	}
}

// Detached reports whether the container is detached.
func (p *PullToRefresh) Detached() bool {
	return p.detached
}

// ============================================================================
// Nested scroll parent
// ============================================================================

var _ NestedScrollParent = (*PullToRefresh)(nil)

// The methods below make the container the nested scroll parent of its
// content. A detached container takes no part in nested scrolling.

// StartNestedScroll reports whether the container joins a scroll sequence.
func (p *PullToRefresh) StartNestedScroll(axes Axis, kind ScrollKind) bool {
	return !p.detached && p.nested.StartNestedScroll(axes, kind)
}

// NestedScrollAccepted opens the session for an accepted sequence.
func (p *PullToRefresh) NestedScrollAccepted(axes Axis, kind ScrollKind) {
	if p.detached {
		return
	}
	p.nested.NestedScrollAccepted(axes, kind)
}

// NestedPreScroll consumes downward deltas that shrink an active pull.
func (p *PullToRefresh) NestedPreScroll(dx, dy float64, kind ScrollKind) (float64, float64) {
	if p.detached {
		return 0, 0
	}
	return p.nested.NestedPreScroll(dx, dy, kind)
}

// NestedScroll turns overscroll at the top of the content into a pull.
func (p *PullToRefresh) NestedScroll(dxConsumed, dyConsumed, dxUnconsumed, dyUnconsumed float64, kind ScrollKind) (float64, float64) {
	if p.detached {
		return 0, 0
	}
	return p.nested.NestedScroll(dxConsumed, dyConsumed, dxUnconsumed, dyUnconsumed, kind)
}

// StopNestedScroll ends the sequence and releases any pull it made.
func (p *PullToRefresh) StopNestedScroll(kind ScrollKind) {
	if p.detached {
		return
	}
	p.nested.StopNestedScroll(kind)
}

// NestedPreFling offers a fling to the ancestor.
func (p *PullToRefresh) NestedPreFling(velocityX, velocityY float64) bool {
	return p.nested.NestedPreFling(velocityX, velocityY)
}

// NestedFling reports a fling to the ancestor.
func (p *PullToRefresh) NestedFling(velocityX, velocityY float64, consumed bool) bool {
	return p.nested.NestedFling(velocityX, velocityY, consumed)
}
