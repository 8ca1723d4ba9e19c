package refresh

import (
	"math"
	"time"
)

// NoPointer marks the absence of a tracked pointer.
const NoPointer = -1

// Phase is the externally visible gesture state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseSettling
	PhaseRefreshing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseSettling:
		return "settling"
	case PhaseRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// DragState is the offset bookkeeping of one container.
type DragState struct {
	CurrentOffset     float64
	OriginalOffset    float64
	TotalDragDistance float64
	IsDragging        bool
	ActivePointer     int // NoPointer when nothing is tracked
	InitialY          float64
	ThresholdReached  bool
}

// RubberBand maps a pull distance (already scaled by the drag rate) to the
// indicator offset. Growth is linear up to total and decelerates beyond it,
// flattening at 1.25x total.
func RubberBand(scrollTop, total float64) float64 {
	pull := math.Abs(scrollTop)
	bounded := math.Min(1, pull/total)
	extra := math.Max(0, math.Min(pull-total, total*2))
	t := extra / total
	tension := (t/4 - math.Pow(t/4, 2)) * 2
	extraMove := total * tension / 2
	return total*bounded + extraMove
}

// GestureController owns the drag state machine: it turns consumed pull
// distance into an offset, detects the trigger threshold and runs the trigger
// and settle animations.
type GestureController struct {
	state      DragState
	refreshing bool
	phase      Phase

	touchSlop       float64
	dragRate        float64
	triggerDuration time.Duration
	settleDuration  time.Duration

	content   Content
	registry  *AnimationRegistry
	indicator *Indicator

	// The one animation allowed to drive the offset
	offsetAnim *Animation

	onRefresh   func()
	onThreshold func()
	logf        func(format string, args ...any)
}

func newGestureController(opts Options, registry *AnimationRegistry, indicator *Indicator) *GestureController {
	return &GestureController{
		state: DragState{
			TotalDragDistance: opts.TotalDragDistance,
			ActivePointer:     NoPointer,
		},
		touchSlop:       opts.TouchSlop,
		dragRate:        opts.DragRate,
		triggerDuration: opts.TriggerDuration,
		settleDuration:  opts.SettleDuration,
		content:         opts.Content,
		registry:        registry,
		indicator:       indicator,
		onRefresh:       opts.OnRefresh,
		onThreshold:     opts.OnThreshold,
		logf:            opts.Logf,
	}
}

// State returns a copy of the drag state.
func (g *GestureController) State() DragState {
	return g.state
}

// Phase returns the current gesture phase.
func (g *GestureController) Phase() Phase {
	return g.phase
}

// IsRefreshing reports whether a refresh is in progress.
func (g *GestureController) IsRefreshing() bool {
	return g.refreshing
}

// IsBeingDragged reports whether a direct touch drag owns the gesture.
func (g *GestureController) IsBeingDragged() bool {
	return g.state.IsDragging
}

// DragRatio returns the normalized pull progress.
func (g *GestureController) DragRatio() float64 {
	return g.state.CurrentOffset / g.state.TotalDragDistance
}

// ============================================================================
// Direct touch
// ============================================================================

// DragStart begins tracking a pointer. It does nothing while refreshing,
// when the content is scrolled away from its top, or while another pointer
// is dragging.
func (g *GestureController) DragStart(pointerID int, y float64) {
	if g.refreshing || g.content.CanScrollUp() {
		return
	}
	if g.state.IsDragging && g.state.ActivePointer != pointerID {
		return
	}
	g.state.ActivePointer = pointerID
	g.state.InitialY = y
	g.state.IsDragging = false
}

// DragMove handles a pointer move and reports whether the gesture consumed
// it. Moves of untracked pointers are ignored. Once past the touch slop, a
// move that would pull upward returns false so the caller can treat it as a
// normal scroll.
func (g *GestureController) DragMove(pointerID int, y float64) bool {
	if !g.tracking(pointerID) || g.refreshing || g.content.CanScrollUp() {
		return false
	}

	yDiff := y - g.state.InitialY
	if !g.state.IsDragging && yDiff > g.touchSlop {
		g.state.IsDragging = true
	}
	if !g.state.IsDragging {
		return false
	}
	if yDiff*g.dragRate <= 0 {
		return false
	}

	g.Pull(yDiff)
	return true
}

// DragEnd releases the tracked pointer. A released drag either starts a
// refresh or settles back to the start.
func (g *GestureController) DragEnd(pointerID int, y float64) {
	if !g.tracking(pointerID) {
		return
	}
	yDiff := y - g.state.InitialY
	wasDragging := g.state.IsDragging

	g.state.IsDragging = false
	g.state.ActivePointer = NoPointer

	if !wasDragging || g.refreshing {
		return
	}
	g.Release(yDiff)
}

// resetPointer forgets the tracked pointer without finishing anything.
func (g *GestureController) resetPointer() {
	g.state.IsDragging = false
	g.state.ActivePointer = NoPointer
}

func (g *GestureController) tracking(pointerID int) bool {
	return g.state.ActivePointer != NoPointer && g.state.ActivePointer == pointerID
}

// ============================================================================
// Shared pull path
// ============================================================================

// Pull moves the indicator for a raw overscroll distance. Direct drags and
// nested scrolls both end up here.
func (g *GestureController) Pull(overscroll float64) {
	if g.phase != PhaseDragging {
		// A cancelled settle never completes, so its spin stops here.
		g.replaceOffsetAnimation(nil)
		if !g.refreshing {
			g.indicator.StopSpin()
		}
		g.setPhase(PhaseDragging)
	}
	g.ApplyDelta(overscroll * g.dragRate)
}

// ApplyDelta moves the offset to the rubber-band target for scrollTop. The
// offset converges on the target, so repeated calls never accumulate error.
func (g *GestureController) ApplyDelta(scrollTop float64) {
	g.setTargetOffset(RubberBand(scrollTop, g.state.TotalDragDistance))
}

// Release finishes a pull of the given raw overscroll distance.
func (g *GestureController) Release(overscroll float64) {
	if overscroll*g.dragRate > g.state.TotalDragDistance {
		g.SetRefreshing(true, true)
		return
	}
	g.refreshing = false
	g.animateToStart()
}

// setTargetOffset is the only writer of CurrentOffset.
func (g *GestureController) setTargetOffset(target float64) {
	g.state.CurrentOffset = target

	ratio := target / g.state.TotalDragDistance
	if ratio >= 1 && !g.state.ThresholdReached && !g.refreshing {
		g.state.ThresholdReached = true
		if g.onThreshold != nil {
			g.onThreshold()
		}
	} else if ratio < 1 {
		g.state.ThresholdReached = false
	}

	g.indicator.Update(target, g.state.TotalDragDistance, g.refreshing)
}

// ============================================================================
// Refresh state
// ============================================================================

// SetRefreshing changes the refresh state. Setting the current value does
// nothing. Entering the refreshing state snaps the offset to the trigger
// distance and, when notify is set, calls the refresh callback once. Leaving
// it settles the offset back to the start.
func (g *GestureController) SetRefreshing(refreshing, notify bool) {
	if g.refreshing == refreshing {
		return
	}
	g.refreshing = refreshing

	if !refreshing {
		g.animateToStart()
		return
	}

	g.setPhase(PhaseRefreshing)
	g.indicator.Update(g.state.CurrentOffset, g.state.TotalDragDistance, true)
	g.indicator.StartSpin()
	g.replaceOffsetAnimation(g.registry.Animate().
		Duration(g.triggerDuration).
		Easing(EaseDecelerate).
		ValueFromTo(g.state.CurrentOffset, g.state.TotalDragDistance, g.setTargetOffset))

	if notify && g.onRefresh != nil {
		g.onRefresh()
	}
}

func (g *GestureController) animateToStart() {
	g.setPhase(PhaseSettling)
	g.replaceOffsetAnimation(g.registry.Animate().
		Duration(g.settleDuration).
		Easing(EaseDecelerate).
		OnComplete(func() {
			if g.refreshing {
				return
			}
			g.indicator.Hide()
			g.setPhase(PhaseIdle)
		}).
		ValueFromTo(g.state.CurrentOffset, g.state.OriginalOffset, g.setTargetOffset))
}

// replaceOffsetAnimation cancels the animation driving the offset, if any,
// and installs next in its place.
func (g *GestureController) replaceOffsetAnimation(next *Animation) {
	if g.offsetAnim != nil && g.offsetAnim != next {
		g.offsetAnim.Cancel()
	}
	g.offsetAnim = next
}

// OffsetAnimating reports whether an offset animation is in flight.
func (g *GestureController) OffsetAnimating() bool {
	return g.offsetAnim.Running()
}

// detach drops every animation. A container that is not refreshing also
// forgets its pull.
func (g *GestureController) detach() {
	g.replaceOffsetAnimation(nil)
	g.indicator.Hide()
	g.resetPointer()
	if g.refreshing {
		return
	}
	g.state.CurrentOffset = g.state.OriginalOffset
	g.state.ThresholdReached = false
	g.setPhase(PhaseIdle)
}

func (g *GestureController) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	if g.logf != nil {
		g.logf("pullrefresh: %s -> %s (offset=%.1f)", g.phase, p, g.state.CurrentOffset)
	}
	g.phase = p
}
