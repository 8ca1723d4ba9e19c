package refresh

import (
	"math"
	"time"
)

// Momentum and wheel tuning for ScrollView.
const (
	momentumFriction    = 0.95 // per-frame velocity multiplier
	momentumMinVelocity = 10   // px/s below which a fling stops
	flingMinVelocity    = 50   // px/s needed to start a fling
	flingVelocityScale  = 0.3
	flingMaxGesture     = 500 * time.Millisecond
	wheelIdleTimeout    = 150 * time.Millisecond
)

// ScrollView is a vertically scrolling content element that takes part in
// nested scrolling. It is the reference Content for PullToRefresh: it scrolls
// itself with clamping, reports what it could not consume to its nested
// parent and keeps flinging with momentum after the finger lifts.
type ScrollView struct {
	scrollY        float64
	viewportHeight float64
	contentHeight  float64
	touchSlop      float64

	parent       NestedScrollParent
	nestedActive bool
	nestedKind   ScrollKind

	// Touch gesture tracking
	pointer        int
	touchStartY    float64
	touchStartTime time.Time
	lastTouchY     float64
	isDragging     bool

	// Momentum scrolling state
	momentumVelocity float64
	momentumActive   bool
	lastMomentumTime time.Time

	// Wheel scrolling has no release, it ends after a quiet period
	wheelActive bool
	lastWheel   time.Time

	now func() time.Time
}

// NewScrollView creates a scroll view showing viewportHeight pixels of
// contentHeight pixels of content.
func NewScrollView(viewportHeight, contentHeight, touchSlop float64) *ScrollView {
	return &ScrollView{
		viewportHeight: viewportHeight,
		contentHeight:  contentHeight,
		touchSlop:      touchSlop,
		pointer:        NoPointer,
		now:            time.Now,
	}
}

// SetClock replaces the time source used for fling velocity.
func (sv *ScrollView) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	sv.now = now
}

// SetNestedParent sets the ancestor that receives nested scroll deltas.
func (sv *ScrollView) SetNestedParent(parent NestedScrollParent) {
	sv.parent = parent
}

// SetContentHeight updates the content size and clamps the scroll position.
func (sv *ScrollView) SetContentHeight(h float64) {
	sv.contentHeight = h
	sv.scrollY = clamp(sv.scrollY, 0, sv.MaxScroll())
}

// SetViewportHeight updates the viewport size and clamps the scroll position.
func (sv *ScrollView) SetViewportHeight(h float64) {
	sv.viewportHeight = h
	sv.scrollY = clamp(sv.scrollY, 0, sv.MaxScroll())
}

// ScrollY returns the scroll position.
func (sv *ScrollView) ScrollY() float64 { return sv.scrollY }

// SetScrollY jumps to a position without nested dispatch.
func (sv *ScrollView) SetScrollY(y float64) {
	sv.scrollY = clamp(y, 0, sv.MaxScroll())
}

// MaxScroll returns the largest valid scroll position.
func (sv *ScrollView) MaxScroll() float64 {
	return math.Max(0, sv.contentHeight-sv.viewportHeight)
}

// CanScrollUp implements Content.
func (sv *ScrollView) CanScrollUp() bool {
	return sv.scrollY > 0
}

// ============================================================================
// Nested dispatch
// ============================================================================

func (sv *ScrollView) startNested(kind ScrollKind) {
	if sv.nestedActive {
		if sv.nestedKind == kind {
			return
		}
		sv.stopNested()
	}
	if sv.parent != nil && sv.parent.StartNestedScroll(AxisVertical, kind) {
		sv.parent.NestedScrollAccepted(AxisVertical, kind)
		sv.nestedActive = true
		sv.nestedKind = kind
	}
}

func (sv *ScrollView) stopNested() {
	if !sv.nestedActive {
		return
	}
	sv.nestedActive = false
	sv.parent.StopNestedScroll(sv.nestedKind)
}

// ScrollBy scrolls by dy (positive toward the end of the content). The
// nested parent gets the first offer and whatever the view cannot use. It
// returns how much of dy was consumed by the view and its ancestors.
func (sv *ScrollView) ScrollBy(dy float64) float64 {
	remaining := dy

	if sv.nestedActive {
		_, py := sv.parent.NestedPreScroll(0, remaining, sv.nestedKind)
		remaining -= py
	}

	old := sv.scrollY
	sv.scrollY = clamp(old+remaining, 0, sv.MaxScroll())
	selfConsumed := sv.scrollY - old
	unconsumed := remaining - selfConsumed

	if sv.nestedActive && (selfConsumed != 0 || unconsumed != 0) {
		_, py := sv.parent.NestedScroll(0, selfConsumed, 0, unconsumed, sv.nestedKind)
		unconsumed -= py
	}

	return dy - unconsumed
}

// ============================================================================
// Touch
// ============================================================================

// TouchEvent implements TouchHandler. Drag moves scroll the content once the
// finger travels past the touch slop.
func (sv *ScrollView) TouchEvent(ev MotionEvent) bool {
	switch ev.Action {
	case ActionDown:
		sv.stopMomentum()
		sv.pointer = ev.PointerID
		sv.touchStartY = ev.Y
		sv.lastTouchY = ev.Y
		sv.touchStartTime = sv.eventTime(ev)
		sv.isDragging = false
		sv.startNested(ScrollTouch)
		return true

	case ActionMove:
		if ev.PointerID != sv.pointer {
			return false
		}
		if !sv.isDragging && math.Abs(ev.Y-sv.touchStartY) > sv.touchSlop {
			sv.isDragging = true
		}
		if sv.isDragging {
			sv.ScrollBy(sv.lastTouchY - ev.Y)
			sv.lastTouchY = ev.Y
		}
		return true

	case ActionUp:
		if ev.PointerID != sv.pointer {
			return false
		}
		wasDragging := sv.isDragging
		sv.resetTouch()
		sv.stopNested()
		if wasDragging {
			elapsed := sv.eventTime(ev).Sub(sv.touchStartTime).Seconds()
			if elapsed > 0 && elapsed < flingMaxGesture.Seconds() {
				// Velocity in pixels per second, scaled for momentum
				sv.Fling(-(ev.Y - sv.touchStartY) / elapsed * flingVelocityScale)
			}
		}
		return true

	case ActionCancel:
		sv.resetTouch()
		sv.stopNested()
		return true
	}
	return false
}

func (sv *ScrollView) resetTouch() {
	sv.pointer = NoPointer
	sv.isDragging = false
}

func (sv *ScrollView) eventTime(ev MotionEvent) time.Time {
	if ev.Time.IsZero() {
		return sv.now()
	}
	return ev.Time
}

// ============================================================================
// Momentum and wheel
// ============================================================================

// Fling starts momentum scrolling at velocity px/s. Slow flings are ignored.
// The ancestor gets the first chance to take the fling.
func (sv *ScrollView) Fling(velocity float64) bool {
	if math.Abs(velocity) <= flingMinVelocity {
		return false
	}
	if sv.parent != nil && sv.parent.NestedPreFling(0, velocity) {
		return false
	}
	canScroll := (velocity < 0 && sv.CanScrollUp()) || (velocity > 0 && sv.scrollY < sv.MaxScroll())
	if sv.parent != nil {
		sv.parent.NestedFling(0, velocity, canScroll)
	}
	sv.momentumVelocity = velocity
	sv.momentumActive = true
	sv.lastMomentumTime = sv.now()
	sv.startNested(ScrollFling)
	return true
}

// IsMomentumScrolling returns true if momentum scrolling is currently active.
func (sv *ScrollView) IsMomentumScrolling() bool {
	return sv.momentumActive
}

func (sv *ScrollView) stopMomentum() {
	if !sv.momentumActive {
		return
	}
	sv.momentumActive = false
	sv.momentumVelocity = 0
	if sv.nestedKind == ScrollFling {
		sv.stopNested()
	}
}

// WheelScroll scrolls by a wheel step. The nested sequence it opens ends
// once the wheel has been quiet for a moment (see Update).
func (sv *ScrollView) WheelScroll(dy float64, now time.Time) float64 {
	sv.stopMomentum()
	if !sv.wheelActive {
		sv.startNested(ScrollTouch)
		sv.wheelActive = true
	}
	sv.lastWheel = now
	return sv.ScrollBy(dy)
}

// Update applies momentum physics and closes idle wheel sequences.
// Returns true while the view still needs frames.
func (sv *ScrollView) Update(now time.Time) bool {
	if sv.wheelActive && now.Sub(sv.lastWheel) >= wheelIdleTimeout {
		sv.wheelActive = false
		sv.stopNested()
	}

	if sv.momentumActive {
		dt := now.Sub(sv.lastMomentumTime).Seconds()
		sv.lastMomentumTime = now

		// Apply friction (deceleration)
		sv.momentumVelocity *= momentumFriction

		if math.Abs(sv.momentumVelocity) < momentumMinVelocity {
			sv.stopMomentum()
		} else if consumed := sv.ScrollBy(sv.momentumVelocity * dt); consumed == 0 && dt > 0 {
			// Nothing in the chain could move: the fling hit a hard edge
			sv.stopMomentum()
		}
	}

	return sv.momentumActive || sv.wheelActive
}

// clamp restricts a value to a range.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
