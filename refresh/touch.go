package refresh

import "time"

// ============================================================================
// Touch Events
// ============================================================================

// Action identifies the kind of pointer event.
type Action uint8

const (
	ActionDown Action = iota + 1
	ActionMove
	ActionUp
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// MotionEvent is a single-pointer touch event in container coordinates.
type MotionEvent struct {
	Action    Action
	PointerID int
	X, Y      float64
	Time      time.Time
}

// TouchHandler is implemented by content that handles touches the container
// does not take.
type TouchHandler interface {
	// TouchEvent processes an event. Return true if it was consumed.
	TouchEvent(ev MotionEvent) bool
}

// InterceptTouchEvent watches a touch on its way to the content and reports
// whether the container takes the rest of the gesture.
func (p *PullToRefresh) InterceptTouchEvent(ev MotionEvent) bool {
	g := p.gesture
	if !p.enabled || p.detached || p.content.CanScrollUp() || g.IsRefreshing() {
		return false
	}

	switch ev.Action {
	case ActionDown:
		g.DragStart(ev.PointerID, ev.Y)
	case ActionMove:
		g.DragMove(ev.PointerID, ev.Y)
	case ActionUp, ActionCancel:
		g.resetPointer()
	}
	return g.IsBeingDragged()
}

// TouchEvent handles a touch the container owns. It returns false for
// events the container does not want, such as an upward pull that should
// scroll the content instead.
func (p *PullToRefresh) TouchEvent(ev MotionEvent) bool {
	g := p.gesture
	if !p.enabled || p.detached || p.content.CanScrollUp() {
		return false
	}

	switch ev.Action {
	case ActionDown:
		g.DragStart(ev.PointerID, ev.Y)
		return g.tracking(ev.PointerID)
	case ActionMove:
		if !g.tracking(ev.PointerID) {
			return false
		}
		consumed := g.DragMove(ev.PointerID, ev.Y)
		return consumed || !g.IsBeingDragged()
	case ActionUp, ActionCancel:
		g.DragEnd(ev.PointerID, ev.Y)
	}
	return false
}

// DispatchTouchEvent routes a touch the way a host view tree would: the
// container gets the first look, the content gets the event otherwise, and
// the content receives a cancel once the container takes over. Only the
// first pointer of a gesture is routed; events from other pointers are
// dropped until it lifts. A detached container drops everything.
func (p *PullToRefresh) DispatchTouchEvent(ev MotionEvent) bool {
	if p.detached {
		return false
	}
	if p.touching && ev.PointerID != p.touchPointer {
		return false
	}
	if ev.Action == ActionDown {
		p.touching = true
		p.touchPointer = ev.PointerID
	}

	child, _ := p.content.(TouchHandler)
	handled := false

	switch {
	case p.intercepting:
		handled = p.TouchEvent(ev)
	case p.InterceptTouchEvent(ev):
		p.intercepting = true
		if child != nil && p.childTouching {
			cancel := ev
			cancel.Action = ActionCancel
			child.TouchEvent(cancel)
			p.childTouching = false
		}
		handled = p.TouchEvent(ev)
	case child != nil:
		handled = child.TouchEvent(ev)
		p.childTouching = true
	}

	if ev.Action == ActionUp || ev.Action == ActionCancel {
		p.intercepting = false
		p.childTouching = false
		p.touching = false
	}
	return handled
}
