package refresh

// Axis is a bit set of scroll axes.
type Axis uint8

const (
	AxisNone       Axis = 0
	AxisHorizontal Axis = 1 << 0
	AxisVertical   Axis = 1 << 1
)

// ScrollKind tells whether a nested scroll comes from a finger on the
// content or from a fling running after the finger lifted.
type ScrollKind uint8

const (
	ScrollTouch ScrollKind = iota
	ScrollFling
)

func (k ScrollKind) String() string {
	if k == ScrollFling {
		return "fling"
	}
	return "touch"
}

// NestedScrollParent is the ancestor side of the nested scroll protocol.
//
// Deltas follow the content's scroll direction: positive dy scrolls the
// content toward its end (the finger moves up), negative dy toward its start.
// Every method that receives a delta returns how much of it was consumed;
// the remainder belongs to the caller.
type NestedScrollParent interface {
	// StartNestedScroll asks whether the parent wants to join a scroll
	// sequence on the given axes.
	StartNestedScroll(axes Axis, kind ScrollKind) bool
	// NestedScrollAccepted opens the sequence after StartNestedScroll agreed.
	NestedScrollAccepted(axes Axis, kind ScrollKind)
	// NestedPreScroll offers a delta before the descendant scrolls itself.
	NestedPreScroll(dx, dy float64, kind ScrollKind) (consumedX, consumedY float64)
	// NestedScroll reports what the descendant consumed and what it could not.
	NestedScroll(dxConsumed, dyConsumed, dxUnconsumed, dyUnconsumed float64, kind ScrollKind) (consumedX, consumedY float64)
	// StopNestedScroll closes the sequence.
	StopNestedScroll(kind ScrollKind)
	// NestedPreFling offers a fling before the descendant flings itself.
	NestedPreFling(velocityX, velocityY float64) bool
	// NestedFling reports a fling the descendant did or did not consume.
	NestedFling(velocityX, velocityY float64, consumed bool) bool
}

// NestedScrollSession is the state of one scroll sequence.
type NestedScrollSession struct {
	TotalUnconsumed float64
	Active          bool

	// pulled is set once the session has moved the indicator
	pulled bool
}

// NestedScrollCoordinator splits nested scroll deltas between the pull
// indicator and the ancestor chain. Whatever the indicator does not use is
// forwarded to the ancestor; nothing is dropped.
type NestedScrollCoordinator struct {
	gesture  *GestureController
	content  Content
	ancestor NestedScrollParent

	enabled        bool
	ancestorActive bool
	session        *NestedScrollSession
}

func newNestedScrollCoordinator(gesture *GestureController, content Content, ancestor NestedScrollParent) *NestedScrollCoordinator {
	return &NestedScrollCoordinator{
		gesture:  gesture,
		content:  content,
		ancestor: ancestor,
		enabled:  true,
	}
}

// SetEnabled turns nested scroll participation on or off.
func (c *NestedScrollCoordinator) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Session returns a copy of the current session and whether one is open.
func (c *NestedScrollCoordinator) Session() (NestedScrollSession, bool) {
	if c.session == nil {
		return NestedScrollSession{}, false
	}
	return *c.session, true
}

// StartNestedScroll accepts vertical sequences while enabled.
func (c *NestedScrollCoordinator) StartNestedScroll(axes Axis, kind ScrollKind) bool {
	return c.enabled && axes&AxisVertical != 0
}

// NestedScrollAccepted opens a session and joins the ancestor, if it wants to.
func (c *NestedScrollCoordinator) NestedScrollAccepted(axes Axis, kind ScrollKind) {
	c.session = &NestedScrollSession{Active: true}
	c.ancestorActive = false
	if c.ancestor != nil && c.ancestor.StartNestedScroll(axes&AxisVertical, kind) {
		c.ancestor.NestedScrollAccepted(axes&AxisVertical, kind)
		c.ancestorActive = true
	}
}

// NestedPreScroll shrinks a pulled indicator before the content scrolls back
// down, then offers what is left to the ancestor.
func (c *NestedScrollCoordinator) NestedPreScroll(dx, dy float64, kind ScrollKind) (consumedX, consumedY float64) {
	if s := c.session; s != nil && dy > 0 && s.TotalUnconsumed > 0 && c.claims() {
		if dy > s.TotalUnconsumed {
			consumedY = s.TotalUnconsumed
			s.TotalUnconsumed = 0
		} else {
			s.TotalUnconsumed -= dy
			consumedY = dy
		}
		c.gesture.Pull(s.TotalUnconsumed)
	}

	if c.ancestorActive {
		px, py := c.ancestor.NestedPreScroll(dx-consumedX, dy-consumedY, kind)
		consumedX += px
		consumedY += py
	}
	return consumedX, consumedY
}

// NestedScroll turns overscroll past the top of the content into pull
// distance and forwards the rest.
func (c *NestedScrollCoordinator) NestedScroll(dxConsumed, dyConsumed, dxUnconsumed, dyUnconsumed float64, kind ScrollKind) (consumedX, consumedY float64) {
	if s := c.session; s != nil && dyUnconsumed < 0 && !c.content.CanScrollUp() && c.claims() {
		s.TotalUnconsumed += -dyUnconsumed
		s.pulled = true
		c.gesture.Pull(s.TotalUnconsumed)
		consumedY = dyUnconsumed
	}

	if c.ancestorActive {
		ax, ay := c.ancestor.NestedScroll(dxConsumed, dyConsumed+consumedY, dxUnconsumed, dyUnconsumed-consumedY, kind)
		consumedX += ax
		consumedY += ay
	}
	return consumedX, consumedY
}

// StopNestedScroll closes the session. A session that pulled the indicator
// is released exactly like a finger lifting at the same distance.
func (c *NestedScrollCoordinator) StopNestedScroll(kind ScrollKind) {
	s := c.session
	c.session = nil

	if s != nil && (s.TotalUnconsumed > 0 || s.pulled) && c.claims() {
		c.gesture.Release(s.TotalUnconsumed)
	}

	if c.ancestorActive {
		c.ancestorActive = false
		c.ancestor.StopNestedScroll(kind)
	}
}

// detach drops the open session without releasing it and ends the
// ancestor's sequence.
func (c *NestedScrollCoordinator) detach() {
	c.session = nil
	if c.ancestorActive {
		c.ancestorActive = false
		c.ancestor.StopNestedScroll(ScrollTouch)
	}
}

// NestedPreFling passes the fling offer to the ancestor.
func (c *NestedScrollCoordinator) NestedPreFling(velocityX, velocityY float64) bool {
	if c.ancestor == nil {
		return false
	}
	return c.ancestor.NestedPreFling(velocityX, velocityY)
}

// NestedFling passes the fling report to the ancestor.
func (c *NestedScrollCoordinator) NestedFling(velocityX, velocityY float64, consumed bool) bool {
	if c.ancestor == nil {
		return false
	}
	return c.ancestor.NestedFling(velocityX, velocityY, consumed)
}

// claims reports whether the indicator may take nested deltas right now.
// A running refresh and a direct touch drag both own the offset already.
func (c *NestedScrollCoordinator) claims() bool {
	return c.enabled && !c.gesture.IsRefreshing() && !c.gesture.IsBeingDragged()
}
