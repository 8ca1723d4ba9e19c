package refresh

import (
	"errors"
	"testing"
	"time"
)

type scrollFixture struct {
	*fixture
	sv *ScrollView
}

func newScrollFixture(t *testing.T) *scrollFixture {
	t.Helper()
	clock := newFakeClock()
	sv := NewScrollView(600, 3000, DefaultTouchSlopDP*testDensity)
	sv.SetClock(clock.Now)

	f := &fixture{clock: clock}
	opts := DefaultOptions(testDensity)
	opts.Content = sv
	opts.Now = clock.Now
	opts.OnRefresh = func() { f.refreshes++ }
	opts.OnThreshold = func() { f.thresholds++ }
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Layout(1080)
	sv.SetNestedParent(p)
	f.p = p
	return &scrollFixture{fixture: f, sv: sv}
}

func (f *scrollFixture) touch(action Action, y float64) bool {
	return f.p.DispatchTouchEvent(MotionEvent{Action: action, Y: y, Time: f.clock.Now()})
}

func TestTouchPullFromTop(t *testing.T) {
	f := newScrollFixture(t)

	f.touch(ActionDown, 100)
	f.clock.Advance(100 * time.Millisecond)
	f.touch(ActionMove, 110)
	if f.p.Gesture().IsBeingDragged() {
		t.Fatal("drag started inside the touch slop")
	}
	f.touch(ActionMove, 130)
	if !f.p.Gesture().IsBeingDragged() {
		t.Fatal("container did not take the gesture past the slop")
	}
	if _, ok := f.p.Nested().Session(); ok {
		t.Error("content nested session survived the cancel")
	}

	f.touch(ActionMove, 500)
	if want := RubberBand(400*DefaultDragRate, testTotal); !approx(f.offset(), want) {
		t.Errorf("offset = %v, want %v", f.offset(), want)
	}
	f.clock.Advance(time.Second)
	f.touch(ActionUp, 500)

	if !f.p.IsRefreshing() || f.refreshes != 1 {
		t.Errorf("refreshing = %v, refreshes = %d", f.p.IsRefreshing(), f.refreshes)
	}
	if f.sv.ScrollY() != 0 {
		t.Errorf("content scrolled to %v under a pull", f.sv.ScrollY())
	}
}

func TestTouchScrollsContentWhenScrolled(t *testing.T) {
	f := newScrollFixture(t)
	f.sv.SetScrollY(300)

	f.touch(ActionDown, 100)
	f.touch(ActionMove, 200)
	f.clock.Advance(time.Second)
	f.touch(ActionUp, 200)

	if f.sv.ScrollY() != 200 {
		t.Errorf("ScrollY = %v, want 200", f.sv.ScrollY())
	}
	if f.offset() != 0 || f.p.Phase() != PhaseIdle {
		t.Errorf("offset = %v, phase = %v", f.offset(), f.p.Phase())
	}
}

// Content that reaches its top mid-gesture hands the rest of the finger
// travel to the indicator through nested scrolling.
func TestTouchOverscrollBecomesNestedPull(t *testing.T) {
	f := newScrollFixture(t)
	f.sv.SetScrollY(100)

	f.touch(ActionDown, 0)
	f.touch(ActionMove, 50)
	if f.sv.ScrollY() != 50 {
		t.Fatalf("ScrollY = %v, want 50", f.sv.ScrollY())
	}

	f.touch(ActionMove, 250)
	if f.sv.ScrollY() != 0 {
		t.Fatalf("ScrollY = %v, want 0", f.sv.ScrollY())
	}
	if !approx(f.offset(), 120) {
		t.Fatalf("offset = %v, want 120", f.offset())
	}

	f.touch(ActionMove, 300)
	if !approx(f.offset(), 160) {
		t.Fatalf("offset = %v, want 160", f.offset())
	}
	if f.p.Gesture().IsBeingDragged() {
		t.Error("container intercepted a gesture that began with scrolled content")
	}

	f.clock.Advance(time.Second) // too slow to fling
	f.touch(ActionUp, 300)

	if f.p.Phase() != PhaseSettling {
		t.Errorf("phase = %v, want settling", f.p.Phase())
	}
	if f.sv.IsMomentumScrolling() {
		t.Error("slow release started a fling")
	}
}

func TestTouchPushBackScrollsContent(t *testing.T) {
	f := newScrollFixture(t)
	f.sv.SetScrollY(100)

	f.touch(ActionDown, 0)
	f.touch(ActionMove, 350) // 100 scroll + 250 pull
	if !approx(f.offset(), 200) {
		t.Fatalf("offset = %v, want 200", f.offset())
	}

	f.touch(ActionMove, 50) // 300 back: 250 shrinks the pull, 50 scrolls
	if f.offset() != 0 {
		t.Errorf("offset = %v, want 0", f.offset())
	}
	if !approx(f.sv.ScrollY(), 50) {
		t.Errorf("ScrollY = %v, want 50", f.sv.ScrollY())
	}
}

func TestTouchIgnoredWhenDisabled(t *testing.T) {
	f := newScrollFixture(t)
	f.p.SetEnabled(false)

	f.touch(ActionDown, 100)
	f.touch(ActionMove, 500)
	f.touch(ActionUp, 500)

	if f.offset() != 0 || f.refreshes != 0 {
		t.Errorf("disabled container pulled: offset %v, refreshes %d", f.offset(), f.refreshes)
	}
	if f.p.Enabled() {
		t.Error("Enabled() = true")
	}
}

func TestTouchUpwardDragGoesToContent(t *testing.T) {
	f := newScrollFixture(t)

	f.touch(ActionDown, 500)
	f.touch(ActionMove, 300)
	f.clock.Advance(time.Second)
	f.touch(ActionUp, 300)

	if f.sv.ScrollY() != 200 {
		t.Errorf("ScrollY = %v, want 200", f.sv.ScrollY())
	}
	if f.offset() != 0 {
		t.Errorf("offset = %v, want 0", f.offset())
	}
}

func TestFlingAtTopPullsAndSettles(t *testing.T) {
	f := newScrollFixture(t)

	if !f.sv.Fling(-900) {
		t.Fatal("fling was ignored")
	}
	pulled := false
	for i := 0; i < 200 && f.sv.Update(f.clock.Advance(16*time.Millisecond)); i++ {
		f.p.Tick(f.clock.Now())
		if f.offset() > 0 {
			pulled = true
		}
	}

	if !pulled {
		t.Fatal("fling at the top never pulled the indicator")
	}
	if f.sv.IsMomentumScrolling() {
		t.Fatal("fling never stopped")
	}
	if f.p.Phase() != PhaseSettling {
		t.Errorf("phase = %v, want settling", f.p.Phase())
	}
	if f.p.IsRefreshing() {
		t.Error("short fling started a refresh")
	}
}

func TestFlingScrollsContent(t *testing.T) {
	f := newScrollFixture(t)

	if f.sv.Fling(20) {
		t.Error("slow fling started")
	}
	f.sv.Fling(2000)
	for i := 0; i < 300 && f.sv.Update(f.clock.Advance(16*time.Millisecond)); i++ {
	}

	if f.sv.ScrollY() <= 0 {
		t.Errorf("ScrollY = %v after a downward fling", f.sv.ScrollY())
	}
	if f.offset() != 0 {
		t.Errorf("offset = %v, want 0", f.offset())
	}
}

func TestWheelPullSettlesWhenIdle(t *testing.T) {
	f := newScrollFixture(t)

	for i := 0; i < 3; i++ {
		f.sv.WheelScroll(-40, f.clock.Advance(20*time.Millisecond))
	}
	if !approx(f.offset(), 96) {
		t.Fatalf("offset = %v, want 96", f.offset())
	}

	f.sv.Update(f.clock.Advance(wheelIdleTimeout))
	if f.p.Phase() != PhaseSettling {
		t.Errorf("phase = %v, want settling", f.p.Phase())
	}
}

func TestDetach(t *testing.T) {
	t.Run("while settling", func(t *testing.T) {
		f := newFixture(t)
		g := f.p.Gesture()
		g.DragStart(0, 0)
		g.DragMove(0, 200)
		g.DragEnd(0, 200)

		f.p.Detach()

		if f.p.Animating() || f.frame(time.Second) {
			t.Error("animations still running after Detach")
		}
		if f.p.Visual().Visible {
			t.Error("indicator visible after Detach")
		}
		if f.offset() != 0 || f.p.Phase() != PhaseIdle {
			t.Errorf("offset = %v, phase = %v", f.offset(), f.p.Phase())
		}
	})

	t.Run("while refreshing", func(t *testing.T) {
		f := newFixture(t)
		f.p.SetRefreshing(true)
		f.frame(50 * time.Millisecond)
		mid := f.offset()

		f.p.Detach()
		f.frame(time.Second)

		if f.offset() != mid {
			t.Errorf("offset moved from %v to %v after Detach", mid, f.offset())
		}
		if v := f.p.Visual(); v.Spinning || v.Visible {
			t.Errorf("visual = %+v after Detach", v)
		}
		if f.p.StartNestedScroll(AxisVertical, ScrollTouch) {
			t.Error("detached container accepted a nested scroll")
		}

		f.p.Attach()
		if f.p.Detached() {
			t.Fatal("Attach did not clear detached")
		}
		v := f.p.Visual()
		if !v.Visible || !v.Spinning || !approx(f.offset(), testTotal) {
			t.Errorf("after Attach: visual = %+v, offset = %v", v, f.offset())
		}
	})
}

func TestSecondPointerIgnored(t *testing.T) {
	f := newFixture(t)
	touch := func(action Action, id int, y float64) {
		f.p.DispatchTouchEvent(MotionEvent{Action: action, PointerID: id, Y: y, Time: f.clock.Now()})
	}

	touch(ActionDown, 1, 100)
	touch(ActionMove, 1, 300)
	pulled := f.offset()
	if want := RubberBand(200*DefaultDragRate, testTotal); !approx(pulled, want) {
		t.Fatalf("offset = %v, want %v", pulled, want)
	}

	touch(ActionDown, 2, 300)
	touch(ActionMove, 2, 700)
	touch(ActionUp, 2, 700)
	if f.offset() != pulled || f.p.Phase() != PhaseDragging {
		t.Fatalf("second pointer moved the pull: offset = %v, phase = %v", f.offset(), f.p.Phase())
	}

	touch(ActionUp, 1, 300)
	f.runOffsetAnimation(100)
	if f.p.Phase() != PhaseIdle || f.offset() != 0 || f.p.Visual().Visible {
		t.Errorf("after release: phase = %v, offset = %v, visible = %v", f.p.Phase(), f.offset(), f.p.Visual().Visible)
	}

	touch(ActionDown, 2, 0)
	touch(ActionMove, 2, 400)
	touch(ActionUp, 2, 400)
	if !f.p.IsRefreshing() || f.refreshes != 1 {
		t.Errorf("next gesture: refreshing = %v, refreshes = %d", f.p.IsRefreshing(), f.refreshes)
	}
}

func TestDragStartIgnoresOtherPointerWhileDragging(t *testing.T) {
	f := newFixture(t)
	g := f.p.Gesture()
	g.DragStart(1, 0)
	g.DragMove(1, 200)

	g.DragStart(2, 200)
	if st := g.State(); st.ActivePointer != 1 || !st.IsDragging || st.InitialY != 0 {
		t.Fatalf("state = %+v after a second pointer went down", st)
	}

	g.DragEnd(1, 200)
	if g.Phase() != PhaseSettling {
		t.Errorf("phase = %v, want settling", g.Phase())
	}
}

func TestDetachDuringNestedPull(t *testing.T) {
	anc := &recordingParent{}
	f := newFixture(t, func(o *Options) { o.Ancestor = anc })
	beginNested(t, f.p, ScrollTouch)
	f.p.NestedScroll(0, 0, 0, -100, ScrollTouch)
	if f.p.Phase() != PhaseDragging {
		t.Fatalf("phase = %v, want dragging", f.p.Phase())
	}

	f.p.Detach()
	if _, ok := f.p.Nested().Session(); ok {
		t.Error("nested session survived Detach")
	}
	if anc.stopped != 1 {
		t.Errorf("ancestor stopped %d times, want 1", anc.stopped)
	}

	if _, cy := f.p.NestedScroll(0, 0, 0, -100, ScrollTouch); cy != 0 {
		t.Errorf("detached container consumed %v", cy)
	}
	if _, cy := f.p.NestedPreScroll(0, 50, ScrollTouch); cy != 0 {
		t.Errorf("detached container pre-consumed %v", cy)
	}
	f.p.StopNestedScroll(ScrollTouch)
	if f.p.DispatchTouchEvent(MotionEvent{Action: ActionDown, Y: 0}) {
		t.Error("detached container handled a touch")
	}
	f.frame(time.Second)

	if f.p.Phase() != PhaseIdle || f.offset() != 0 || f.p.Visual().Visible {
		t.Errorf("phase = %v, offset = %v, visible = %v", f.p.Phase(), f.offset(), f.p.Visual().Visible)
	}
	if anc.stopped != 1 || len(anc.postDYU) != 1 {
		t.Errorf("ancestor saw stops = %d, post-scrolls = %d after Detach", anc.stopped, len(anc.postDYU))
	}
}

func TestNewValidates(t *testing.T) {
	content := &stubContent{}
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{"valid", func(o *Options) {}, nil},
		{"no content", func(o *Options) { o.Content = nil }, ErrNoContent},
		{"zero distance", func(o *Options) { o.TotalDragDistance = 0 }, ErrInvalidGeometry},
		{"negative diameter", func(o *Options) { o.IndicatorDiameter = -1 }, ErrInvalidGeometry},
		{"zero drag rate", func(o *Options) { o.DragRate = 0 }, ErrInvalidGeometry},
		{"negative slop", func(o *Options) { o.TouchSlop = -1 }, ErrInvalidGeometry},
		{"zero spin", func(o *Options) { o.SpinDuration = 0 }, ErrInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions(1)
			opts.Content = content
			tt.mutate(&opts)

			p, err := New(opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && p == nil {
				t.Fatal("New returned nil container")
			}
		})
	}
}

func TestNewPicksStyleColor(t *testing.T) {
	opts := DefaultOptions(1)
	opts.Content = &stubContent{}
	opts.Style = StyleUncontained

	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.Visual().Style.Color; got != ColorPrimary {
		t.Errorf("color = %v, want %v", got.Hex(), ColorPrimary.Hex())
	}
}
