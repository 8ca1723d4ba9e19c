package refresh

import (
	"math"
	"testing"
	"time"
)

const (
	testDensity = 3.0
	testTotal   = DefaultTotalDragDistanceDP * testDensity // 288px
	tolerance   = 1e-9
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

// stubContent is content whose scroll position is set directly by the test.
type stubContent struct {
	canScrollUp bool
}

func (s *stubContent) CanScrollUp() bool { return s.canScrollUp }

type fixture struct {
	p          *PullToRefresh
	clock      *fakeClock
	content    *stubContent
	refreshes  int
	thresholds int
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{clock: newFakeClock(), content: &stubContent{}}

	opts := DefaultOptions(testDensity)
	opts.Content = f.content
	opts.Now = f.clock.Now
	opts.OnRefresh = func() { f.refreshes++ }
	opts.OnThreshold = func() { f.thresholds++ }
	for _, fn := range mutate {
		fn(&opts)
	}

	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Layout(1080)
	f.p = p
	return f
}

// frame advances the clock by d and ticks the container.
func (f *fixture) frame(d time.Duration) bool {
	return f.p.Tick(f.clock.Advance(d))
}

// runOffsetAnimation ticks 16ms frames until the offset animation ends, up
// to limit frames. The spin loop is not waited on.
func (f *fixture) runOffsetAnimation(limit int) {
	for i := 0; i < limit && f.p.Gesture().OffsetAnimating(); i++ {
		f.frame(16 * time.Millisecond)
	}
}

func (f *fixture) offset() float64 {
	return f.p.State().CurrentOffset
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
