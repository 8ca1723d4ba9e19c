package script

import (
	"fmt"
	"io"
	"math"
	"time"

	pullrefresh "github.com/agiangrant/pullrefresh"
	"github.com/agiangrant/pullrefresh/refresh"
)

// Defaults for scripts that leave the layout out.
const (
	defaultWidth    = 1080
	defaultViewport = 600
	defaultHeight   = 3000

	// offsetTolerance absorbs float noise in expected offsets, in pixels
	offsetTolerance = 0.5
)

// Frame is the container state recorded after a step.
type Frame struct {
	At         time.Duration
	Step       int
	Action     string
	Phase      refresh.Phase
	Offset     float64
	ScrollY    float64
	Refreshing bool
	Visual     refresh.Visual
}

// Trace is the result of running a script.
type Trace struct {
	Name       string
	Frames     []Frame
	Refreshes  int
	Thresholds int
	Failures   []string
}

// Failed reports whether any expectation did not hold.
func (t *Trace) Failed() bool {
	return len(t.Failures) > 0
}

// Write prints the trace as a table followed by failed expectations.
func (t *Trace) Write(w io.Writer) error {
	if t.Name != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", t.Name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%8s %4s %-8s %-10s %8s %8s %5s %6s %4s\n",
		"t(ms)", "step", "action", "phase", "offset", "scrollY", "scale", "rot", "vis"); err != nil {
		return err
	}
	for _, f := range t.Frames {
		vis := "-"
		if f.Visual.Visible {
			vis = "y"
		}
		if f.Visual.Spinning {
			vis = "spin"
		}
		if _, err := fmt.Fprintf(w, "%8d %4d %-8s %-10s %8.1f %8.1f %5.2f %6.1f %4s\n",
			f.At.Milliseconds(), f.Step, f.Action, f.Phase, f.Offset, f.ScrollY,
			f.Visual.Scale, f.Visual.Rotation, vis); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "refreshes=%d thresholds=%d\n", t.Refreshes, t.Thresholds); err != nil {
		return err
	}
	for _, msg := range t.Failures {
		if _, err := fmt.Fprintf(w, "FAIL %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}

// Runner replays scripts against a container built from a config.
type Runner struct {
	cfg  pullrefresh.Config
	logf func(format string, args ...any)
}

// NewRunner creates a runner. logf, when set, receives phase transitions.
func NewRunner(cfg pullrefresh.Config, logf func(format string, args ...any)) *Runner {
	return &Runner{cfg: cfg, logf: logf}
}

// session is the state of one run.
type session struct {
	start time.Time
	now   time.Time
	frame time.Duration

	sv    *refresh.ScrollView
	p     *refresh.PullToRefresh
	trace *Trace
}

// Run replays s on a fresh container with a simulated clock. Expectation
// failures are collected in the trace; the error is for scripts that cannot
// run at all.
func (r *Runner) Run(s *Script) (*Trace, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ses := &session{
		start: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		frame: r.cfg.FrameInterval(),
		trace: &Trace{Name: s.Name},
	}
	ses.now = ses.start
	clock := func() time.Time { return ses.now }

	viewport := orDefault(s.Content.Viewport, defaultViewport)
	height := orDefault(s.Content.Height, defaultHeight)
	ses.sv = refresh.NewScrollView(viewport, height, r.cfg.Gesture.TouchSlopDP*r.cfg.Display.Density)
	ses.sv.SetClock(clock)
	ses.sv.SetScrollY(s.Content.Scroll)

	opts, err := r.cfg.Options(ses.sv)
	if err != nil {
		return nil, fmt.Errorf("container options: %w", err)
	}
	opts.Now = clock
	opts.Logf = r.logf
	opts.OnRefresh = func() { ses.trace.Refreshes++ }
	opts.OnThreshold = func() { ses.trace.Thresholds++ }

	ses.p, err = refresh.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	ses.sv.SetNestedParent(ses.p)
	ses.p.Layout(orDefault(s.Width, defaultWidth))

	for i, st := range s.Steps {
		if err := ses.apply(i+1, st); err != nil {
			return ses.trace, err
		}
		ses.record(i+1, st.Action)
	}
	return ses.trace, nil
}

func (s *session) apply(n int, st Step) error {
	switch st.Action {
	case ActionDown, ActionMove, ActionUp, ActionCancel:
		s.p.DispatchTouchEvent(refresh.MotionEvent{
			Action:    touchAction(st.Action),
			PointerID: st.Pointer,
			Y:         st.Y,
			Time:      s.now,
		})
	case ActionWheel:
		s.sv.WheelScroll(st.DY, s.now)
	case ActionFling:
		s.sv.Fling(st.Velocity)
	case ActionWait:
		s.advance(st.Duration)
	case ActionRefresh:
		s.p.SetRefreshing(true)
	case ActionFinish:
		s.p.SetRefreshing(false)
	case ActionStyle:
		style, err := refresh.ParseStyle(st.Style)
		if err != nil {
			return fmt.Errorf("step %d: %w", n, err)
		}
		s.p.SetIndicatorStyle(style)
	case ActionEnable:
		s.p.SetEnabled(true)
	case ActionDisable:
		s.p.SetEnabled(false)
	case ActionExpect:
		s.check(n, st.Expect)
	}
	return nil
}

// advance runs frames until d has passed.
func (s *session) advance(d time.Duration) {
	end := s.now.Add(d)
	for s.now.Before(end) {
		step := s.frame
		if rest := end.Sub(s.now); rest < step {
			step = rest
		}
		s.now = s.now.Add(step)
		s.sv.Update(s.now)
		s.p.Tick(s.now)
	}
}

func (s *session) record(n int, action string) {
	st := s.p.State()
	s.trace.Frames = append(s.trace.Frames, Frame{
		At:         s.now.Sub(s.start),
		Step:       n,
		Action:     action,
		Phase:      s.p.Phase(),
		Offset:     st.CurrentOffset,
		ScrollY:    s.sv.ScrollY(),
		Refreshing: s.p.IsRefreshing(),
		Visual:     s.p.Visual(),
	})
}

func (s *session) check(n int, e *Expectation) {
	fail := func(format string, args ...any) {
		s.trace.Failures = append(s.trace.Failures, fmt.Sprintf("step %d: ", n)+fmt.Sprintf(format, args...))
	}

	if e.Phase != "" && s.p.Phase().String() != e.Phase {
		fail("phase = %s, want %s", s.p.Phase(), e.Phase)
	}
	if e.Refreshing != nil && s.p.IsRefreshing() != *e.Refreshing {
		fail("refreshing = %v, want %v", s.p.IsRefreshing(), *e.Refreshing)
	}
	if e.Visible != nil && s.p.Visual().Visible != *e.Visible {
		fail("visible = %v, want %v", s.p.Visual().Visible, *e.Visible)
	}
	if e.Offset != nil {
		if got := s.p.State().CurrentOffset; math.Abs(got-*e.Offset) > offsetTolerance {
			fail("offset = %.2f, want %.2f", got, *e.Offset)
		}
	}
	if e.ScrollY != nil {
		if got := s.sv.ScrollY(); math.Abs(got-*e.ScrollY) > offsetTolerance {
			fail("scroll_y = %.2f, want %.2f", got, *e.ScrollY)
		}
	}
	if e.Refreshes != nil && s.trace.Refreshes != *e.Refreshes {
		fail("refreshes = %d, want %d", s.trace.Refreshes, *e.Refreshes)
	}
	if e.Thresholds != nil && s.trace.Thresholds != *e.Thresholds {
		fail("thresholds = %d, want %d", s.trace.Thresholds, *e.Thresholds)
	}
}

func touchAction(name string) refresh.Action {
	switch name {
	case ActionDown:
		return refresh.ActionDown
	case ActionMove:
		return refresh.ActionMove
	case ActionUp:
		return refresh.ActionUp
	default:
		return refresh.ActionCancel
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
