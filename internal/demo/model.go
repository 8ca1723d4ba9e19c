// Package demo is a terminal host for the pull-to-refresh container: a
// scrolling list driven by mouse drags and the wheel, with the indicator drawn
// over the top of the list.
package demo

import (
	"fmt"
	"strings"
	"time"

	pullrefresh "github.com/agiangrant/pullrefresh"
	"github.com/agiangrant/pullrefresh/refresh"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Terminal cells are mapped onto a pixel grid so the container works in the
// same units as on a touch screen.
const (
	rowPx     = 16.0
	cellPx    = 8.0
	wheelRows = 3
	itemCount = 60
)

const help = "drag down at the top to refresh · wheel/j/k scroll · r refresh · s style · e enable · q quit"

type frameMsg time.Time

// Option configures a Model.
type Option func(*Model)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLogf traces container phase changes.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(m *Model) { m.logf = logf }
}

// Model is the bubbletea model of the demo.
type Model struct {
	cfg  pullrefresh.Config
	now  func() time.Time
	logf func(format string, args ...any)

	p        *refresh.PullToRefresh
	sv       *refresh.ScrollView
	viewport viewport.Model

	width, height int
	ready         bool
	ticking       bool // a frame tick is scheduled
	svActive      bool // scroll view wants frames
	pressed       bool

	refreshes       int
	refreshDeadline time.Time
	lastRefresh     time.Time
	thresholds      int
}

// New builds the demo model from a config.
func New(cfg pullrefresh.Config, opts ...Option) (*Model, error) {
	m := &Model{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	slop := cfg.Gesture.TouchSlopDP * cfg.Display.Density
	m.sv = refresh.NewScrollView(0, float64(itemCount+1)*rowPx, slop)
	m.sv.SetClock(m.clock)

	ropts, err := cfg.Options(m.sv)
	if err != nil {
		return nil, err
	}
	ropts.Now = m.clock
	ropts.Logf = m.logf
	ropts.OnRefresh = m.startRefresh
	ropts.OnThreshold = func() { m.thresholds++ }

	m.p, err = refresh.New(ropts)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	m.sv.SetNestedParent(m.p)

	m.viewport = viewport.New(0, 0)
	m.viewport.SetContent(m.content())
	return m, nil
}

// Container exposes the pull-to-refresh container.
func (m *Model) Container() *refresh.PullToRefresh { return m.p }

// ScrollView exposes the scrolling list.
func (m *Model) ScrollView() *refresh.ScrollView { return m.sv }

// Refreshes returns how many refreshes have started.
func (m *Model) Refreshes() int { return m.refreshes }

func (m *Model) clock() time.Time { return m.now() }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if m.p.IndicatorStyle() == refresh.StyleContained {
				m.p.SetIndicatorStyle(refresh.StyleUncontained)
			} else {
				m.p.SetIndicatorStyle(refresh.StyleContained)
			}
		case "r":
			if !m.p.IsRefreshing() {
				m.p.SetRefreshing(true)
				m.startRefresh()
			}
		case "e":
			m.p.SetEnabled(!m.p.Enabled())
		case "j", "down":
			m.sv.ScrollBy(rowPx)
		case "k", "up":
			m.sv.ScrollBy(-rowPx)
		case "g", "home":
			m.sv.SetScrollY(0)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case frameMsg:
		m.ticking = false
		m.frame(time.Time(msg))
	}

	m.syncViewport()
	return m, m.scheduleFrame()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	bodyRows := height - 2 // title and help lines
	if bodyRows < 1 {
		bodyRows = 1
	}
	m.viewport.Width = width
	m.viewport.Height = bodyRows
	m.sv.SetViewportHeight(float64(bodyRows) * rowPx)
	m.p.Layout(float64(width) * cellPx)
	m.ready = true
}

// handleMouse turns terminal mouse events into touches. Rows are counted
// from the top of the list.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	ev := refresh.MotionEvent{
		X:    float64(msg.X) * cellPx,
		Y:    float64(msg.Y-1) * rowPx,
		Time: m.now(),
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.sv.WheelScroll(-wheelRows*rowPx, ev.Time)
		m.svActive = true
		return
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.sv.WheelScroll(wheelRows*rowPx, ev.Time)
		m.svActive = true
		return
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		m.pressed = true
		ev.Action = refresh.ActionDown
	case msg.Action == tea.MouseActionMotion && m.pressed:
		ev.Action = refresh.ActionMove
	case msg.Action == tea.MouseActionRelease && m.pressed:
		m.pressed = false
		ev.Action = refresh.ActionUp
	default:
		return
	}

	m.p.DispatchTouchEvent(ev)
	if ev.Action == refresh.ActionUp {
		// the release may have started a fling
		m.svActive = m.sv.IsMomentumScrolling()
	}
}

// frame advances the scroll view and container, and completes a refresh
// whose delay has run out.
func (m *Model) frame(now time.Time) {
	m.svActive = m.sv.Update(now)
	m.p.Tick(now)

	if m.p.IsRefreshing() && !m.refreshDeadline.IsZero() && !now.Before(m.refreshDeadline) {
		m.refreshDeadline = time.Time{}
		m.lastRefresh = now
		m.p.SetRefreshing(false)
		m.viewport.SetContent(m.content())
	}
}

func (m *Model) startRefresh() {
	m.refreshes++
	m.refreshDeadline = m.now().Add(m.cfg.RefreshDelay())
}

func (m *Model) needsFrames() bool {
	return m.p.Animating() || m.svActive || !m.refreshDeadline.IsZero()
}

func (m *Model) scheduleFrame() tea.Cmd {
	if m.ticking || !m.needsFrames() {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) syncViewport() {
	m.viewport.SetYOffset(int(m.sv.ScrollY() / rowPx))
}

func (m *Model) content() string {
	var b strings.Builder
	if m.lastRefresh.IsZero() {
		b.WriteString(itemStyle.Render("Last refreshed: never"))
	} else {
		b.WriteString(itemStyle.Render(fmt.Sprintf("Last refreshed: %s (#%d)", m.lastRefresh.Format("15:04:05"), m.refreshes)))
	}
	for i := 1; i <= itemCount; i++ {
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(fmt.Sprintf("Item %02d", i)))
	}
	return b.String()
}

func (m *Model) status() string {
	st := m.p.State()
	s := fmt.Sprintf("%-10s offset %5.1f  %s  refreshes %d",
		m.p.Phase(), st.CurrentOffset, m.p.IndicatorStyle(), m.refreshes)

	switch {
	case !m.p.Enabled():
		return statusStyle.Render(s) + "  " + hintStyle.Render("disabled")
	case m.p.Phase() == refresh.PhaseDragging && st.ThresholdReached:
		return statusStyle.Render(s) + "  " + hintStyle.Render("release to refresh")
	case m.p.Phase() == refresh.PhaseDragging:
		return statusStyle.Render(s) + "  " + hintStyle.Render("pull to refresh")
	}
	return statusStyle.Render(s)
}

// overlayIndicator draws the indicator over the list row it sits on.
func (m *Model) overlayIndicator(body string) string {
	v := m.p.Visual()
	if !v.Visible {
		return body
	}
	lines := strings.Split(body, "\n")
	row := int(v.Y / rowPx)
	if row >= len(lines) {
		row = len(lines) - 1
	}
	col := int((v.X + v.Diameter/2) / cellPx)
	if col < 0 {
		col = 0
	}
	lines[row] = strings.Repeat(" ", col) + indicatorStyle(v.Style).Render(glyph(v))
	return strings.Join(lines, "\n")
}

func (m *Model) View() string {
	if !m.ready {
		return "starting…"
	}
	header := titleStyle.Render("pull to refresh") + " " + m.status()
	body := m.overlayIndicator(m.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, helpStyle.Render(help))
}
