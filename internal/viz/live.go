package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	canvasWidth     = 50
	canvasHeight    = 20
	historyCapacity = 600
	trailCapacity   = 200
	maxSpeed        = 4096
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Model integrates a two-body configuration and draws it on every tick.
// The view is the x/y projection of both bodies and their trails.
type Model struct {
	cfg        sim.Config
	bodies     [2]body.Body
	step       int
	t          float32
	speed      int
	running    bool
	canvas     *Canvas
	trails     [2][][2]float64
	separation []float64
	degenerate bool
}

func NewModel(cfg sim.Config) Model {
	m := Model{
		cfg:     cfg,
		speed:   1,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	m.reset()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-":
			m.speed = max(m.speed/2, 1)
		}
	case TickMsg:
		if m.running {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs up to n steps, stopping at the configured step count.
func (m *Model) advance(n int) {
	for i := 0; i < n && m.step < m.cfg.Steps; i++ {
		m.t += m.cfg.Dt
		sim.Step(&m.bodies, m.cfg.Dt)
		m.step++
	}
	if m.step >= m.cfg.Steps {
		m.running = false
	}

	for i, b := range m.bodies {
		if !b.Position.IsFinite() {
			m.degenerate = true
			m.running = false
			continue
		}
		m.trails[i] = append(m.trails[i], [2]float64{float64(b.Position.X), float64(b.Position.Y)})
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}

	snap := sim.Snapshot{Bodies: m.bodies}
	m.separation = append(m.separation, float64(snap.Separation()))
	if len(m.separation) > historyCapacity {
		m.separation = m.separation[1:]
	}
}

func (m *Model) reset() {
	m.bodies = [2]body.Body{m.cfg.Bodies[0].Body(), m.cfg.Bodies[1].Body()}
	m.step = 0
	m.t = 0
	m.degenerate = false
	for i, b := range m.bodies {
		m.trails[i] = [][2]float64{{float64(b.Position.X), float64(b.Position.Y)}}
	}
	m.separation = m.separation[:0]
}

func (m Model) draw() {
	m.canvas.Clear()

	all := make([][2]float64, 0, len(m.trails[0])+len(m.trails[1]))
	all = append(all, m.trails[0]...)
	all = append(all, m.trails[1]...)
	view := Fit(all)

	for _, trail := range m.trails {
		for i, p := range trail {
			x, y := view.Project(m.canvas, p[0], p[1])
			if i == 0 {
				m.canvas.Set(x, y)
				continue
			}
			px, py := view.Project(m.canvas, trail[i-1][0], trail[i-1][1])
			m.canvas.DrawLine(px, py, x, y)
		}
		if len(trail) > 0 {
			last := trail[len(trail)-1]
			x, y := view.Project(m.canvas, last[0], last[1])
			m.canvas.Dot(x, y)
		}
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render("TWO-BODY") + "\n\n")

	switch {
	case m.degenerate:
		s.WriteString(StatusError.Render("DEGENERATE (NaN/Inf)"))
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING"))
	case m.step >= m.cfg.Steps:
		s.WriteString(StatusPaused.Render("DONE"))
	default:
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	progress := 1.0
	if m.cfg.Steps > 0 {
		progress = float64(m.step) / float64(m.cfg.Steps)
	}
	s.WriteString(ProgressBar(progress, 30) + "\n\n")

	s.WriteString(row("Step", fmt.Sprintf("%d / %d", m.step, m.cfg.Steps)))
	s.WriteString(row("Time", fmt.Sprintf("%.1f s", m.t)))
	s.WriteString(row("Steps/frame", fmt.Sprintf("%d", m.speed)))
	if n := len(m.separation); n > 0 {
		s.WriteString(row("Separation", fmt.Sprintf("%.4g m", m.separation[n-1])))
	}

	if len(m.separation) > 1 && !m.degenerate {
		chart := asciigraph.Plot(m.separation, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("separation"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:Pause R:Reset +/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
