package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 100)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 in first cell, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8 in second cell, got %U", c.Grid[0][1])
	}

	c.Clear()
	if strings.TrimRight(c.String(), "\n") != "\u2800\u2800" {
		t.Errorf("canvas not cleared: %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 3)

	for col := 0; col < c.Width; col++ {
		if c.Grid[0][col] == brailleBlank {
			t.Errorf("cell %d left blank by diagonal line", col)
		}
	}
	if c.Grid[0][0]&pixelMap[0][0] == 0 || c.Grid[0][3]&pixelMap[3][1] == 0 {
		t.Errorf("line endpoints not set: %q", c.String())
	}

	c.Clear()
	c.DrawLine(2, 1, 2, 1)
	if c.Grid[0][1] != brailleBlank|pixelMap[1][0] {
		t.Errorf("single-point line should set one dot, got %U", c.Grid[0][1])
	}
}

func TestModelDrawConnectsTrail(t *testing.T) {
	m := NewModel(sim.DefaultConfig())
	m.trails = [2][][2]float64{
		{{0, 0}, {10, 0}},
		{{0, 10}},
	}
	m.draw()

	view := Fit([][2]float64{{0, 0}, {10, 0}, {0, 10}})
	x0, y := view.Project(m.canvas, 0, 0)
	x1, _ := view.Project(m.canvas, 10, 0)
	for x := x0; x <= x1; x++ {
		if m.canvas.Grid[y/4][x/2]&pixelMap[y%4][x%2] == 0 {
			t.Fatalf("pixel (%d,%d) between trail points not drawn", x, y)
		}
	}
}

func TestViewportProject(t *testing.T) {
	c := NewCanvas(10, 5)
	v := Fit([][2]float64{{-1, -1}, {1, 1}})

	x0, y0 := v.Project(c, v.MinX, v.MinY)
	x1, y1 := v.Project(c, v.MaxX, v.MaxY)

	if x0 >= x1 {
		t.Errorf("x not increasing: %d >= %d", x0, x1)
	}
	if y0 <= y1 {
		t.Errorf("y should grow upward: %d <= %d", y0, y1)
	}
	if x1 >= c.PixelWidth() || y0 >= c.PixelHeight() || x0 < 0 || y1 < 0 {
		t.Errorf("projection out of canvas: (%d,%d) (%d,%d)", x0, y0, x1, y1)
	}
}

func TestFitDegenerate(t *testing.T) {
	v := Fit([][2]float64{{5, 5}})
	if v.MaxX <= v.MinX || v.MaxY <= v.MinY {
		t.Errorf("expected non-empty viewport, got %+v", v)
	}
}

func TestModelAdvance(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Steps = 5

	var m tea.Model = NewModel(cfg)
	m, _ = m.Update(TickMsg{})
	lm := m.(Model)

	if lm.step != 1 {
		t.Errorf("expected 1 step per tick, got %d", lm.step)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m, _ = m.Update(TickMsg{})
	lm = m.(Model)

	if lm.step != 5 {
		t.Errorf("expected run to stop at 5 steps, got %d", lm.step)
	}
	if lm.running {
		t.Error("expected model to stop after final step")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	lm = m.(Model)
	if lm.step != 0 || lm.bodies[1].Position != vecmath.New(10, 10, 10) {
		t.Errorf("reset did not restore initial state: %+v", lm.bodies)
	}

	if !strings.Contains(lm.View(), "TWO-BODY") {
		t.Error("view missing header")
	}
}

func TestModelDegenerate(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Steps = 5
	cfg.Bodies[1].Position = cfg.Bodies[0].Position

	var m tea.Model = NewModel(cfg)
	m, _ = m.Update(TickMsg{})
	lm := m.(Model)

	if !lm.degenerate || lm.running {
		t.Error("expected degenerate model to stop")
	}
	if !strings.Contains(lm.View(), "DEGENERATE") {
		t.Error("view does not report degenerate state")
	}
}

func TestRenderSummary(t *testing.T) {
	seps := []float64{3, 2, 1, 2, 3}
	out := RenderSummary(RunInfo{
		Title:      "reference",
		StepsTaken: 5,
		Steps:      5,
		Time:       0.5,
		Metrics:    map[string]float64{"energy_drift": 0.01},
	}, analysis.Summarize(seps, 0.1), seps)

	for _, want := range []string{"reference", "COMPLETE", "energy_drift", "1 peri"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	failed := RenderSummary(RunInfo{Title: "x", Err: errors.New("boom")}, analysis.Summary{}, nil)
	if !strings.Contains(failed, "boom") {
		t.Errorf("summary missing error:\n%s", failed)
	}
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if s != "▁▂▃▄▅▆▇█" {
		t.Errorf("unexpected sparkline %q", s)
	}
	if Sparkline(nil, 3) != "───" {
		t.Error("expected flat line for empty input")
	}
}
