package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/report"
	"github.com/san-kum/gravsim/internal/sim"
)

// RunInfo is what the summary panel shows about a run besides statistics.
type RunInfo struct {
	Title      string
	StepsTaken int
	Steps      int
	Time       float32
	Final      sim.Snapshot
	Metrics    map[string]float64
	Err        error
}

// RenderSummary renders run info, separation statistics and a sparkline of
// the separation series.
func RenderSummary(info RunInfo, s analysis.Summary, separations []float64) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(info.Title) + "\n\n")

	switch {
	case info.Err != nil:
		b.WriteString(StatusError.Render("FAILED: "+info.Err.Error()) + "\n\n")
	case info.StepsTaken < info.Steps:
		b.WriteString(StatusPaused.Render("INCOMPLETE") + "\n\n")
	default:
		b.WriteString(StatusRunning.Render("COMPLETE") + "\n\n")
	}

	progress := 1.0
	if info.Steps > 0 {
		progress = float64(info.StepsTaken) / float64(info.Steps)
	}
	b.WriteString(row("Progress", fmt.Sprintf("%s %d/%d", ProgressBar(progress, 20), info.StepsTaken, info.Steps)))
	b.WriteString(row("Time", report.FormatTime(info.Time)+" s"))

	for i, body := range info.Final.Bodies {
		p, v := body.Position, body.Velocity
		b.WriteString(row(fmt.Sprintf("Body %d pos", i+1),
			fmt.Sprintf("(%.3g, %.3g, %.3g)", p.X, p.Y, p.Z)))
		b.WriteString(row(fmt.Sprintf("Body %d vel", i+1),
			fmt.Sprintf("(%.3g, %.3g, %.3g)", v.X, v.Y, v.Z)))
	}

	b.WriteString("\n")
	b.WriteString(row("Samples", fmt.Sprintf("%d (%d invalid)", s.Samples, s.Invalid)))
	b.WriteString(row("Separation", fmt.Sprintf("%.4g ± %.3g m", s.Mean, s.StdDev)))
	b.WriteString(row("Range", fmt.Sprintf("[%.4g, %.4g] m", s.Min, s.Max)))
	b.WriteString(row("Apsides", fmt.Sprintf("%d peri / %d apo", len(s.Periapses), len(s.Apoapses))))
	if s.Period > 0 {
		b.WriteString(row("Period", fmt.Sprintf("%.4g s", s.Period)))
	}

	if len(info.Metrics) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(info.Metrics))
		for name := range info.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(row(name, fmt.Sprintf("%.6g", info.Metrics[name])))
		}
	}

	finite := make([]float64, 0, len(separations))
	for _, d := range separations {
		if !math.IsNaN(d) && !math.IsInf(d, 0) {
			finite = append(finite, d)
		}
	}
	if len(finite) > 1 {
		b.WriteString("\n" + SparkMid.Render(Sparkline(finite, 48)) + "\n")
	}

	return GlassPanel.Render(b.String())
}
