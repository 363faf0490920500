// Package report renders simulation snapshots for humans and tools.
//
// [Text] reproduces the per-step console report, [CSV] writes a trajectory
// table and [Recorder] keeps snapshots in memory for storage and plotting.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/sim"
)

// Text writes three lines per snapshot:
//
//	Planeta 1 - Posição: (x, y, z) Velocidade: (vx, vy, vz)
//	Planeta 2 - Posição: (x, y, z) Velocidade: (vx, vy, vz)
//	Tempo t
type Text struct {
	w *bufio.Writer
}

func NewText(w io.Writer) *Text {
	return &Text{w: bufio.NewWriter(w)}
}

func (r *Text) OnStep(s sim.Snapshot) error {
	for i, b := range s.Bodies {
		r.writeBody(i+1, b)
	}
	r.w.WriteString("Tempo ")
	r.w.WriteString(FormatTime(s.Time))
	return r.w.WriteByte('\n')
}

func (r *Text) writeBody(n int, b body.Body) {
	fmt.Fprintf(r.w, "Planeta %d - Posição: (%s, %s, %s) Velocidade: (%s, %s, %s)\n", n,
		Fixed2(b.Position.X), Fixed2(b.Position.Y), Fixed2(b.Position.Z),
		Fixed2(b.Velocity.X), Fixed2(b.Velocity.Y), Fixed2(b.Velocity.Z))
}

func (r *Text) Flush() error {
	return r.w.Flush()
}

// Fixed2 formats v with two decimal places.
func Fixed2(v float32) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}

// FormatTime formats t with the fewest digits that round-trip through
// float32, never switching to exponent notation.
func FormatTime(t float32) string {
	if s, ok := nonFinite(t); ok {
		return s
	}
	return strconv.FormatFloat(float64(t), 'f', -1, 32)
}

func nonFinite(v float32) (string, bool) {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "inf", true
	case math.IsInf(f, -1):
		return "-inf", true
	}
	return "", false
}

// CSV writes one row per snapshot: step, time and position/velocity of both
// bodies.
type CSV struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewCSV(w io.Writer) *CSV {
	return &CSV{w: csv.NewWriter(w)}
}

var CSVHeader = []string{
	"step", "time",
	"x1", "y1", "z1", "vx1", "vy1", "vz1",
	"x2", "y2", "z2", "vx2", "vy2", "vz2",
}

func (c *CSV) OnStep(s sim.Snapshot) error {
	if !c.wroteHeader {
		if err := c.w.Write(CSVHeader); err != nil {
			return err
		}
		c.wroteHeader = true
	}
	return c.w.Write(Row(s))
}

func (c *CSV) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// Row flattens a snapshot into CSVHeader column order.
func Row(s sim.Snapshot) []string {
	row := make([]string, 0, len(CSVHeader))
	row = append(row, strconv.Itoa(s.Step), strconv.FormatFloat(float64(s.Time), 'g', -1, 32))
	for _, b := range s.Bodies {
		for _, v := range []float32{
			b.Position.X, b.Position.Y, b.Position.Z,
			b.Velocity.X, b.Velocity.Y, b.Velocity.Z,
		} {
			row = append(row, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
	}
	return row
}

// Recorder keeps every snapshot it observes. Limit caps the number kept;
// zero means unlimited.
type Recorder struct {
	Limit     int
	Snapshots []sim.Snapshot
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{Limit: limit}
}

func (r *Recorder) OnStep(s sim.Snapshot) error {
	if r.Limit > 0 && len(r.Snapshots) >= r.Limit {
		return nil
	}
	r.Snapshots = append(r.Snapshots, s)
	return nil
}

// Separations returns the distance between the bodies for each snapshot.
func (r *Recorder) Separations() []float64 {
	out := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = float64(s.Separation())
	}
	return out
}
