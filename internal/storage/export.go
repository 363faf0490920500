package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Times  []float32   `json:"times"`
	States [][]float32 `json:"states"`
}

// ExportJSON writes a run with one flattened state row per snapshot:
// x1 y1 z1 vx1 vy1 vz1 x2 y2 z2 vx2 vy2 vz2.
func ExportJSON(w io.Writer, meta *RunMetadata, snapshots []sim.Snapshot) error {
	data := ExportData{
		Run:    *meta,
		Times:  make([]float32, len(snapshots)),
		States: make([][]float32, len(snapshots)),
	}

	for i, s := range snapshots {
		data.Times[i] = s.Time
		row := make([]float32, 0, 12)
		for _, b := range s.Bodies {
			row = append(row,
				b.Position.X, b.Position.Y, b.Position.Z,
				b.Velocity.X, b.Velocity.Y, b.Velocity.Z)
		}
		data.States[i] = row
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
