package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

// BodyColors are the stroke colors of body 1 and body 2.
var BodyColors = [2]string{"#00d7ff", "#ff8700"}

// TrajectorySVG renders the x/y projection of both bodies' paths. Snapshots
// with a non-finite position are skipped.
func TrajectorySVG(w io.Writer, snapshots []sim.Snapshot, width, height int) error {
	var paths [2][][2]float64
	var all [][2]float64
	for _, s := range snapshots {
		for i, b := range s.Bodies {
			x, y := float64(b.Position.X), float64(b.Position.Y)
			if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
				continue
			}
			paths[i] = append(paths[i], [2]float64{x, y})
			all = append(all, [2]float64{x, y})
		}
	}
	if len(all) == 0 {
		return fmt.Errorf("export: no finite positions")
	}

	vp := viz.Fit(all)
	side := float64(min(width, height))
	ox, oy := (float64(width)-side)/2, (float64(height)-side)/2
	project := func(p [2]float64) (float64, float64) {
		x := ox + (p[0]-vp.MinX)/(vp.MaxX-vp.MinX)*side
		y := oy + (1-(p[1]-vp.MinY)/(vp.MaxY-vp.MinY))*side
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		sb.WriteString(`<path fill="none" stroke="` + BodyColors[i] + `" stroke-width="1.5" d="`)
		for j, p := range path {
			x, y := project(p)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(path[len(path)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, BodyColors[i])
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
