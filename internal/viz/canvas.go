package viz

import (
	"strings"
)

// Braille cell dot bits, indexed [row][col]:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of Braille cells. Pixel coordinates run over
// (Width*2) x (Height*4) sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return
	}
	c.Grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

// Dot sets a 2x2 block of pixels centered near (x, y).
func (c *Canvas) Dot(x, y int) {
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps the x/y plane of world coordinates onto canvas pixels,
// keeping the aspect ratio square.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

// Fit returns a viewport containing all points with a 10% margin.
func Fit(points [][2]float64) Viewport {
	if len(points) == 0 {
		return Viewport{-1, -1, 1, 1}
	}
	v := Viewport{points[0][0], points[0][1], points[0][0], points[0][1]}
	for _, p := range points[1:] {
		v.MinX = min(v.MinX, p[0])
		v.MaxX = max(v.MaxX, p[0])
		v.MinY = min(v.MinY, p[1])
		v.MaxY = max(v.MaxY, p[1])
	}

	span := max(v.MaxX-v.MinX, v.MaxY-v.MinY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (v.MinX+v.MaxX)/2, (v.MinY+v.MaxY)/2
	return Viewport{cx - span/2, cy - span/2, cx + span/2, cy + span/2}
}

// Project returns the pixel for world point (x, y). Y grows upward.
func (v Viewport) Project(c *Canvas, x, y float64) (int, int) {
	pw, ph := float64(c.PixelWidth()-1), float64(c.PixelHeight()-1)
	side := min(pw, ph)
	ox, oy := (pw-side)/2, (ph-side)/2

	px := ox + (x-v.MinX)/(v.MaxX-v.MinX)*side
	py := oy + (1-(y-v.MinY)/(v.MaxY-v.MinY))*side
	return int(px), int(py)
}
