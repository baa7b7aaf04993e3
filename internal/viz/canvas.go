package viz

import (
	"math"
	"strings"
)

// brailleBase is the empty braille cell. Each cell holds a 2x4 dot block:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot matrix of Width x Height cells, addressed in dots
// (2·Width by 4·Height).
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBase
		}
	}
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.cells[y/4][x/2] |= dotBits[y%4][x%2]
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		if 2*e >= dy {
			e += dy
			x0 += sx
		}
		if 2*e <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Trail plots the polyline (xs[i], ys[i]) scaled to fill the canvas with
// equal aspect, plus a cross at the coordinate origin when it is in view.
// Non-finite points break the line.
func (c *Canvas) Trail(xs, ys []float64) {
	n := min(len(xs), len(ys))
	if n == 0 {
		return
	}
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	w, h := float64(2*c.Width-1), float64(4*c.Height-1)
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	scale := math.Min(w, h) / span
	px := func(x float64) int { return int(math.Round((x - minX) * scale)) }
	py := func(y float64) int { return int(math.Round(h - (y-minY)*scale)) }

	ox, oy := px(0), py(0)
	for d := -2; d <= 2; d++ {
		c.Set(ox+d, oy)
		c.Set(ox, oy+d)
	}

	havePrev := false
	var lx, ly int
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			havePrev = false
			continue
		}
		x, y := px(xs[i]), py(ys[i])
		if havePrev {
			c.Line(lx, ly, x, y)
		} else {
			c.Set(x, y)
		}
		lx, ly, havePrev = x, y, true
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
