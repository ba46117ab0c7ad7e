package tui

import "strings"

const blank = '⠀'

// dotBits maps a sub-cell (row, col) to its braille dot bit:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a monochrome raster of braille cells, each holding a 2x4 block
// of dots. Drawing coordinates are in dots.
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

// Cells is the canvas size in dots.
func (c *Canvas) Cells() (w, h int) {
	return c.Width * 2, c.Height * 4
}

// At returns the braille rune of cell (col, row).
func (c *Canvas) At(col, row int) rune {
	return c.cells[row*c.Width+col]
}

// Set lights the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.cells[(y/4)*c.Width+x/2] |= dotBits[y%4][x%2]
}

// Dot lights a 2x2 block with its top-left dot at (x, y).
func (c *Canvas) Dot(x, y int) {
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// DrawLine plots a Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(len(c.cells) * 4)
	for row := 0; row < c.Height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
