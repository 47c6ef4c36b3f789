package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r     rune
	style *lipgloss.Style
	// cont marks the second column of a wide rune.
	cont bool
}

// grid is a character raster addressed by column and row.
type grid struct {
	w, h  int
	cells [][]cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]cell, h)}
	for y := range g.cells {
		g.cells[y] = make([]cell, w)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{r: ' '}
		}
	}
	return g
}

// scale maps 0-100 scene coordinates to a cell.
func (g *grid) scale(x, y float64) (int, int) {
	col := int(math.Round(x / 100 * float64(g.w-1)))
	row := int(math.Round(y / 100 * float64(g.h-1)))
	return max(0, min(g.w-1, col)), max(0, min(g.h-1, row))
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *grid) set(x, y int, r rune, st *lipgloss.Style) {
	if !g.inside(x, y) {
		return
	}
	g.put(x, y, cell{r: r, style: st})
}

// put replaces one cell, blanking any wide rune it splits.
func (g *grid) put(x, y int, c cell) {
	row := g.cells[y]
	if row[x].cont && x > 0 {
		row[x-1] = cell{r: ' '}
	}
	if x+1 < g.w && row[x+1].cont {
		row[x+1] = cell{r: ' '}
	}
	row[x] = c
}

// line draws a Bresenham segment, leaving its endpoints free for labels.
func (g *grid) line(x1, y1, x2, y2 int, r rune, st *lipgloss.Style) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		if (x != x1 || y != y1) && (x != x2 || y != y2) {
			g.set(x, y, r, st)
		}
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// text writes s starting at column x, shifting it left to stay inside the row.
func (g *grid) text(x, y int, s string, st *lipgloss.Style) {
	if y < 0 || y >= g.h {
		return
	}
	width := lipgloss.Width(s)
	if x+width > g.w {
		x = g.w - width
	}
	x = max(0, x)
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if x+rw > g.w {
			return
		}
		if rw == 2 {
			g.put(x+1, y, cell{r: ' '})
		}
		g.put(x, y, cell{r: r, style: st})
		if rw == 2 {
			g.cells[y][x+1] = cell{style: st, cont: true}
		}
		x += rw
	}
}

// String renders the grid, grouping runs of equally styled cells.
func (g *grid) String() string {
	lines := make([]string, g.h)
	for y, row := range g.cells {
		var b, run strings.Builder
		var cur *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur != nil {
				b.WriteString(cur.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.cont {
				continue
			}
			if c.style != cur {
				flush()
				cur = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
