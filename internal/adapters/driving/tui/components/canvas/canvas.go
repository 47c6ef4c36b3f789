// Package canvas draws visual scenes as terminal text.
package canvas

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/algomaster/internal/core/visual"
)

// Glyphs used on the canvas.
const (
	glyphEdge       = '·'
	glyphActiveEdge = '•'
	glyphPoint      = '●'
	glyphSelected   = '◉'
	glyphLine       = '∙'
	glyphAxisY      = '│'
	glyphAxisX      = '─'
	glyphOrigin     = '└'
)

// matrixRamp shades matrix tiles from faint to strong.
var matrixRamp = []lipgloss.Color{"#2A2140", "#3D2A6B", "#553399", "#6B3FC4", "#7C3AED"}

// Canvas renders scenes into a fixed-size character grid.
type Canvas struct {
	styles *styles.Styles
	width  int
	height int
}

// New creates a canvas.
func New(s *styles.Styles) *Canvas {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Canvas{styles: s, width: 60, height: 16}
}

// SetDimensions sets the drawing area in cells.
func (c *Canvas) SetDimensions(width, height int) {
	c.width = max(width, 20)
	c.height = max(height, 8)
}

// Dimensions returns the drawing area in cells.
func (c *Canvas) Dimensions() (int, int) {
	return c.width, c.height
}

// Render draws scene. selected is the primitive index to emphasise, or -1.
func (c *Canvas) Render(scene visual.Scene, selected int) string {
	switch s := scene.(type) {
	case *visual.FlowScene:
		return c.renderFlow(s, selected)
	case *visual.ChartScene:
		return c.renderChart(s, selected)
	case *visual.MatrixScene:
		return c.renderMatrix(s, selected)
	case visual.EmptyScene:
		return c.placeholder(s.Message)
	default:
		return c.placeholder(visual.UnsupportedTypeText)
	}
}

func (c *Canvas) placeholder(msg string) string {
	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, c.styles.Muted.Render(msg))
}

func (c *Canvas) renderFlow(s *visual.FlowScene, selected int) string {
	g := newGrid(c.width, c.height)

	edge := c.styles.Muted
	active := lipgloss.NewStyle().Foreground(c.styles.Theme().Highlight)
	for _, e := range s.Edges {
		st, glyph := &edge, glyphEdge
		if e.Active {
			st, glyph = &active, glyphActiveEdge
		}
		x1, y1 := g.scale(e.X1, e.Y1)
		x2, y2 := g.scale(e.X2, e.Y2)
		g.line(x1, y1, x2, y2, glyph, st)
	}

	for i := range s.Nodes {
		n := s.Nodes[i]
		st := lipgloss.NewStyle().Foreground(c.styles.ToneColor(n.Tone))
		if n.Highlight {
			st = st.Bold(true)
		}
		label := "[" + n.Label + "]"
		if i == selected {
			st = c.styles.Selected
			label = "<" + n.Label + ">"
		}
		x, y := g.scale(n.PosX, n.PosY)
		g.text(x-lipgloss.Width(label)/2, y, label, &st)
	}
	return g.String()
}

func (c *Canvas) renderChart(s *visual.ChartScene, selected int) string {
	// One row for the x axis and one for its caption.
	plotH := c.height - 2
	g := newGrid(c.width, plotH+1)

	axis := c.styles.Muted
	for y := 0; y < plotH; y++ {
		g.set(0, y, glyphAxisY, &axis)
	}
	for x := 1; x < c.width; x++ {
		g.set(x, plotH, glyphAxisX, &axis)
	}
	g.set(0, plotH, glyphOrigin, &axis)

	toCell := func(x, y float64) (int, int) {
		fx := fraction(x, s.XDomain)
		fy := fraction(y, s.YDomain)
		col := 1 + int(math.Round(fx*float64(c.width-2)))
		row := int(math.Round((1 - fy) * float64(plotH-1)))
		return col, row
	}

	if s.Line != nil {
		ls := lipgloss.NewStyle().Foreground(c.styles.Theme().Secondary)
		prevX, prevY := -1, -1
		for col := 1; col < c.width; col++ {
			x := s.XDomain[0] + (s.XDomain[1]-s.XDomain[0])*float64(col-1)/float64(c.width-2)
			y := s.Line.At(x)
			if y < s.YDomain[0] || y > s.YDomain[1] {
				prevX = -1
				continue
			}
			cx, cy := toCell(x, y)
			if prevX >= 0 {
				g.line(prevX, prevY, cx, cy, glyphLine, &ls)
			} else {
				g.set(cx, cy, glyphLine, &ls)
			}
			prevX, prevY = cx, cy
		}
	}

	for i := range s.Points {
		p := s.Points[i]
		col, row := toCell(p.X, p.Y)
		st := lipgloss.NewStyle().Foreground(c.styles.ToneColor(p.Tone))
		glyph := glyphPoint
		if i == selected {
			st = c.styles.Selected
			glyph = glyphSelected
		}
		g.set(col, row, glyph, &st)
	}

	caption := fmt.Sprintf("%s: [%s, %s]   %s: [%s, %s]",
		s.XLabel, formatNum(s.XDomain[0]), formatNum(s.XDomain[1]),
		s.YLabel, formatNum(s.YDomain[0]), formatNum(s.YDomain[1]))
	return g.String() + "\n" + c.styles.Muted.Render(caption)
}

func (c *Canvas) renderMatrix(s *visual.MatrixScene, selected int) string {
	cellW := 7
	if s.Cols > 0 {
		cellW = min(cellW, max(4, (c.width-1)/s.Cols))
	}

	rows := make([]string, 0, len(s.Tiles))
	i := 0
	for _, row := range s.Tiles {
		cells := make([]string, 0, len(row))
		for _, t := range row {
			st := lipgloss.NewStyle().
				Width(cellW).
				Align(lipgloss.Center).
				Background(matrixRamp[rampIndex(t.Intensity)])
			if t.Bright {
				st = st.Foreground(lipgloss.Color("#FFFFFF"))
			} else {
				st = st.Foreground(c.styles.Theme().Foreground)
			}
			if t.Highlight {
				st = st.Bold(true).Underline(true)
			}
			if i == selected {
				st = c.styles.Selected.Width(cellW).Align(lipgloss.Center)
			}
			cells = append(cells, st.Render(formatNum(t.Value)))
			i++
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func rampIndex(intensity float64) int {
	idx := int(math.Round((intensity - visual.MinIntensity) / (visual.MaxIntensity - visual.MinIntensity) * float64(len(matrixRamp)-1)))
	return max(0, min(len(matrixRamp)-1, idx))
}

func fraction(v float64, d [2]float64) float64 {
	span := d[1] - d[0]
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 0.5
	}
	return math.Max(0, math.Min(1, (v-d[0])/span))
}

func formatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
