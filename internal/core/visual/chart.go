package visual

import (
	"math"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// Line is a fitted line drawn between two endpoints.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// ChartPoint is a plotted point with its tone.
type ChartPoint struct {
	domain.ChartPoint
	Tone Tone `json:"tone"`
}

// ChartScene is a scatter plot.
type ChartScene struct {
	Points  []ChartPoint `json:"points"`
	XLabel  string       `json:"xLabel"`
	YLabel  string       `json:"yLabel"`
	XDomain [2]float64   `json:"xDomain"`
	YDomain [2]float64   `json:"yDomain"`

	// Line is the least-squares fit, nil when not requested or undefined.
	Line *Line `json:"line,omitempty"`
}

// NewChartScene builds a scatter plot. Domains come from the config when
// set, otherwise from the data extent.
func NewChartScene(points []domain.ChartPoint, cfg *domain.ChartConfig) *ChartScene {
	s := &ChartScene{XLabel: "X", YLabel: "Y", Points: make([]ChartPoint, 0, len(points))}
	for _, p := range points {
		s.Points = append(s.Points, ChartPoint{ChartPoint: p, Tone: pointTone(p)})
	}

	s.XDomain = extent(points, func(p domain.ChartPoint) float64 { return p.X })
	s.YDomain = extent(points, func(p domain.ChartPoint) float64 { return p.Y })

	if cfg != nil {
		if cfg.XAxisLabel != "" {
			s.XLabel = cfg.XAxisLabel
		}
		if cfg.YAxisLabel != "" {
			s.YLabel = cfg.YAxisLabel
		}
		if cfg.XDomain != nil {
			s.XDomain = *cfg.XDomain
		}
		if cfg.YDomain != nil {
			s.YDomain = *cfg.YDomain
		}
		if cfg.ShowLine {
			if l, ok := Regression(points); ok {
				s.Line = &l
			}
		}
	}
	return s
}

// Kind implements Scene.
func (*ChartScene) Kind() domain.VisualType { return domain.VisualChart }

// Len implements Scene.
func (s *ChartScene) Len() int { return len(s.Points) }

// Click implements Scene.
func (s *ChartScene) Click(i int) (Click, bool) {
	if i < 0 || i >= len(s.Points) {
		return nil, false
	}
	return PointClick{Point: s.Points[i].ChartPoint, Index: i}, true
}

func (*ChartScene) isScene() {}

// Regression fits an ordinary least-squares line over points and spans it
// from the minimum to the maximum x. It reports false for fewer than two
// points, zero x variance, or a non-finite result.
func Regression(points []domain.ChartPoint) (Line, bool) {
	if len(points) < 2 {
		return Line{}, false
	}
	n := float64(len(points))
	var sumX, sumY float64
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	if minX == maxX {
		return Line{}, false
	}

	meanX, meanY := sumX/n, sumY/n
	var sxx, sxy float64
	for _, p := range points {
		dx := p.X - meanX
		sxx += dx * dx
		sxy += dx * (p.Y - meanY)
	}
	if sxx == 0 {
		return Line{}, false
	}
	slope := sxy / sxx
	intercept := meanY - slope*meanX
	if !isFinite(slope) || !isFinite(intercept) {
		return Line{}, false
	}

	l := Line{Slope: slope, Intercept: intercept, X1: minX, X2: maxX}
	l.Y1, l.Y2 = l.At(minX), l.At(maxX)
	return l, true
}

func pointTone(p domain.ChartPoint) Tone {
	switch {
	case p.Highlight:
		return ToneHighlight
	case p.Group == "B":
		return ToneSecondary
	default:
		return TonePrimary
	}
}

// extent returns [min, max] of f over points, widened by one unit on
// each side when all values coincide.
func extent(points []domain.ChartPoint, f func(domain.ChartPoint) float64) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		v := f(p)
		if !isFinite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return [2]float64{0, 1}
	}
	if lo == hi {
		return [2]float64{lo - 1, hi + 1}
	}
	return [2]float64{lo, hi}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
