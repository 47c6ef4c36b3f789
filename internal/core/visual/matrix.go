package visual

import (
	"math"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// Intensity bounds for matrix cells. Values below the floor are still
// drawn faintly.
const (
	MinIntensity = 0.1
	MaxIntensity = 1.0
)

// MatrixTile is a drawn cell.
type MatrixTile struct {
	domain.MatrixCell
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Intensity float64 `json:"intensity"`

	// Bright tells surfaces to use light text on the tile.
	Bright bool `json:"bright"`
}

// MatrixScene is a heatmap grid. Ragged input is tolerated: Cols is the
// longest row and shorter rows simply have fewer tiles.
type MatrixScene struct {
	Rows   int            `json:"rows"`
	Cols   int            `json:"cols"`
	Aspect float64        `json:"aspect"`
	Tiles  [][]MatrixTile `json:"tiles"`

	count int
}

// NewMatrixScene builds the heatmap grid.
func NewMatrixScene(m [][]domain.MatrixCell) *MatrixScene {
	s := &MatrixScene{Rows: len(m), Tiles: make([][]MatrixTile, len(m))}
	for r, row := range m {
		s.Cols = max(s.Cols, len(row))
		s.Tiles[r] = make([]MatrixTile, len(row))
		for c, cell := range row {
			s.Tiles[r][c] = MatrixTile{
				MatrixCell: cell,
				Row:        r,
				Col:        c,
				Intensity:  Intensity(cell.Value),
				Bright:     cell.Value > 0.5,
			}
			s.count++
		}
	}
	if s.Rows > 0 && s.Cols > 0 {
		s.Aspect = float64(s.Cols) / float64(s.Rows)
	}
	return s
}

// Intensity clamps a cell value into [MinIntensity, MaxIntensity].
// Non-finite values map to the floor.
func Intensity(v float64) float64 {
	if math.IsNaN(v) {
		return MinIntensity
	}
	return math.Max(MinIntensity, math.Min(MaxIntensity, v))
}

// Kind implements Scene.
func (*MatrixScene) Kind() domain.VisualType { return domain.VisualMatrix }

// Len implements Scene.
func (s *MatrixScene) Len() int { return s.count }

// Click implements Scene. Tiles are numbered row by row.
func (s *MatrixScene) Click(i int) (Click, bool) {
	if i < 0 {
		return nil, false
	}
	for _, row := range s.Tiles {
		if i < len(row) {
			t := row[i]
			return CellClick{Cell: t.MatrixCell, Row: t.Row, Col: t.Col}, true
		}
		i -= len(row)
	}
	return nil, false
}

// TileAt returns the tile at index i in row-major order.
func (s *MatrixScene) TileAt(i int) (MatrixTile, bool) {
	c, ok := s.Click(i)
	if !ok {
		return MatrixTile{}, false
	}
	cc := c.(CellClick)
	return s.Tiles[cc.Row][cc.Col], true
}

func (*MatrixScene) isScene() {}
