package visual

import "github.com/custodia-labs/algomaster/internal/core/domain"

// Click is an event emitted by selecting a scene primitive.
type Click interface {
	isClick()
}

// NodeClick is emitted when a flow node is selected.
type NodeClick struct {
	Node domain.NodeData
}

// PointClick is emitted when a chart point is selected.
type PointClick struct {
	Point domain.ChartPoint
	Index int
}

// CellClick is emitted when a matrix cell is selected.
type CellClick struct {
	Cell domain.MatrixCell
	Row  int
	Col  int
}

func (NodeClick) isClick()  {}
func (PointClick) isClick() {}
func (CellClick) isClick()  {}
