package visual

import "github.com/custodia-labs/algomaster/internal/core/domain"

// Empty-state texts shown in place of a scene.
const (
	EmptyMatrixText     = "暂无矩阵数据"
	EmptyFlowText       = "暂无流程数据"
	EmptyChartText      = "暂无图表数据"
	UnsupportedTypeText = "暂不支持该可视化类型"
)

// Scene is a renderable visualisation. Its selectable primitives are
// numbered 0..Len()-1 in reading order.
type Scene interface {
	// Kind returns the payload type the scene was built from.
	Kind() domain.VisualType

	// Len returns the number of selectable primitives.
	Len() int

	// Click returns the event emitted when primitive i is selected.
	Click(i int) (Click, bool)

	isScene()
}

// Render dispatches on the payload type.
func Render(vd domain.VisualData) Scene {
	switch vd.Type {
	case domain.VisualFlow:
		if len(vd.Nodes) == 0 {
			return EmptyScene{Type: vd.Type, Message: EmptyFlowText}
		}
		return NewFlowScene(vd.Nodes, vd.Edges)
	case domain.VisualChart:
		if len(vd.ChartData) == 0 {
			return EmptyScene{Type: vd.Type, Message: EmptyChartText}
		}
		return NewChartScene(vd.ChartData, vd.ChartConfig)
	case domain.VisualMatrix:
		if len(vd.Matrix) == 0 {
			return EmptyScene{Type: vd.Type, Message: EmptyMatrixText}
		}
		return NewMatrixScene(vd.Matrix)
	default:
		return EmptyScene{Type: vd.Type, Message: UnsupportedTypeText}
	}
}

// EmptyScene is the neutral placeholder for missing or unknown payloads.
type EmptyScene struct {
	Type    domain.VisualType `json:"type"`
	Message string            `json:"message"`
}

// Kind implements Scene.
func (s EmptyScene) Kind() domain.VisualType { return s.Type }

// Len implements Scene.
func (EmptyScene) Len() int { return 0 }

// Click implements Scene.
func (EmptyScene) Click(int) (Click, bool) { return nil, false }

func (EmptyScene) isScene() {}
