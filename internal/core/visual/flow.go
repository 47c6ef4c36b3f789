package visual

import "github.com/custodia-labs/algomaster/internal/core/domain"

// Node radii in the 0-100 coordinate space.
const (
	NodeRadius          = 4.0
	HighlightNodeRadius = 6.0
)

// Tone is the semantic colour of a primitive. Surfaces map tones to
// concrete colours.
type Tone string

// Tones.
const (
	ToneInput     Tone = "input"
	ToneProcess   Tone = "process"
	ToneOutput    Tone = "output"
	ToneOperation Tone = "operation"
	ToneHighlight Tone = "highlight"
	TonePrimary   Tone = "primary"
	ToneSecondary Tone = "secondary"
)

// FlowNode is a positioned node.
type FlowNode struct {
	domain.NodeData
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
	Radius float64 `json:"radius"`
	Tone   Tone    `json:"tone"`
}

// FlowEdge is a directed segment between two positioned nodes.
type FlowEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Label  string  `json:"label,omitempty"`
	Active bool    `json:"active,omitempty"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// FlowScene is a node/edge diagram in a 0-100 square.
type FlowScene struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// NewFlowScene positions nodes and resolves edges. Nodes without
// coordinates get a layered layout by role. Edges whose endpoints are
// unknown are dropped.
func NewFlowScene(nodes []domain.NodeData, edges []domain.EdgeData) *FlowScene {
	s := &FlowScene{Nodes: make([]FlowNode, 0, len(nodes))}
	auto := layout(nodes)
	byID := make(map[string]int, len(nodes))

	for i, n := range nodes {
		fn := FlowNode{NodeData: n, Radius: NodeRadius, Tone: nodeTone(n)}
		if n.Highlight {
			fn.Radius = HighlightNodeRadius
		}
		fn.PosX, fn.PosY = auto[i][0], auto[i][1]
		if n.X != nil {
			fn.PosX = *n.X
		}
		if n.Y != nil {
			fn.PosY = *n.Y
		}
		byID[n.ID] = len(s.Nodes)
		s.Nodes = append(s.Nodes, fn)
	}

	for _, e := range edges {
		from, ok := byID[e.From]
		if !ok {
			continue
		}
		to, ok := byID[e.To]
		if !ok {
			continue
		}
		a, b := s.Nodes[from], s.Nodes[to]
		s.Edges = append(s.Edges, FlowEdge{
			From: e.From, To: e.To, Label: e.Label, Active: e.Active,
			X1: a.PosX, Y1: a.PosY, X2: b.PosX, Y2: b.PosY,
		})
	}
	return s
}

// Kind implements Scene.
func (*FlowScene) Kind() domain.VisualType { return domain.VisualFlow }

// Len implements Scene.
func (s *FlowScene) Len() int { return len(s.Nodes) }

// Click implements Scene.
func (s *FlowScene) Click(i int) (Click, bool) {
	if i < 0 || i >= len(s.Nodes) {
		return nil, false
	}
	return NodeClick{Node: s.Nodes[i].NodeData}, true
}

func (*FlowScene) isScene() {}

func nodeTone(n domain.NodeData) Tone {
	if n.Highlight {
		return ToneHighlight
	}
	switch n.Type {
	case domain.NodeInput:
		return ToneInput
	case domain.NodeOutput:
		return ToneOutput
	case domain.NodeOperation:
		return ToneOperation
	default:
		return ToneProcess
	}
}

// layout places nodes in three columns (inputs, processing, outputs)
// and spreads each column evenly top to bottom.
func layout(nodes []domain.NodeData) [][2]float64 {
	columns := [3]float64{15, 50, 85}
	var members [3][]int
	for i, n := range nodes {
		c := 1
		switch n.Type {
		case domain.NodeInput:
			c = 0
		case domain.NodeOutput:
			c = 2
		}
		members[c] = append(members[c], i)
	}

	pos := make([][2]float64, len(nodes))
	for c, idx := range members {
		step := 100.0 / float64(len(idx)+1)
		for k, i := range idx {
			pos[i] = [2]float64{columns[c], step * float64(k+1)}
		}
	}
	return pos
}
