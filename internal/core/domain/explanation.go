package domain

// VisualType discriminates the visualisation payload of a step.
type VisualType string

// Available visualisation kinds.
const (
	// VisualFlow is a node/edge diagram.
	VisualFlow VisualType = "FLOW"

	// VisualChart is a scatter plot with an optional regression line.
	VisualChart VisualType = "CHART"

	// VisualMatrix is a heatmap grid of numeric cells.
	VisualMatrix VisualType = "MATRIX"
)

// IsValid returns true if the visual type is recognised.
func (t VisualType) IsValid() bool {
	switch t {
	case VisualFlow, VisualChart, VisualMatrix:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t VisualType) String() string {
	return string(t)
}

// NodeType is the role of a node in a FLOW diagram.
type NodeType string

// Node roles. An empty NodeType is allowed and rendered as a process node.
const (
	NodeInput     NodeType = "input"
	NodeProcess   NodeType = "process"
	NodeOutput    NodeType = "output"
	NodeOperation NodeType = "operation"
)

// Explanation is the structured walkthrough generated for one topic.
// It is produced once by the generation collaborator or loaded from the
// cache, and is read-only afterwards.
type Explanation struct {
	// Name is the display name of the algorithm or scenario.
	Name string `json:"name"`

	// Category is a free-form grouping label.
	Category string `json:"category"`

	// Summary is a short overview of the topic.
	Summary string `json:"summary"`

	// DatasetInfo describes the concrete example dataset used throughout.
	DatasetInfo DatasetInfo `json:"datasetInfo"`

	// UseCases lists where the topic is applied.
	UseCases []string `json:"useCases"`

	// Steps is the ordered walkthrough. Position order is authoritative.
	Steps []Step `json:"steps"`
}

// DatasetInfo describes the example dataset a walkthrough is built around.
type DatasetInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Fields       []string `json:"fields"`
	SampleCount  string   `json:"sampleCount"`
	Distribution string   `json:"distribution"`
}

// Step is one stage of the walkthrough.
type Step struct {
	// StepNumber is informational. Playback and progress use the position
	// of the step within Explanation.Steps.
	StepNumber int `json:"stepNumber"`

	Title string `json:"title"`

	// Description is markdown.
	Description string `json:"description"`

	// KeyTerms are the clickable concept labels for this step.
	KeyTerms []string `json:"keyTerms"`

	VisualData VisualData `json:"visualData"`
}

// VisualData is the visual payload of a step. Type selects which of the
// variant fields are meaningful.
type VisualData struct {
	Type VisualType `json:"type"`

	// FLOW
	Nodes []NodeData `json:"nodes,omitempty"`
	Edges []EdgeData `json:"edges,omitempty"`

	// CHART
	ChartData   []ChartPoint `json:"chartData,omitempty"`
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`

	// MATRIX
	Matrix [][]MatrixCell `json:"matrix,omitempty"`
}

// NodeData is a node of a FLOW diagram. X and Y are in a 0-100 logical
// space; nil means the renderer lays the node out.
type NodeData struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Type      NodeType `json:"type,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Highlight bool     `json:"highlight,omitempty"`
}

// EdgeData connects two nodes by id.
type EdgeData struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// ChartPoint is one scatter point.
type ChartPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Group     string  `json:"group,omitempty"`
	Highlight bool    `json:"highlight,omitempty"`
}

// ChartConfig holds optional chart presentation settings.
type ChartConfig struct {
	XAxisLabel string      `json:"xAxisLabel,omitempty"`
	YAxisLabel string      `json:"yAxisLabel,omitempty"`
	ShowLine   bool        `json:"showLine,omitempty"`
	XDomain    *[2]float64 `json:"xDomain,omitempty"`
	YDomain    *[2]float64 `json:"yDomain,omitempty"`
}

// MatrixCell is one heatmap cell. Value is nominally in [0,1].
type MatrixCell struct {
	Value     float64 `json:"value"`
	Label     string  `json:"label,omitempty"`
	Highlight bool    `json:"highlight,omitempty"`
}

// StepCount returns the number of steps.
func (e *Explanation) StepCount() int {
	if e == nil {
		return 0
	}
	return len(e.Steps)
}

// StepAt returns the step at position i and whether it exists.
func (e *Explanation) StepAt(i int) (Step, bool) {
	if e == nil || i < 0 || i >= len(e.Steps) {
		return Step{}, false
	}
	return e.Steps[i], true
}
