package httpapi

import (
	"context"
	"sync"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Ensure mocks implement interfaces.
var (
	_ driven.ExplanationGenerator = (*mockGenerator)(nil)
	_ driven.ChatAssistant        = (*mockAssistant)(nil)
	_ driven.TopicCatalog         = (*mockCatalog)(nil)
)

type mockGenerator struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockGenerator) Generate(_ context.Context, topic string) (*domain.Explanation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return visualExplanation(topic), nil
}

func (m *mockGenerator) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type mockAssistant struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (m *mockAssistant) Reply(context.Context, string, []domain.ChatMessage, string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reply, m.err
}

type mockCatalog struct {
	cats []domain.Category
}

func (m *mockCatalog) Categories() ([]domain.Category, error) {
	return m.cats, nil
}

func ptr(v float64) *float64 { return &v }

// visualExplanation has one step of each visual kind: FLOW, CHART, MATRIX.
func visualExplanation(name string) *domain.Explanation {
	return &domain.Explanation{
		Name:        name,
		Category:    "监督学习",
		Summary:     "summary",
		DatasetInfo: domain.DatasetInfo{Name: "toy", Description: "toy data"},
		Steps: []domain.Step{
			{
				StepNumber: 1, Title: "flow", KeyTerms: []string{"输入层"},
				VisualData: domain.VisualData{
					Type: domain.VisualFlow,
					Nodes: []domain.NodeData{
						{ID: "in", Label: "输入", Type: domain.NodeInput, X: ptr(10), Y: ptr(50)},
						{ID: "out", Label: "输出", Type: domain.NodeOutput, X: ptr(90), Y: ptr(50)},
					},
					Edges: []domain.EdgeData{{From: "in", To: "out"}},
				},
			},
			{
				StepNumber: 2, Title: "chart",
				VisualData: domain.VisualData{
					Type:      domain.VisualChart,
					ChartData: []domain.ChartPoint{{X: 1, Y: 2, Group: "A"}, {X: 2, Y: 4}},
				},
			},
			{
				StepNumber: 3, Title: "matrix",
				VisualData: domain.VisualData{
					Type:   domain.VisualMatrix,
					Matrix: [][]domain.MatrixCell{{{Value: 0.25, Label: "a"}, {Value: 0.75}}},
				},
			},
		},
	}
}
