package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/algomaster/internal/adapters/driven/clock"
	"github.com/custodia-labs/algomaster/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
	"github.com/custodia-labs/algomaster/internal/core/services"
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
	return testExplanation(topic, 3), nil
}

type mockAssistant struct {
	mu       sync.Mutex
	reply    string
	err      error
	contexts []string
}

func (m *mockAssistant) Reply(_ context.Context, sys string, _ []domain.ChatMessage, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts = append(m.contexts, sys)
	return m.reply, m.err
}

type mockCatalog struct {
	cats []domain.Category
	err  error
}

func (m *mockCatalog) Categories() ([]domain.Category, error) {
	return m.cats, m.err
}

func testExplanation(name string, steps int) *domain.Explanation {
	doc := &domain.Explanation{
		Name:        name,
		Category:    "监督学习",
		Summary:     name + " summary",
		DatasetInfo: domain.DatasetInfo{Name: "toy", Description: "toy data"},
	}
	for i := 1; i <= steps; i++ {
		doc.Steps = append(doc.Steps, domain.Step{
			StepNumber:  i,
			Title:       fmt.Sprintf("step %d", i),
			Description: "desc",
			VisualData:  domain.VisualData{Type: domain.VisualMatrix, Matrix: [][]domain.MatrixCell{{{Value: 0.5}}}},
		})
	}
	return doc
}

type testHarness struct {
	generator *mockGenerator
	assistant *mockAssistant
	ports     *Ports
}

func newTestHarness() *testHarness {
	h := &testHarness{
		generator: &mockGenerator{},
		assistant: &mockAssistant{reply: "answer"},
	}
	explanations := services.NewExplanationService(memory.NewExplanationCache(), h.generator)
	h.ports = &Ports{
		Explanations: explanations,
		Catalog: services.NewCatalogService(&mockCatalog{cats: []domain.Category{
			{Name: "监督学习", Kind: domain.TopicAlgorithm, Topics: []string{"SVM"}},
		}}),
		NewSession: func() driving.LearningSession {
			return services.NewLearningSession(services.SessionConfig{
				Explanations: explanations,
				Assistant:    h.assistant,
				Clock:        clock.New(),
				Settings:     domain.PlayerSettings{AutoplayInterval: domain.DefaultAutoplayInterval},
			})
		},
	}
	return h
}
