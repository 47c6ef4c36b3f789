package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// mockGenerator implements driven.ExplanationGenerator for testing.
type mockGenerator struct {
	mu     sync.Mutex
	docs   map[string]*domain.Explanation
	err    error
	calls  []string
	block  chan struct{}
	called chan struct{}
}

func newMockGenerator() *mockGenerator {
	return &mockGenerator{docs: make(map[string]*domain.Explanation)}
}

func (m *mockGenerator) Generate(_ context.Context, topic string) (*domain.Explanation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, topic)
	block, called := m.block, m.called
	doc, err := m.docs[topic], m.err
	m.mu.Unlock()

	if called != nil {
		called <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = sampleExplanation(topic, 3)
	}
	return doc, nil
}

func (m *mockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockGenerator) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// mockAssistant implements driven.ChatAssistant for testing.
type mockAssistant struct {
	mu       sync.Mutex
	reply    string
	err      error
	contexts []string
	history  [][]domain.ChatMessage
	block    chan struct{}
	called   chan struct{}
}

func (m *mockAssistant) Reply(_ context.Context, sys string, history []domain.ChatMessage, _ string) (string, error) {
	m.mu.Lock()
	m.contexts = append(m.contexts, sys)
	m.history = append(m.history, history)
	block, called := m.block, m.called
	reply, err := m.reply, m.err
	m.mu.Unlock()

	if called != nil {
		called <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return reply, err
}

func (m *mockAssistant) lastContext() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.contexts) == 0 {
		return ""
	}
	return m.contexts[len(m.contexts)-1]
}

// fakeClock implements driven.Clock with manually fired timers.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers map[int]func()
	next   int
	period time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1700000000000), timers: make(map[int]func())}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Every(d time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.timers[id] = fn
	c.period = d
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.timers, id)
	}
}

// Fire runs every active timer once.
func (c *fakeClock) Fire() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.timers))
	for _, fn := range c.timers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (c *fakeClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// failingCache implements driven.ExplanationCache and fails every call.
type failingCache struct{ err error }

func (f failingCache) Get(context.Context, string) (string, error)           { return "", f.err }
func (f failingCache) Set(context.Context, string, string) error             { return f.err }
func (f failingCache) Delete(context.Context, string) error                  { return f.err }
func (f failingCache) List(context.Context) ([]domain.CacheEntryInfo, error) { return nil, f.err }
func (f failingCache) Clear(context.Context) error                           { return f.err }

// Ensure mocks implement interfaces
var (
	_ driven.ExplanationGenerator = (*mockGenerator)(nil)
	_ driven.ChatAssistant        = (*mockAssistant)(nil)
	_ driven.Clock                = (*fakeClock)(nil)
	_ driven.ExplanationCache     = failingCache{}
)

func sampleExplanation(name string, steps int) *domain.Explanation {
	doc := &domain.Explanation{
		Name:        name,
		Category:    "无监督学习",
		Summary:     name + " summary",
		DatasetInfo: domain.DatasetInfo{Name: "Iris", Description: "150 flowers"},
	}
	for i := 0; i < steps; i++ {
		doc.Steps = append(doc.Steps, domain.Step{
			StepNumber:  i + 1,
			Title:       "Step " + string(rune('A'+i)),
			Description: "desc",
			KeyTerms:    []string{"centroid"},
			VisualData:  domain.VisualData{Type: domain.VisualChart, ChartData: []domain.ChartPoint{{X: 1, Y: 2}}},
		})
	}
	return doc
}
