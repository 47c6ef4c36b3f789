package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// TermRouter turns clicks on terms and visual primitives into tutor
// questions and holds at most one question until the chat takes it.
// A newer click replaces an unsent question.
type TermRouter struct {
	mu      sync.Mutex
	pending string
}

// NewTermRouter creates an empty router.
func NewTermRouter() *TermRouter {
	return &TermRouter{}
}

// QuestionForTerm wraps a concept label in the tutor question template.
func QuestionForTerm(term string) string {
	return fmt.Sprintf("请解释一下\"%s\"在这个算法步骤中具体代表什么？能否用通俗的语言举个例子？", term)
}

// NodeTerm describes a flow node as a concept label.
func NodeTerm(n domain.NodeData) string {
	t := n.Type
	if t == "" {
		t = domain.NodeProcess
	}
	return fmt.Sprintf("可视化节点 \"%s\" (Type: %s)", n.Label, t)
}

// PointTerm describes a chart point as a concept label.
func PointTerm(p domain.ChartPoint) string {
	s := fmt.Sprintf("数据点 (X:%.2f, Y:%.2f)", p.X, p.Y)
	if p.Group != "" {
		s += fmt.Sprintf(" [组 %s]", p.Group)
	}
	return s
}

// CellTerm describes a matrix cell as a concept label.
func CellTerm(c domain.MatrixCell, row, col int) string {
	s := fmt.Sprintf("矩阵单元格 [%d, %d] (Value: %.4f)", row, col, c.Value)
	if c.Label != "" {
		s += fmt.Sprintf(" [%s]", c.Label)
	}
	return s
}

// Route stages the question for term. Blank terms are ignored.
func (r *TermRouter) Route(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = QuestionForTerm(term)
}

// Pending returns the staged question without consuming it.
func (r *TermRouter) Pending() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending, r.pending != ""
}

// Take returns and clears the staged question.
func (r *TermRouter) Take() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.pending
	r.pending = ""
	return q, q != ""
}

// Clear drops any staged question.
func (r *TermRouter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = ""
}
