package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

const wrapWidth = 80

var (
	rendererOnce sync.Once
	renderer     *glamour.TermRenderer
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printMarkdown writes md to w, styled when w is a terminal.
func printMarkdown(w io.Writer, md string) {
	if isTerminal(w) {
		rendererOnce.Do(func() {
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(wrapWidth),
			)
			if err == nil {
				renderer = r
			}
		})
		if renderer != nil {
			if out, err := renderer.Render(md); err == nil {
				fmt.Fprint(w, out)
				return
			}
		}
	}
	fmt.Fprint(w, md)
	if !strings.HasSuffix(md, "\n") {
		fmt.Fprintln(w)
	}
}

// explanationMarkdown formats doc as markdown. A positive step limits the
// output to that step.
func explanationMarkdown(doc *domain.Explanation, step int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Name)
	if doc.Category != "" {
		fmt.Fprintf(&b, "*%s*\n\n", doc.Category)
	}

	if step <= 0 {
		fmt.Fprintf(&b, "%s\n\n", doc.Summary)
		writeDataset(&b, doc.DatasetInfo)
		if len(doc.UseCases) > 0 {
			b.WriteString("## 应用场景\n\n")
			for _, u := range doc.UseCases {
				fmt.Fprintf(&b, "- %s\n", u)
			}
			b.WriteString("\n")
		}
		for i := range doc.Steps {
			writeStep(&b, i, len(doc.Steps), doc.Steps[i])
		}
		return b.String()
	}

	s, _ := doc.StepAt(step - 1)
	writeStep(&b, step-1, len(doc.Steps), s)
	return b.String()
}

func writeDataset(b *strings.Builder, d domain.DatasetInfo) {
	if d.Name == "" && d.Description == "" {
		return
	}
	fmt.Fprintf(b, "## 数据集: %s\n\n%s\n\n", d.Name, d.Description)
	if len(d.Fields) > 0 {
		fmt.Fprintf(b, "- 字段: %s\n", strings.Join(d.Fields, ", "))
	}
	if d.SampleCount != "" {
		fmt.Fprintf(b, "- 样本数: %s\n", d.SampleCount)
	}
	if d.Distribution != "" {
		fmt.Fprintf(b, "- 分布: %s\n", d.Distribution)
	}
	b.WriteString("\n")
}

func writeStep(b *strings.Builder, i, total int, s domain.Step) {
	fmt.Fprintf(b, "## 步骤 %d / %d: %s\n\n", i+1, total, s.Title)
	if s.Description != "" {
		fmt.Fprintf(b, "%s\n\n", s.Description)
	}
	if len(s.KeyTerms) > 0 {
		terms := make([]string, len(s.KeyTerms))
		for j, t := range s.KeyTerms {
			terms[j] = "`" + t + "`"
		}
		fmt.Fprintf(b, "关键概念: %s\n\n", strings.Join(terms, " "))
	}
	fmt.Fprintf(b, "> 可视化: %s\n\n", visualSummary(s.VisualData))
}

// visualSummary describes a step's visual in one line.
func visualSummary(v domain.VisualData) string {
	switch v.Type {
	case domain.VisualFlow:
		return fmt.Sprintf("流程图, %d 个节点, %d 条连线", len(v.Nodes), len(v.Edges))
	case domain.VisualChart:
		return fmt.Sprintf("散点图, %d 个数据点", len(v.ChartData))
	case domain.VisualMatrix:
		cols := 0
		if len(v.Matrix) > 0 {
			cols = len(v.Matrix[0])
		}
		return fmt.Sprintf("矩阵, %d x %d", len(v.Matrix), cols)
	default:
		return string(v.Type)
	}
}
