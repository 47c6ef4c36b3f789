package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// BuildStepContext describes what the user is looking at for the tutor.
// With no explanation loaded it returns domain.DashboardContext.
func BuildStepContext(doc *domain.Explanation, index int) string {
	if doc == nil {
		return domain.DashboardContext
	}

	var b strings.Builder
	fmt.Fprintf(&b, "算法名称: %s\n", doc.Name)
	fmt.Fprintf(&b, "分类: %s\n", doc.Category)
	fmt.Fprintf(&b, "数据集演示: %s - %s\n", doc.DatasetInfo.Name, doc.DatasetInfo.Description)
	fmt.Fprintf(&b, "简介: %s\n", doc.Summary)
	if step, ok := doc.StepAt(index); ok {
		fmt.Fprintf(&b, "当前步骤 (%d/%d): %s\n", index+1, doc.StepCount(), step.Title)
		fmt.Fprintf(&b, "步骤描述: %s", step.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
