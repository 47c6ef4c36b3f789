package driven

import "github.com/custodia-labs/algomaster/internal/core/domain"

// TopicCatalog supplies the browsable categories of suggested topics.
type TopicCatalog interface {
	Categories() ([]domain.Category, error)
}
