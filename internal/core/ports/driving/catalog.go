package driving

import "github.com/custodia-labs/algomaster/internal/core/domain"

// CatalogService browses the suggested topic catalog.
type CatalogService interface {
	// Categories returns every category in display order.
	Categories() ([]domain.Category, error)

	// Topics returns the topics of one category, or all topics when name is empty.
	Topics(name string) ([]domain.Topic, error)

	// Find returns topics whose name contains query, ignoring case.
	Find(query string) ([]domain.Topic, error)

	// KindOf reports whether topic is an applied scenario or an algorithm.
	KindOf(topic string) domain.TopicKind
}
