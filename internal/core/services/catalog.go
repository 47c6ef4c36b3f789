package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService browses the suggested topics.
type CatalogService struct {
	catalog driven.TopicCatalog
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog driven.TopicCatalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Categories returns every category in display order.
func (s *CatalogService) Categories() ([]domain.Category, error) {
	if s.catalog == nil {
		return []domain.Category{}, nil
	}
	return s.catalog.Categories()
}

// Topics returns the topics of the named category, or every topic when
// name is empty.
func (s *CatalogService) Topics(name string) ([]domain.Topic, error) {
	cats, err := s.Categories()
	if err != nil {
		return nil, err
	}
	var topics []domain.Topic
	found := name == ""
	for _, c := range cats {
		if name != "" && c.Name != name {
			continue
		}
		found = true
		for _, t := range c.Topics {
			topics = append(topics, domain.Topic{Name: t, Category: c.Name, Kind: c.Kind})
		}
	}
	if !found {
		return nil, fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
	}
	return topics, nil
}

// Find returns topics whose name contains query, ignoring case.
// A blank query matches nothing.
func (s *CatalogService) Find(query string) ([]domain.Topic, error) {
	q := domain.NormalizeTerm(query)
	if q == "" {
		return []domain.Topic{}, nil
	}
	all, err := s.Topics("")
	if err != nil {
		return nil, err
	}
	matches := []domain.Topic{}
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Name), q) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// KindOf reports whether topic is an applied scenario. Topics outside the
// catalog are treated as algorithms.
func (s *CatalogService) KindOf(topic string) domain.TopicKind {
	n := domain.NormalizeTerm(topic)
	all, err := s.Topics("")
	if err != nil {
		return domain.TopicAlgorithm
	}
	for _, t := range all {
		if strings.ToLower(t.Name) == n {
			return t.Kind
		}
	}
	return domain.TopicAlgorithm
}
