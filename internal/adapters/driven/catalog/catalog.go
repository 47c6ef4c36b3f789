// Package catalog provides the built-in topic catalog.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.TopicCatalog = (*Catalog)(nil)

//go:embed topics.yaml
var builtinTopics []byte

type catalogFile struct {
	Categories []domain.Category `yaml:"categories"`
}

// Catalog serves categories decoded from a YAML document.
type Catalog struct {
	data []byte

	once       sync.Once
	categories []domain.Category
	err        error
}

// New returns the built-in catalog.
func New() *Catalog {
	return &Catalog{data: builtinTopics}
}

// FromYAML returns a catalog decoded from data.
func FromYAML(data []byte) *Catalog {
	return &Catalog{data: data}
}

// Categories returns a copy of the categories in file order.
func (c *Catalog) Categories() ([]domain.Category, error) {
	c.once.Do(c.decode)
	if c.err != nil {
		return nil, c.err
	}

	out := make([]domain.Category, len(c.categories))
	for i, cat := range c.categories {
		cat.Topics = append([]string(nil), cat.Topics...)
		out[i] = cat
	}
	return out, nil
}

func (c *Catalog) decode() {
	var f catalogFile
	if err := yaml.Unmarshal(c.data, &f); err != nil {
		c.err = fmt.Errorf("decode topic catalog: %w", err)
		return
	}
	for i, cat := range f.Categories {
		if cat.Name == "" {
			c.err = fmt.Errorf("decode topic catalog: category %d has no name", i+1)
			return
		}
		if cat.Kind == "" {
			f.Categories[i].Kind = domain.TopicAlgorithm
		}
	}
	c.categories = f.Categories
}
