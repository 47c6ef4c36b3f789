package mcp

import (
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Explanations resolves topics to explanation documents.
	Explanations driving.ExplanationService

	// Catalog lists suggested topics.
	Catalog driving.CatalogService

	// NewSession creates a throwaway learning session for the ask tool.
	NewSession func() driving.LearningSession
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Explanations == nil {
		return ErrMissingExplanationService
	}
	// Catalog and NewSession are optional
	return nil
}
