// Package tui provides an interactive terminal user interface for algomaster.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Session owns the explanation, the step player and the chat.
	Session driving.LearningSession

	// Catalog suggests topics in the browser. Optional.
	Catalog driving.CatalogService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.LearningSession, catalog driving.CatalogService) *Ports {
	return &Ports{
		Session: session,
		Catalog: catalog,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
