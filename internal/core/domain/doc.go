// Package domain defines the core business entities for algomaster.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Explanation: A generated, step-by-step walkthrough of one topic
//   - Step: One stage of the walkthrough with its visual payload
//   - VisualData: A FLOW, CHART or MATRIX visualisation payload
//   - ChatMessage: One entry of the tutor conversation
//   - Category/Topic: Entries of the browsable topic catalog
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
