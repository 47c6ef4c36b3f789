// Package mcp provides an MCP (Model Context Protocol) server adapter for algomaster.
// It lets AI assistants request explanations and ask the tutor about a step.
package mcp

import "errors"

// ErrMissingExplanationService is returned when the explanation service is not provided.
var ErrMissingExplanationService = errors.New("mcp: explanation service is required")

// ErrSessionsUnavailable is returned by the ask tool when no session factory is set.
var ErrSessionsUnavailable = errors.New("mcp: learning sessions are not configured")
