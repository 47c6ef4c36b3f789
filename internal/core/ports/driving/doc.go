// Package driving holds the interfaces the CLI, TUI, HTTP API and MCP
// server call into: explanations, the topic catalog, settings and the
// learning session.
//
// internal/core/services implements them.
package driving
