package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

const (
	// URIScheme is the custom URI scheme for algomaster resources.
	uriScheme = "algomaster://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "topics",
		Name:        "topics",
		Description: "Suggested topics grouped by category",
		MIMEType:    "application/json",
	}, s.handleTopicsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cache",
		Name:        "cache",
		Description: "Explanations stored in the local cache",
		MIMEType:    "application/json",
	}, s.handleCacheResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "explanations/{topic}",
		Name:        "explanation",
		Description: "Explanation document for a topic, served from the cache when present",
		MIMEType:    "application/json",
	}, s.handleExplanationResource)
}

// handleTopicsResource returns the topic catalog.
func (s *Server) handleTopicsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return jsonResult(req.Params.URI, []any{})
	}

	cats, err := s.ports.Catalog.Categories()
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return jsonResult(req.Params.URI, cats)
}

// handleCacheResource lists cached explanations.
func (s *Server) handleCacheResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.Explanations.Cached(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}

	type entryInfo struct {
		Term      string `json:"term"`
		Size      int    `json:"size"`
		UpdatedAt string `json:"updated_at"`
	}

	infos := make([]entryInfo, len(entries))
	for i, e := range entries {
		infos[i] = entryInfo{
			Term:      e.Term(),
			Size:      e.Size,
			UpdatedAt: e.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleExplanationResource returns the explanation for the topic in the URI.
func (s *Server) handleExplanationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	topic := extractTopic(req.Params.URI)
	if topic == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, _, err := s.ports.Explanations.Explain(ctx, topic, driving.ExplainOptions{})
	if err != nil {
		return nil, fmt.Errorf("explaining %q: %w", topic, err)
	}
	return jsonResult(req.Params.URI, doc)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTopic extracts the topic from a URI like algomaster://explanations/{topic}.
// The topic may be percent-encoded.
func extractTopic(uri string) string {
	const prefix = uriScheme + "explanations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	raw := strings.TrimPrefix(uri, prefix)
	topic, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(topic)
}
