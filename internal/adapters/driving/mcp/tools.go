package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// ExplainInput is the input schema for the explain tool.
type ExplainInput struct {
	Topic   string `json:"topic" jsonschema:"the algorithm or applied AI scenario to explain"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"regenerate instead of using the local cache"`
}

// ExplainOutput is the output schema for the explain tool.
type ExplainOutput struct {
	Source      domain.ExplanationSource `json:"source"`
	Explanation *domain.Explanation      `json:"explanation"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Topic    string `json:"topic" jsonschema:"the explained topic the question is about"`
	Step     int    `json:"step,omitempty" jsonschema:"1-based step the learner is looking at (default 1)"`
	Question string `json:"question" jsonschema:"the question for the tutor"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Step   int    `json:"step"`
	Total  int    `json:"total"`
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "explain",
		Description: "Get a step-by-step visual explanation of a machine learning algorithm or applied AI scenario",
	}, s.handleExplain)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the tutor a question about one step of an explanation",
	}, s.handleAsk)
}

// handleExplain handles the explain tool invocation.
func (s *Server) handleExplain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExplainInput,
) (*mcp.CallToolResult, ExplainOutput, error) {
	doc, source, err := s.ports.Explanations.Explain(ctx, input.Topic, driving.ExplainOptions{Refresh: input.Refresh})
	if err != nil {
		return nil, ExplainOutput{}, err
	}
	return nil, ExplainOutput{Source: source, Explanation: doc}, nil
}

// handleAsk loads the topic into a fresh session, moves to the step and
// asks the question with that step as context.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.NewSession == nil {
		return nil, AskOutput{}, ErrSessionsUnavailable
	}

	session := s.ports.NewSession()
	defer session.Close()

	if err := session.Search(ctx, input.Topic); err != nil {
		return nil, AskOutput{}, err
	}

	step := input.Step
	if step <= 0 {
		step = 1
	}
	total := session.State().Total
	if step > total {
		return nil, AskOutput{}, fmt.Errorf("%w: step %d out of range 1-%d", domain.ErrInvalidInput, step, total)
	}
	session.GoTo(step - 1)

	answer, err := session.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Step: step, Total: total, Answer: answer}, nil
}
