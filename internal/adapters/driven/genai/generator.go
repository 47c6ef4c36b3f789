package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// Ensure Generator implements the interfaces.
var (
	_ driven.ExplanationGenerator = (*Generator)(nil)
	_ driven.PromptStoreAware     = (*Generator)(nil)
)

// GenerationTemperature is the sampling temperature for explanations.
const GenerationTemperature = 0.4

// DocumentShape describes the JSON object the model must return. It is
// substituted into the generation template.
const DocumentShape = `{
  "name": "string",
  "category": "string",
  "summary": "string",
  "datasetInfo": {
    "name": "string",
    "description": "string",
    "fields": ["string"],
    "sampleCount": "string",
    "distribution": "string"
  },
  "useCases": ["string"],
  "steps": [
    {
      "stepNumber": 1,
      "title": "string",
      "description": "markdown string",
      "keyTerms": ["string"],
      "visualData": {
        "type": "FLOW | CHART | MATRIX",
        "nodes": [{"id": "string", "label": "string", "type": "input | process | output | operation", "x": 0, "y": 0, "highlight": false}],
        "edges": [{"from": "node id", "to": "node id", "label": "string", "active": false}],
        "chartData": [{"x": 0, "y": 0, "group": "string", "highlight": false}],
        "chartConfig": {"xAxisLabel": "string", "yAxisLabel": "string", "showLine": false, "xDomain": [0, 100], "yDomain": [0, 100]},
        "matrix": [[{"value": 0.5, "label": "string", "highlight": false}]]
      }
    }
  ]
}`

var explanationSchema = ExplanationSchema()

const fallbackGeneratePrompt = `Create an interactive, step-by-step visual explanation of "%s" in Simplified Chinese.
Build it around one small concrete dataset, give every step 2-3 key terms,
and keep visualData coherent between steps. Return only one JSON object shaped like:
%s`

// Generator produces explanation documents with a language model.
type Generator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewGenerator creates a generator backed by llm.
func NewGenerator(llm driven.LLMService) *Generator {
	return &Generator{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (g *Generator) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// Generate asks the model for an explanation of topic and returns it once
// it decodes strictly and validates. Every failure is a *domain.GenerationError.
func (g *Generator) Generate(ctx context.Context, topic string) (*domain.Explanation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.NewGenerationError(topic, domain.ErrInvalidInput)
	}
	if g.llm == nil {
		return nil, domain.NewGenerationError(topic, domain.ErrLLMUnavailable)
	}

	prompt := render(loadPrompt(g.prompts, driven.PromptGenerateExplanation, fallbackGeneratePrompt), topic, DocumentShape)

	start := time.Now()
	out, err := g.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: GenerationTemperature,
		JSONMode:    true,
		Schema:      explanationSchema,
	})
	if err != nil {
		return nil, domain.NewGenerationError(topic, err)
	}
	logger.Debug("generated %q with %s in %s (%d bytes)", topic, g.llm.ModelName(), time.Since(start).Round(time.Millisecond), len(out))

	doc, err := DecodeExplanation(out)
	if err != nil {
		return nil, domain.NewGenerationError(topic, err)
	}
	return doc, nil
}

// DecodeExplanation decodes a single JSON explanation document and
// validates it. Unknown fields and trailing data are rejected.
func DecodeExplanation(payload string) (*domain.Explanation, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrGeneration)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()

	var doc domain.Explanation
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", domain.ErrInvalidDocument, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", domain.ErrInvalidDocument)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// loadPrompt returns the named template from store, or fallback when the
// store is unset or fails.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	tmpl, err := store.Load(name)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		if err != nil {
			logger.Warn("prompt %s unavailable, using built-in: %v", name, err)
		}
		return fallback
	}
	return tmpl
}

// render replaces the %s placeholders of tmpl with args in order. Other
// percent signs are left alone. Args without a placeholder are appended.
func render(tmpl string, args ...string) string {
	parts := strings.SplitN(tmpl, "%s", len(args)+1)
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(parts)-1 {
			b.WriteString(args[i])
		}
	}
	for _, extra := range args[len(parts)-1:] {
		b.WriteString("\n\n")
		b.WriteString(extra)
	}
	return b.String()
}
