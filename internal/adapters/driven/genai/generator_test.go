package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

const validDocument = `{
  "name": "K-Means",
  "category": "无监督学习",
  "summary": "把数据分成 K 个簇",
  "datasetInfo": {"name": "顾客消费", "description": "6 位顾客", "fields": ["收入", "消费"], "sampleCount": "6", "distribution": "两团"},
  "useCases": ["客户分群"],
  "steps": [
    {
      "stepNumber": 1,
      "title": "初始化质心",
      "description": "随机选择 **K** 个点",
      "keyTerms": ["质心"],
      "visualData": {"type": "CHART", "chartData": [{"x": 1, "y": 2, "group": "A"}]}
    }
  ]
}`

func TestGenerator_Generate(t *testing.T) {
	llm := &mockLLM{output: validDocument}
	gen := NewGenerator(llm)

	doc, err := gen.Generate(context.Background(), "  K-Means ")
	require.NoError(t, err)
	assert.Equal(t, "K-Means", doc.Name)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, domain.VisualChart, doc.Steps[0].VisualData.Type)

	assert.True(t, llm.genOpts.JSONMode)
	assert.Same(t, explanationSchema, llm.genOpts.Schema)
	assert.InDelta(t, GenerationTemperature, llm.genOpts.Temperature, 1e-9)
	assert.Contains(t, llm.prompt, `"K-Means"`)
	assert.Contains(t, llm.prompt, `"visualData"`)
}

func TestGenerator_UsesPromptStore(t *testing.T) {
	llm := &mockLLM{output: validDocument}
	gen := NewGenerator(llm)
	gen.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptGenerateExplanation: "topic=%s 100% shape=%s",
	}})

	_, err := gen.Generate(context.Background(), "SVM")
	require.NoError(t, err)
	assert.Equal(t, "topic=SVM 100% shape="+DocumentShape, llm.prompt)
}

func TestGenerator_PromptStoreFailureFallsBack(t *testing.T) {
	llm := &mockLLM{output: validDocument}
	gen := NewGenerator(llm)
	gen.SetPromptStore(&mockPromptStore{})

	_, err := gen.Generate(context.Background(), "SVM")
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, `"SVM"`)
}

func TestGenerator_Failures(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		wantErr error
	}{
		{name: "transport", err: errors.New("connection refused"), wantErr: domain.ErrGeneration},
		{name: "empty", output: "  ", wantErr: domain.ErrGeneration},
		{name: "not json", output: "sure, here you go", wantErr: domain.ErrInvalidDocument},
		{name: "fenced", output: "```json\n" + validDocument + "\n```", wantErr: domain.ErrInvalidDocument},
		{name: "unknown field", output: `{"name":"x","bogus":1}`, wantErr: domain.ErrInvalidDocument},
		{name: "trailing data", output: validDocument + `{}`, wantErr: domain.ErrInvalidDocument},
		{name: "no steps", output: `{"name":"x","datasetInfo":{"name":"d"},"steps":[]}`, wantErr: domain.ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(&mockLLM{output: tt.output, err: tt.err})

			doc, err := gen.Generate(context.Background(), "KNN")
			require.Error(t, err)
			assert.Nil(t, doc)

			var genErr *domain.GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, "KNN", genErr.Topic)
			assert.ErrorIs(t, err, domain.ErrGeneration)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerator_RateLimitSurvivesWrapping(t *testing.T) {
	gen := NewGenerator(&mockLLM{err: &domain.RateLimitError{Provider: "gemini"}})

	_, err := gen.Generate(context.Background(), "KNN")
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestGenerator_BlankTopicAndNoLLM(t *testing.T) {
	_, err := NewGenerator(&mockLLM{}).Generate(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewGenerator(nil).Generate(context.Background(), "KNN")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestRender(t *testing.T) {
	assert.Equal(t, "a-1-b-2", render("a-%s-b-%s", "1", "2"))
	assert.Equal(t, "only 1\n\n2", render("only %s", "1", "2"))
	assert.Equal(t, "x %s %s", render("x %s %s", "%s"))
	assert.Equal(t, "\n\n1", render("", "1"))
}
