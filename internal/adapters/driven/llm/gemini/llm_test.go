package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

type capturedRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	SystemInstruction *struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"systemInstruction"`
	GenerationConfig struct {
		ResponseMimeType string   `json:"responseMimeType"`
		Temperature      *float64 `json:"temperature"`
	} `json:"generationConfig"`
}

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewLLMService(context.Background(), Config{
		Model:      "gemini-test",
		Endpoint:   srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return svc
}

func reply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
		}},
	})
	return string(b)
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), Config{})
	assert.Error(t, err)
}

func TestNewLLMService_TrimsModelPrefix(t *testing.T) {
	svc, err := NewLLMService(context.Background(), Config{APIKey: "k", Model: "models/gemini-x"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-x", svc.ModelName())
}

func TestLLMService_GenerateJSONMode(t *testing.T) {
	var got capturedRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply(`{"name":"K-Means"}`)))
	})

	out, err := svc.Generate(context.Background(), "explain", driven.GenerateOptions{Temperature: 0.4, JSONMode: true})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"K-Means"}`, out)

	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	require.NotNil(t, got.GenerationConfig.Temperature)
	assert.InDelta(t, 0.4, *got.GenerationConfig.Temperature, 0.001)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "explain", got.Contents[0].Parts[0].Text)
}

func TestLLMService_GenerateResponseSchema(t *testing.T) {
	var got struct {
		GenerationConfig struct {
			ResponseMimeType string         `json:"responseMimeType"`
			ResponseSchema   map[string]any `json:"responseSchema"`
		} `json:"generationConfig"`
	}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply(`{"type":"FLOW"}`)))
	})

	schema := &driven.Schema{
		Type: driven.SchemaObject,
		Properties: map[string]*driven.Schema{
			"type":  {Type: driven.SchemaString, Enum: []string{"FLOW", "CHART", "MATRIX"}},
			"nodes": {Type: driven.SchemaArray, Items: &driven.Schema{Type: driven.SchemaString}},
		},
		Required: []string{"type"},
	}
	_, err := svc.Generate(context.Background(), "explain", driven.GenerateOptions{Schema: schema})
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	rs := got.GenerationConfig.ResponseSchema
	require.NotNil(t, rs)
	assert.Equal(t, "OBJECT", rs["type"])
	assert.Equal(t, []any{"type"}, rs["required"])
	props, ok := rs["properties"].(map[string]any)
	require.True(t, ok)
	typeProp, ok := props["type"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"FLOW", "CHART", "MATRIX"}, typeProp["enum"])
	nodes, ok := props["nodes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ARRAY", nodes["type"])
	assert.Equal(t, map[string]any{"type": "STRING"}, nodes["items"])
}

func TestLLMService_GenerateWithoutSchema(t *testing.T) {
	var got map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply("ok")))
	})

	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{JSONMode: true})
	require.NoError(t, err)

	cfg, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, cfg, "responseSchema")
}

func TestLLMService_ChatMapsRoles(t *testing.T) {
	var got capturedRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply("答案")))
	})

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "导师"},
		{Role: driven.RoleUser, Content: "q1"},
		{Role: driven.RoleAssistant, Content: "a1"},
		{Role: driven.RoleUser, Content: "q2"},
	}, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "答案", out)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "导师", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "user", got.Contents[2].Role)
}

func TestLLMService_NoCandidates(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})
	assert.Error(t, err)
}

func TestLLMService_PromptBlocked(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestLLMService_RateLimited(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	var rl *domain.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
}

func TestLLMService_Ping(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-test" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"models/gemini-test"}`))
	})

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil))
	plain := errors.New("boom")
	assert.Equal(t, plain, WrapError(plain))
}
