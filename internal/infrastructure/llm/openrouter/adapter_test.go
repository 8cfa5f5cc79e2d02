package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	result := convertResponseMessage(openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Hello, world!",
	})

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Equal(t, "Hello, world!", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	result := convertResponseMessage(openai.ChatCompletionMessage{
		ToolCalls: []openai.ToolCall{{
			ID:   "call_123",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "render_gif",
				Arguments: `{"message":"hi","filename":"hi"}`,
			},
		}},
	})

	assert.Equal(t, entity.RoleAssistant, result.Role)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, "render_gif", result.ToolCalls[0].Name)
	assert.JSONEq(t, `{"message":"hi","filename":"hi"}`, result.ToolCalls[0].Arguments)
}

func TestConvertMessages_ToolRoundTrip(t *testing.T) {
	result := convertMessages([]entity.Message{
		{Role: entity.RoleUser, Content: "Make a GIF"},
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{{ID: "c1", Name: "render_gif", Arguments: "{}"}}},
		{Role: entity.RoleTool, ToolCallID: "c1", Name: "render_gif", Content: "GIF saved to /tmp/a.gif"},
	})

	require.Len(t, result, 3)
	assert.Equal(t, "user", result[0].Role)
	assert.Equal(t, "Make a GIF", result[0].Content)
	require.Len(t, result[1].ToolCalls, 1)
	assert.Equal(t, openai.ToolTypeFunction, result[1].ToolCalls[0].Type)
	assert.Equal(t, "render_gif", result[1].ToolCalls[0].Function.Name)
	assert.Equal(t, "tool", result[2].Role)
	assert.Equal(t, "c1", result[2].ToolCallID)
}

func TestConvertTools(t *testing.T) {
	params := map[string]interface{}{"type": "object"}
	result := convertTools([]entity.ToolDefinition{{Name: "generate_url", Description: "d", Parameters: params}})

	require.Len(t, result, 1)
	assert.Equal(t, openai.ToolTypeFunction, result[0].Type)
	assert.Equal(t, "generate_url", result[0].Function.Name)
	assert.Equal(t, params, result[0].Function.Parameters)
}

func fakeCompletionServer(t *testing.T, reply openai.ChatCompletionResponse, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChat(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := fakeCompletionServer(t, openai.ChatCompletionResponse{
		Model: "test-model",
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role: "assistant",
				ToolCalls: []openai.ToolCall{{
					ID:       "c1",
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: "generate_url", Arguments: `{"message":"hi"}`},
				}},
			},
			FinishReason: openai.FinishReasonToolCalls,
		}},
	}, &seen)

	cfg := DefaultConfig("test-key", "test-model")
	cfg.BaseURL = srv.URL
	cfg.Logger = output.NopLogger{}
	adapter := NewOpenRouterAdapter(cfg)

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "link for hi"}},
		Tools:    []entity.ToolDefinition{{Name: "generate_url", Parameters: map[string]interface{}{"type": "object"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "test-model", seen.Model)
	require.Len(t, seen.Tools, 1)
	assert.Equal(t, "generate_url", seen.Tools[0].Function.Name)
	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "generate_url", resp.Message.ToolCalls[0].Name)
}

func TestChat_NoChoices(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := fakeCompletionServer(t, openai.ChatCompletionResponse{}, &seen)

	cfg := DefaultConfig("test-key", "test-model")
	cfg.BaseURL = srv.URL
	_, err := NewOpenRouterAdapter(cfg).Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "hi"}},
	})
	assert.ErrorIs(t, err, ErrNoChoices)
	assert.Empty(t, seen.Tools)
}
