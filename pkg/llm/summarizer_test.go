package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizer_Summarize(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "<p>Top stories: Go released, Mars has water.</p>"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	summarizer := NewSummarizer(Config{
		Endpoint:  server.URL + "/v1",
		APIKey:    "test-key",
		Model:     "gpt-4o-mini",
		MaxTokens: 1024,
	})

	text, err := summarizer.Summarize(context.Background(), "summarize these posts")
	require.NoError(t, err)
	assert.Equal(t, "<p>Top stories: Go released, Mars has water.</p>", text)

	// request carries the configured model, limit and the default system prompt
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Equal(t, 1024, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Equal(t, defaultSystemPrompt, gotReq.Messages[0].Content)
	assert.Equal(t, "summarize these posts", gotReq.Messages[1].Content)
}

func TestSummarizer_SystemPromptOverride(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	summarizer := NewSummarizer(Config{
		Endpoint:     server.URL + "/v1",
		APIKey:       "test-key",
		Model:        "gpt-4o-mini",
		MaxTokens:    100,
		SystemPrompt: "Answer in pirate speak.",
	})

	_, err := summarizer.Summarize(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Answer in pirate speak.", gotReq.Messages[0].Content)
}

func TestSummarizer_Defaults(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	// empty model and invalid max tokens fall back to defaults
	summarizer := NewSummarizer(Config{
		Endpoint:  server.URL + "/v1",
		APIKey:    "test-key",
		MaxTokens: -5,
	})

	_, err := summarizer.Summarize(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, DefaultMaxTokens, gotReq.MaxTokens)
}

func TestSummarizer_Failures(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "unknown model", "type": "invalid_request_error"}}`))
		}))
		defer server.Close()

		summarizer := NewSummarizer(Config{Endpoint: server.URL + "/v1", APIKey: "k", Model: "bogus", MaxTokens: 10})
		_, err := summarizer.Summarize(context.Background(), "prompt")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "llm request failed"))
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
		}))
		defer server.Close()

		summarizer := NewSummarizer(Config{Endpoint: server.URL + "/v1", APIKey: "k", Model: "m", MaxTokens: 10})
		_, err := summarizer.Summarize(context.Background(), "prompt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no response")
	})

	t.Run("network error", func(t *testing.T) {
		summarizer := NewSummarizer(Config{Endpoint: "http://127.0.0.1:1/v1", APIKey: "k", Model: "m", MaxTokens: 10})
		_, err := summarizer.Summarize(context.Background(), "prompt")
		require.Error(t, err)
	})
}
