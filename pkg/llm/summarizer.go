package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"
)

// defaults used when the corresponding configuration is unset or invalid
const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 4096
	defaultTimeout   = 2 * time.Minute
)

// default system prompt when no override is configured
const defaultSystemPrompt = "Summarize the provided content accurately and concisely."

// Config holds LLM connection settings
type Config struct {
	Endpoint     string // OpenAI-compatible API endpoint, empty for the default
	APIKey       string
	Model        string
	MaxTokens    int
	SystemPrompt string
	Timeout      time.Duration
}

// Summarizer sends rendered prompts to an LLM and returns the digest text
type Summarizer struct {
	client    *openai.Client
	config    Config
	systemMsg string
}

// NewSummarizer creates a new LLM summarizer. Unset or invalid model and
// max-tokens values fall back to hard-coded defaults with a logged warning.
func NewSummarizer(cfg Config) *Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	if cfg.Model == "" {
		log.Printf("[WARN] no model configured, using %s", DefaultModel)
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		log.Printf("[WARN] invalid max tokens %d, using %d", cfg.MaxTokens, DefaultMaxTokens)
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
}

// Summarize sends the prompt to the LLM and returns the full assembled
// summary text. Any provider or transport failure is returned as an error,
// the caller treats it as a "no summary" signal for the cycle.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("empty response from llm")
	}
	return text, nil
}
