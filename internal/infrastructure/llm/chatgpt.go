package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"TubeDigest/internal/config"
	"TubeDigest/internal/ports"
)

// ErrEmptyResponse is returned when the provider answers without any choice.
var ErrEmptyResponse = errors.New("empty response from model")

// ChatGPTClient implements ports.CompletionClient backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	model llms.Model
}

var _ ports.CompletionClient = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.LLMConfig) (*ChatGPTClient, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("chatgpt client misconfigured")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &ChatGPTClient{model: model}, nil
}

// NewChatGPTClientWithModel wraps an already constructed langchaingo model.
func NewChatGPTClientWithModel(model llms.Model) *ChatGPTClient {
	return &ChatGPTClient{model: model}
}

// Complete sends the system prompt and user text with temperature 0.
func (c *ChatGPTClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	if c == nil || c.model == nil {
		return "", fmt.Errorf("chatgpt client is nil")
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userText),
	}
	resp, err := c.model.GenerateContent(ctx, content, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
