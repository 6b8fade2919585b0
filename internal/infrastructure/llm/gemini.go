package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"TubeDigest/internal/config"
	"TubeDigest/internal/ports"
)

// GeminiClient implements ports.CompletionClient on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ ports.CompletionClient = (*GeminiClient)(nil)

// NewGeminiClient builds a Gemini client; cfg.BaseURL overrides the API host.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("gemini client misconfigured")
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

// Complete sends userText with systemPrompt as the system instruction.
func (g *GeminiClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userText), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	return result.Text(), nil
}
