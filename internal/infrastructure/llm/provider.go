package llm

import (
	"context"
	"fmt"
	"strings"

	"TubeDigest/internal/config"
	"TubeDigest/internal/ports"
)

// New picks the completion provider named in cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (ports.CompletionClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderOpenAI, "":
		return NewChatGPTClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
