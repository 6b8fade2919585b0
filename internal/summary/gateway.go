package summary

import (
	"context"
	"log/slog"
	"strings"

	"TubeDigest/internal/ports"
)

// DefaultMaxInputChars bounds the text forwarded to the model.
const DefaultMaxInputChars = 127000

// Gateway turns transcripts into summaries through a completion client.
type Gateway struct {
	client   ports.CompletionClient
	maxChars int
	logger   *slog.Logger
}

// NewGateway builds a gateway; maxChars <= 0 selects DefaultMaxInputChars.
func NewGateway(client ports.CompletionClient, maxChars int, logger *slog.Logger) *Gateway {
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{client: client, maxChars: maxChars, logger: logger.With("component", "summary")}
}

// Summarize returns the model output for body, or false when the provider
// fails or answers with blank text. Errors are logged, never retried.
func (g *Gateway) Summarize(ctx context.Context, systemPrompt, body string) (string, bool) {
	input, truncated := Truncate(body, g.maxChars)
	if truncated {
		g.logger.Debug("input truncated", "limit", g.maxChars)
	}

	out, err := g.client.Complete(ctx, systemPrompt, input)
	if err != nil {
		g.logger.Error("completion failed", "error", err)
		return "", false
	}

	out = strings.TrimSpace(out)
	if out == "" {
		g.logger.Warn("completion returned empty text")
		return "", false
	}
	return out, true
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 || len(s) <= limit {
		return s, false
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i], true
		}
		count++
	}
	return s, false
}
