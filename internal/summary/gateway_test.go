package summary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	reply     string
	err       error
	calls     int
	gotSystem string
	gotText   string
}

func (m *mockClient) Complete(_ context.Context, systemPrompt, userText string) (string, error) {
	m.calls++
	m.gotSystem = systemPrompt
	m.gotText = userText
	return m.reply, m.err
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSummarizeReturnsTrimmedReply(t *testing.T) {
	t.Parallel()

	client := &mockClient{reply: "  short summary\n"}
	g := NewGateway(client, 0, discard)

	out, ok := g.Summarize(context.Background(), "be brief", "long transcript")
	require.True(t, ok)
	assert.Equal(t, "short summary", out)
	assert.Equal(t, "be brief", client.gotSystem)
	assert.Equal(t, "long transcript", client.gotText)
}

func TestSummarizeTruncatesInput(t *testing.T) {
	t.Parallel()

	client := &mockClient{reply: "ok"}
	g := NewGateway(client, 5, discard)

	_, ok := g.Summarize(context.Background(), "p", "привет мир")
	require.True(t, ok)
	assert.Equal(t, "приве", client.gotText)
}

func TestSummarizeAbsentOnFailure(t *testing.T) {
	t.Parallel()

	client := &mockClient{err: errors.New("rate limited")}
	g := NewGateway(client, 0, discard)

	out, ok := g.Summarize(context.Background(), "p", "text")
	assert.False(t, ok)
	assert.Empty(t, out)
	assert.Equal(t, 1, client.calls)
}

func TestSummarizeAbsentOnBlankReply(t *testing.T) {
	t.Parallel()

	g := NewGateway(&mockClient{reply: " \n\t"}, 0, discard)

	_, ok := g.Summarize(context.Background(), "p", "text")
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	out, cut := Truncate("abc", 10)
	assert.Equal(t, "abc", out)
	assert.False(t, cut)

	out, cut = Truncate(strings.Repeat("я", 8), 3)
	assert.Equal(t, "яяя", out)
	assert.True(t, cut)

	out, cut = Truncate("abcdef", 6)
	assert.Equal(t, "abcdef", out)
	assert.False(t, cut)
}
