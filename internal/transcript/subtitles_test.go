package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVTT(t *testing.T) {
	t.Parallel()

	raw := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.000\nHello\n\n2\n00:00:01.000 --> 00:00:02.000\nworld\n"
	assert.Equal(t, "Hello\nworld", ParseVTT(raw))
}

func TestParseVTTDropsMetadataAndTags(t *testing.T) {
	t.Parallel()

	raw := "\ufeffWEBVTT\r\nKind: captions\r\nLanguage: en\r\n\r\nNOTE generated\r\n\r\n" +
		"00:01.000 --> 00:02.000 align:start position:0%\r\n<c>first</c> line\r\n\r\n" +
		"00:00:02.000 --> 00:00:03.000\r\nsecond line\r\n"
	assert.Equal(t, "first line\nsecond line", ParseVTT(raw))
}

func TestParseSRT(t *testing.T) {
	t.Parallel()

	raw := "1\n00:00:00,000 --> 00:00:01,500\nHello\n\n2\n00:00:01,500 --> 00:00:03,000\nthere, friend\n\n"
	assert.Equal(t, "Hello\nthere, friend", ParseSRT(raw))
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseVTT("WEBVTT\n\n"))
	assert.Empty(t, ParseSRT(""))
}

func TestParseVTTKeepsCueTextStartingWithMetadataWords(t *testing.T) {
	t.Parallel()

	raw := "WEBVTT\nKind: captions\nLanguage: en\n\n" +
		"1\n00:00:01.000 --> 00:00:02.000\nKind of a strange week\n\n" +
		"2\n00:00:02.000 --> 00:00:03.000\nLanguage matters here\n\n" +
		"NOTE a comment between cues\nspanning two lines\n\n" +
		"3\n00:00:03.000 --> 00:00:04.000\nNOTE that this is spoken\n"
	assert.Equal(t, "Kind of a strange week\nLanguage matters here\nNOTE that this is spoken", ParseVTT(raw))
}
