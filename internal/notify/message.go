package notify

import (
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"TubeDigest/internal/domain"
)

// FormatMarkdownV2 is the rich-text format every composed message uses.
const FormatMarkdownV2 = string(models.ParseModeMarkdown)

// Compose renders the notification for a summarized video: bold channel
// title, the summary and the watch link.
func Compose(video domain.Video) Message {
	var b strings.Builder

	title := video.ChannelTitle
	if title == "" {
		title = video.Source
	}
	b.WriteString("*")
	b.WriteString(bot.EscapeMarkdown(title))
	b.WriteString("*\n")

	if video.Title != "" {
		b.WriteString("_")
		b.WriteString(bot.EscapeMarkdown(video.Title))
		b.WriteString("_\n")
	}
	b.WriteString("\n")

	if video.Summary != nil {
		b.WriteString(bot.EscapeMarkdown(*video.Summary))
		b.WriteString("\n\n")
	}
	b.WriteString(bot.EscapeMarkdown(video.URL))

	return Message{Text: b.String(), Format: FormatMarkdownV2}
}

// ComposeDigest renders the summary of summaries across channels.
func ComposeDigest(text string) Message {
	return Message{
		Text:   "*" + bot.EscapeMarkdown("Digest") + "*\n\n" + bot.EscapeMarkdown(text),
		Format: FormatMarkdownV2,
	}
}
