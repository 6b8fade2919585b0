package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TubeDigest/internal/domain"
	"TubeDigest/internal/ports"
)

const defaultCaptionsURL = "https://www.youtube.com/api/timedtext"

// ErrNoCaptions is returned when the video has no track in the requested language.
var ErrNoCaptions = errors.New("no captions available")

// TimedTextCaptions fetches caption tracks from the public timedtext endpoint.
type TimedTextCaptions struct {
	client   *http.Client
	endpoint string
}

var _ ports.CaptionsProvider = (*TimedTextCaptions)(nil)

// NewTimedTextCaptions wires an HTTP client; endpoint defaults to the public timedtext URL.
func NewTimedTextCaptions(client *http.Client, endpoint string) *TimedTextCaptions {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if endpoint == "" {
		endpoint = defaultCaptionsURL
	}
	return &TimedTextCaptions{client: client, endpoint: endpoint}
}

// Fetch returns the caption segments of a video in the given language.
func (c *TimedTextCaptions) Fetch(ctx context.Context, videoID, lang string) ([]domain.CaptionSegment, error) {
	trackURL, err := buildTrackURL(c.endpoint, videoID, lang)
	if err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, c.client, trackURL)
	if err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNoCaptions, videoID, lang)
		}
		return nil, fmt.Errorf("captions %s/%s: %w", videoID, lang, err)
	}

	segments := parseTrack(doc)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoCaptions, videoID, lang)
	}
	return segments, nil
}

func parseTrack(doc *goquery.Document) []domain.CaptionSegment {
	var segments []domain.CaptionSegment
	doc.Find("transcript > text").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(html.UnescapeString(sel.Text()))
		if text == "" {
			return
		}
		segments = append(segments, domain.CaptionSegment{Text: strings.Join(strings.Fields(text), " ")})
	})
	return segments
}

func buildTrackURL(base, videoID, lang string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid captions url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("v", videoID)
	query.Set("lang", lang)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
