package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TubeDigest/internal/domain"
	"TubeDigest/internal/scanner"
)

const defaultBaseURL = "https://www.youtube.com"

// PageDirectory resolves channels from their public page and lists uploads from
// the channel feed, so it works without an API key.
type PageDirectory struct {
	client  *http.Client
	baseURL string
}

var _ scanner.Directory = (*PageDirectory)(nil)

// NewPageDirectory wires an HTTP client; baseURL defaults to youtube.com.
func NewPageDirectory(client *http.Client, baseURL string) *PageDirectory {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &PageDirectory{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name identifies the directory inside the registry.
func (p *PageDirectory) Name() string {
	return "feed"
}

// Resolve reads the channel page and extracts its canonical channel id.
func (p *PageDirectory) Resolve(ctx context.Context, name string) (domain.ChannelRef, error) {
	name = strings.TrimSpace(name)
	if channelIDExpr.MatchString(name) {
		return domain.ChannelRef{ID: name, Name: name}, nil
	}

	handle := strings.TrimPrefix(name, "@")
	if handle == "" {
		return domain.ChannelRef{}, fmt.Errorf("%w: empty name", ErrChannelNotFound)
	}
	doc, err := fetchDocument(ctx, p.client, p.baseURL+"/@"+url.PathEscape(handle))
	if err != nil {
		return domain.ChannelRef{}, fmt.Errorf("channel page %s: %w", name, err)
	}

	id := extractChannelID(doc)
	if id == "" {
		return domain.ChannelRef{}, fmt.Errorf("%w: %s", ErrChannelNotFound, name)
	}
	return domain.ChannelRef{ID: id, Name: name}, nil
}

// ListRecent reads the channel feed and returns up to maxResults entries in feed order.
func (p *PageDirectory) ListRecent(ctx context.Context, ref domain.ChannelRef, maxResults int) ([]domain.Upload, error) {
	feedURL := p.baseURL + "/feeds/videos.xml?channel_id=" + url.QueryEscape(ref.ID)
	doc, err := fetchDocument(ctx, p.client, feedURL)
	if err != nil {
		return nil, fmt.Errorf("channel feed %s: %w", ref.ID, err)
	}

	channelTitle := strings.TrimSpace(doc.Find("feed > title").First().Text())

	var uploads []domain.Upload
	doc.Find("entry").EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		if maxResults > 0 && len(uploads) >= maxResults {
			return false
		}
		up := parseEntry(entry)
		if up.ID == "" {
			return true
		}
		up.ChannelTitle = channelTitle
		if up.ChannelID == "" {
			up.ChannelID = ref.ID
		}
		uploads = append(uploads, up)
		return true
	})
	return uploads, nil
}

func parseEntry(entry *goquery.Selection) domain.Upload {
	return domain.Upload{
		ID:          elementText(entry, "yt:videoid"),
		ChannelID:   elementText(entry, "yt:channelid"),
		Title:       elementText(entry, "title"),
		Description: elementText(entry, "media:description"),
		PublishedAt: elementText(entry, "published"),
	}
}

// elementText finds a namespaced descendant by node name, which CSS selectors cannot address directly.
func elementText(sel *goquery.Selection, name string) string {
	match := sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == name
	}).First()
	return strings.TrimSpace(match.Text())
}

func extractChannelID(doc *goquery.Document) string {
	if id, ok := doc.Find(`meta[itemprop="identifier"]`).First().Attr("content"); ok && channelIDExpr.MatchString(id) {
		return id
	}
	if id, ok := doc.Find(`meta[itemprop="channelId"]`).First().Attr("content"); ok && channelIDExpr.MatchString(id) {
		return id
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if idx := strings.LastIndex(href, "/channel/"); idx >= 0 {
			id := strings.Trim(href[idx+len("/channel/"):], "/")
			if channelIDExpr.MatchString(id) {
				return id
			}
		}
	}
	return ""
}

func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TubeDigest/1.0")
	req.Header.Set("Accept-Language", "en")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrChannelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
