package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"TubeDigest/internal/domain"
	"TubeDigest/internal/scanner"
)

// ErrChannelNotFound is returned when a handle or id matches no channel.
var ErrChannelNotFound = errors.New("channel not found")

var channelIDExpr = regexp.MustCompile(`^UC[0-9A-Za-z_-]{22}$`)

// APIDirectory lists channel uploads through the YouTube Data API v3.
type APIDirectory struct {
	service *yt.Service
}

var _ scanner.Directory = (*APIDirectory)(nil)

// NewAPIDirectory builds a Data API client; endpoint overrides the API base URL when set.
func NewAPIDirectory(ctx context.Context, apiKey, endpoint string) (*APIDirectory, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key is empty")
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	service, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &APIDirectory{service: service}, nil
}

// Name identifies the directory inside the registry.
func (d *APIDirectory) Name() string {
	return "youtube"
}

// Resolve maps a channel id or @handle to a channel reference.
func (d *APIDirectory) Resolve(ctx context.Context, name string) (domain.ChannelRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ChannelRef{}, fmt.Errorf("%w: empty name", ErrChannelNotFound)
	}
	if channelIDExpr.MatchString(name) {
		return domain.ChannelRef{ID: name, Name: name}, nil
	}

	handle := name
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	resp, err := d.service.Channels.List([]string{"id"}).ForHandle(handle).Context(ctx).Do()
	if err != nil {
		return domain.ChannelRef{}, fmt.Errorf("lookup handle %s: %w", handle, err)
	}
	if len(resp.Items) == 0 {
		return domain.ChannelRef{}, fmt.Errorf("%w: %s", ErrChannelNotFound, name)
	}
	return domain.ChannelRef{ID: resp.Items[0].Id, Name: name}, nil
}

// ListRecent returns the newest uploads of a channel, newest first.
func (d *APIDirectory) ListRecent(ctx context.Context, ref domain.ChannelRef, maxResults int) ([]domain.Upload, error) {
	if maxResults <= 0 {
		maxResults = 1
	}
	resp, err := d.service.Search.List([]string{"snippet"}).
		ChannelId(ref.ID).
		Order("date").
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search channel %s: %w", ref.ID, err)
	}

	uploads := make([]domain.Upload, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		uploads = append(uploads, domain.Upload{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			PublishedAt:  item.Snippet.PublishedAt,
			ChannelTitle: item.Snippet.ChannelTitle,
			ChannelID:    item.Snippet.ChannelId,
		})
	}
	return uploads, nil
}
