package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TubeDigest/internal/domain"
)

// DefaultProvider is used when a request leaves Provider empty.
const DefaultProvider = "youtube"

// PollRequest carries all parameters required to poll one channel.
type PollRequest struct {
	Source       string
	Provider     string
	MaxResults   int
	Days         int
	Now          time.Time
	DedupByTitle bool
}

// Poller lists recent uploads of a channel and filters them into fresh videos.
type Poller struct {
	registry *Registry
	logger   *slog.Logger
}

// NewPoller wires a poller over the given directories.
func NewPoller(registry *Registry, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{registry: registry, logger: logger.With("component", "poller")}
}

// Poll resolves the source, lists up to MaxResults uploads and keeps those that
// have a description, are not older than Days and, when enabled, carry a title
// not yet seen in this batch. Provider order is preserved.
func (p *Poller) Poll(ctx context.Context, req PollRequest) ([]domain.Video, error) {
	provider := req.Provider
	if provider == "" {
		provider = DefaultProvider
	}
	dir, err := p.registry.Resolve(provider)
	if err != nil {
		return nil, err
	}

	ref, err := dir.Resolve(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResolution, req.Source, err)
	}

	uploads, err := dir.ListRecent(ctx, ref, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("list uploads of %s: %w", req.Source, err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.UTC().Add(-time.Duration(req.Days) * 24 * time.Hour)

	seen := make(map[string]struct{}, len(uploads))
	videos := make([]domain.Video, 0, len(uploads))
	for _, up := range uploads {
		if up.Description == "" {
			p.logger.Debug("skip upload without description", "video_id", up.ID)
			continue
		}

		published, err := domain.ParsePublishedAt(up.PublishedAt)
		if err != nil {
			p.logger.Warn("skip upload with bad timestamp", "video_id", up.ID, "error", err)
			continue
		}
		if published.Before(cutoff) {
			p.logger.Debug("skip stale upload", "video_id", up.ID, "published_at", published)
			continue
		}

		if req.DedupByTitle {
			if _, dup := seen[up.Title]; dup {
				p.logger.Debug("skip duplicate title", "video_id", up.ID, "title", up.Title)
				continue
			}
			seen[up.Title] = struct{}{}
		}

		videos = append(videos, domain.NewVideo(req.Source, up, published))
	}

	p.logger.Info("channel polled", "source", req.Source, "listed", len(uploads), "kept", len(videos))
	return videos, nil
}
