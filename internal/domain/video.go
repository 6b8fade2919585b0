package domain

import (
	"fmt"
	"strings"
	"time"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// Video is a discovered upload tracked through the summarization pipeline.
// Transcript and Summary are nil until the corresponding stage succeeds.
type Video struct {
	VideoID      string    `json:"video_id"`
	Source       string    `json:"source"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"published_at"`
	URL          string    `json:"url"`
	Transcript   *string   `json:"transcript"`
	Summary      *string   `json:"summary"`
	Status       Status    `json:"status"`
	Delivered    bool      `json:"delivered"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasTranscript reports whether a non-absent transcript is attached.
func (v Video) HasTranscript() bool {
	return v.Transcript != nil
}

// HasSummary reports whether a non-absent summary is attached.
func (v Video) HasSummary() bool {
	return v.Summary != nil
}

// Status enumerates pipeline milestones of a single video.
type Status string

const (
	StatusDiscovered        Status = "discovered"
	StatusTranscriptPending Status = "transcript_pending"
	StatusTranscriptMissing Status = "transcript_missing"
	StatusTranscriptReady   Status = "transcript_ready"
	StatusSummaryPending    Status = "summary_pending"
	StatusSummaryMissing    Status = "summary_missing"
	StatusSummaryReady      Status = "summary_ready"
	StatusNotified          Status = "notified"
)

// Terminal reports whether no further stage runs for a video in this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusTranscriptMissing, StatusSummaryMissing, StatusNotified:
		return true
	default:
		return false
	}
}

// Upload is a raw entry returned by a channel directory.
type Upload struct {
	ID           string
	Title        string
	Description  string
	PublishedAt  string
	ChannelTitle string
	ChannelID    string
}

// ChannelRef identifies a resolved channel inside a directory provider.
type ChannelRef struct {
	ID   string
	Name string
}

// CaptionSegment is one piece of caption text returned by a captions provider.
type CaptionSegment struct {
	Text string
}

// WatchURL derives the canonical link for a video id.
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

// ParsePublishedAt parses an ISO-8601 timestamp, normalizing a trailing Z to
// an explicit +00:00 offset, and returns it in UTC.
func ParsePublishedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z") + "+00:00"
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse published_at %q: %w", value, err)
	}
	return t.UTC(), nil
}

// NewVideo converts a directory upload into a freshly discovered video.
func NewVideo(source string, up Upload, publishedAt time.Time) Video {
	return Video{
		VideoID:      up.ID,
		Source:       source,
		ChannelID:    up.ChannelID,
		ChannelTitle: up.ChannelTitle,
		Title:        up.Title,
		Description:  up.Description,
		PublishedAt:  publishedAt,
		URL:          WatchURL(up.ID),
		Status:       StatusDiscovered,
	}
}
