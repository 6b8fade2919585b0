package ports

import (
	"context"
	"errors"
	"time"

	"TubeDigest/internal/domain"
)

// ChannelDirectory resolves channels and lists their recent uploads.
type ChannelDirectory interface {
	Resolve(ctx context.Context, name string) (domain.ChannelRef, error)
	ListRecent(ctx context.Context, ref domain.ChannelRef, maxResults int) ([]domain.Upload, error)
}

// CaptionsProvider fetches caption segments for a video directly.
type CaptionsProvider interface {
	Fetch(ctx context.Context, videoID, lang string) ([]domain.CaptionSegment, error)
}

// SubtitleDownloader drives an external tool that writes caption or audio files into dir.
type SubtitleDownloader interface {
	DownloadSubtitles(ctx context.Context, videoID string, langs []string, dir string) error
	DownloadAudio(ctx context.Context, videoID, dir string) (string, error)
}

// SpeechToText transcribes an audio file and returns the path of the produced text file.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath, lang, outDir string) (string, error)
}

// CompletionClient sends a system prompt and user text to a language model.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// ChatSender delivers one message to the configured chat destination.
type ChatSender interface {
	Send(ctx context.Context, text, format string) error
}

// ErrCacheMiss is returned by VideoCache.Load when no record exists.
var ErrCacheMiss = errors.New("cache record not found")

// VideoCache persists one record per (source, video id).
type VideoCache interface {
	Save(ctx context.Context, video domain.Video) error
	Load(ctx context.Context, source, videoID string) (domain.Video, error)
	Exists(ctx context.Context, source, videoID string) (bool, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
