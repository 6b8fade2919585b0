package transcript

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"TubeDigest/internal/ports"
)

// DefaultLanguage is requested when the caller passes no languages.
const DefaultLanguage = "en"

// ResolverDeps wires the collaborators of every resolution strategy.
// Captions, Downloader and SpeechToText may be nil to disable their strategy.
type ResolverDeps struct {
	Captions      ports.CaptionsProvider
	Downloader    ports.SubtitleDownloader
	SpeechToText  ports.SpeechToText
	Fs            afero.Fs
	ScratchDir    string
	AudioFallback bool
	Logger        *slog.Logger
}

// Resolver obtains a transcript for a video by trying the captions API, then
// downloaded caption files, then (optionally) audio transcription.
type Resolver struct {
	captions      ports.CaptionsProvider
	downloader    ports.SubtitleDownloader
	stt           ports.SpeechToText
	fs            afero.Fs
	scratchDir    string
	audioFallback bool
	logger        *slog.Logger
}

// NewResolver constructs the resolver.
func NewResolver(deps ResolverDeps) *Resolver {
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	scratch := deps.ScratchDir
	if scratch == "" {
		scratch = "tmp"
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		captions:      deps.Captions,
		downloader:    deps.Downloader,
		stt:           deps.SpeechToText,
		fs:            fs,
		scratchDir:    scratch,
		audioFallback: deps.AudioFallback,
		logger:        logger.With("component", "transcript"),
	}
}

// Resolve returns the transcript text, or false when every strategy came up empty.
// Failures of individual strategies are logged and never returned.
func (r *Resolver) Resolve(ctx context.Context, videoID string, langs []string) (string, bool) {
	if len(langs) == 0 {
		langs = []string{DefaultLanguage}
	}

	if text, ok := r.fromCaptions(ctx, videoID, langs[0]); ok {
		return r.found(videoID, "captions", text)
	}
	if ctx.Err() != nil {
		return "", false
	}

	if text, ok := r.fromSubtitleFiles(ctx, videoID, langs); ok {
		return r.found(videoID, "subtitles", text)
	}
	if ctx.Err() != nil {
		return "", false
	}

	if text, ok := r.fromAudio(ctx, videoID, langs[0]); ok {
		return r.found(videoID, "audio", text)
	}

	r.logger.Warn("transcript unavailable", "video_id", videoID, "langs", langs)
	return "", false
}

func (r *Resolver) found(videoID, strategy, text string) (string, bool) {
	r.logger.Info("transcript resolved",
		"video_id", videoID,
		"strategy", strategy,
		"size", humanize.Bytes(uint64(len(text))))
	return text, true
}

func (r *Resolver) fromCaptions(ctx context.Context, videoID, lang string) (string, bool) {
	if r.captions == nil {
		return "", false
	}
	segments, err := r.captions.Fetch(ctx, videoID, lang)
	if err != nil {
		r.logger.Debug("captions unavailable", "video_id", videoID, "lang", lang, "error", err)
		return "", false
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	text := strings.Join(parts, " ")
	return text, text != ""
}

// subtitleCandidates lists caption files in precedence order for one language.
func subtitleCandidates(videoID, lang string) []string {
	return []string{
		videoID + "." + lang + ".vtt",
		videoID + ".vtt",
		videoID + "." + lang + ".srt",
		videoID + ".srt",
	}
}

func (r *Resolver) fromSubtitleFiles(ctx context.Context, videoID string, langs []string) (string, bool) {
	if r.downloader == nil {
		return "", false
	}
	if err := r.fs.MkdirAll(r.scratchDir, 0o755); err != nil {
		r.logger.Warn("create scratch dir", "dir", r.scratchDir, "error", err)
		return "", false
	}
	if err := r.downloader.DownloadSubtitles(ctx, videoID, langs, r.scratchDir); err != nil {
		r.logger.Warn("subtitle download failed", "video_id", videoID, "error", err)
	}

	for _, lang := range langs {
		for _, name := range subtitleCandidates(videoID, lang) {
			file := filepath.Join(r.scratchDir, name)
			exists, err := afero.Exists(r.fs, file)
			if err != nil || !exists {
				continue
			}
			raw, err := afero.ReadFile(r.fs, file)
			if err != nil {
				r.logger.Warn("read subtitle file", "file", file, "error", err)
				return "", false
			}
			var text string
			if strings.HasSuffix(name, ".srt") {
				text = ParseSRT(string(raw))
			} else {
				text = ParseVTT(string(raw))
			}
			r.logger.Debug("subtitle file parsed", "file", file)
			return text, text != ""
		}
	}
	return "", false
}

func (r *Resolver) fromAudio(ctx context.Context, videoID, lang string) (string, bool) {
	if !r.audioFallback || r.downloader == nil || r.stt == nil {
		return "", false
	}

	audio, err := r.downloader.DownloadAudio(ctx, videoID, r.scratchDir)
	if err != nil {
		r.logger.Warn("audio download failed", "video_id", videoID, "error", err)
		return "", false
	}
	out, err := r.stt.Transcribe(ctx, audio, lang, r.scratchDir)
	if err != nil {
		r.logger.Warn("speech to text failed", "video_id", videoID, "error", err)
		return "", false
	}
	raw, err := afero.ReadFile(r.fs, out)
	if err != nil {
		r.logger.Warn("read speech to text output", "file", out, "error", err)
		return "", false
	}
	text := strings.TrimSpace(string(raw))
	return text, text != ""
}
