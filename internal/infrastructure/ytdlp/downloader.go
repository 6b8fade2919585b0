package ytdlp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"TubeDigest/internal/domain"
	"TubeDigest/internal/infrastructure/command"
	"TubeDigest/internal/ports"
)

// Downloader fetches caption files and audio tracks with the yt-dlp CLI.
type Downloader struct {
	runner command.Runner
	fs     afero.Fs
	binary string
}

var _ ports.SubtitleDownloader = (*Downloader)(nil)

// NewDownloader wires the runner; binary defaults to "yt-dlp" on PATH.
func NewDownloader(runner command.Runner, fs afero.Fs, binary string) *Downloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Downloader{runner: runner, fs: fs, binary: binary}
}

// DownloadSubtitles writes human and auto-generated captions for langs into dir
// as {videoID}.{lang}.{ext}.
func (d *Downloader) DownloadSubtitles(ctx context.Context, videoID string, langs []string, dir string) error {
	args := []string{
		"--write-sub",
		"--write-auto-sub",
		"--sub-lang", strings.Join(langs, ","),
		"--skip-download",
		"-o", outputTemplate(dir, videoID),
		domain.WatchURL(videoID),
	}
	if _, err := d.runner.Run(ctx, d.binary, args, ""); err != nil {
		return fmt.Errorf("download subtitles %s: %w", videoID, err)
	}
	return nil
}

// DownloadAudio extracts the audio track as {dir}/{videoID}.wav and returns its path.
func (d *Downloader) DownloadAudio(ctx context.Context, videoID, dir string) (string, error) {
	args := []string{
		"-x",
		"--audio-format", "wav",
		"-o", outputTemplate(dir, videoID),
		domain.WatchURL(videoID),
	}
	if _, err := d.runner.Run(ctx, d.binary, args, ""); err != nil {
		return "", fmt.Errorf("download audio %s: %w", videoID, err)
	}

	wav := filepath.Join(dir, videoID+".wav")
	ok, err := afero.Exists(d.fs, wav)
	if err != nil {
		return "", fmt.Errorf("stat audio %s: %w", wav, err)
	}
	if !ok {
		return "", fmt.Errorf("audio file not found: %s", wav)
	}
	return wav, nil
}

func outputTemplate(dir, videoID string) string {
	return filepath.Join(dir, videoID+".%(ext)s")
}
