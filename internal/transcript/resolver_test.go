package transcript

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TubeDigest/internal/domain"
)

const scratch = "/scratch"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubCaptions struct {
	segments []domain.CaptionSegment
	err      error
	gotLang  string
}

func (s *stubCaptions) Fetch(_ context.Context, _, lang string) ([]domain.CaptionSegment, error) {
	s.gotLang = lang
	return s.segments, s.err
}

// stubDownloader writes the configured files into fs when asked to download.
type stubDownloader struct {
	fs        afero.Fs
	files     map[string]string
	audio     string
	subErr    error
	audioErr  error
	subCalls  int
	gotLangs  []string
	audioCall int
}

func (s *stubDownloader) DownloadSubtitles(_ context.Context, _ string, langs []string, dir string) error {
	s.subCalls++
	s.gotLangs = langs
	for name, body := range s.files {
		if err := afero.WriteFile(s.fs, filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return err
		}
	}
	return s.subErr
}

func (s *stubDownloader) DownloadAudio(_ context.Context, videoID, dir string) (string, error) {
	s.audioCall++
	if s.audioErr != nil {
		return "", s.audioErr
	}
	return filepath.Join(dir, videoID+".wav"), nil
}

type stubSTT struct {
	fs      afero.Fs
	text    string
	err     error
	gotLang string
}

func (s *stubSTT) Transcribe(_ context.Context, audioPath, lang, outDir string) (string, error) {
	s.gotLang = lang
	if s.err != nil {
		return "", s.err
	}
	out := filepath.Join(outDir, "out.txt")
	return out, afero.WriteFile(s.fs, out, []byte(s.text), 0o644)
}

func TestResolveUsesCaptionsFirst(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	captions := &stubCaptions{segments: []domain.CaptionSegment{{Text: "Hello"}, {Text: " world "}}}
	downloader := &stubDownloader{fs: fs}
	r := NewResolver(ResolverDeps{Captions: captions, Downloader: downloader, Fs: fs, ScratchDir: scratch, Logger: discard})

	text, ok := r.Resolve(context.Background(), "vid", []string{"ru", "en"})
	require.True(t, ok)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, "ru", captions.gotLang)
	assert.Zero(t, downloader.subCalls)
}

func TestResolveDefaultsLanguage(t *testing.T) {
	t.Parallel()

	captions := &stubCaptions{segments: []domain.CaptionSegment{{Text: "hi"}}}
	r := NewResolver(ResolverDeps{Captions: captions, Fs: afero.NewMemMapFs(), Logger: discard})

	_, ok := r.Resolve(context.Background(), "vid", nil)
	require.True(t, ok)
	assert.Equal(t, DefaultLanguage, captions.gotLang)
}

func TestResolveFallsBackToVTT(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	downloader := &stubDownloader{
		fs: fs,
		files: map[string]string{
			"vid.en.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHello world\n",
		},
		subErr: errors.New("exit status 1"),
	}
	r := NewResolver(ResolverDeps{
		Captions:   &stubCaptions{err: errors.New("no captions")},
		Downloader: downloader,
		Fs:         fs,
		ScratchDir: scratch,
		Logger:     discard,
	})

	text, ok := r.Resolve(context.Background(), "vid", []string{"en"})
	require.True(t, ok)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, []string{"en"}, downloader.gotLangs)
}

func TestResolveCandidatePrecedence(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	downloader := &stubDownloader{
		fs: fs,
		files: map[string]string{
			"vid.vtt":    "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nfrom generic vtt\n",
			"vid.ru.srt": "1\n00:00:00,000 --> 00:00:01,000\nfrom ru srt\n",
			"vid.en.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nfrom en vtt\n",
		},
	}
	r := NewResolver(ResolverDeps{Downloader: downloader, Fs: fs, ScratchDir: scratch, Logger: discard})

	text, ok := r.Resolve(context.Background(), "vid", []string{"ru", "en"})
	require.True(t, ok)
	assert.Equal(t, "from generic vtt", text)
}

func TestResolveSRTWhenNoVTT(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	downloader := &stubDownloader{
		fs: fs,
		files: map[string]string{
			"vid.en.srt": "1\n00:00:00,000 --> 00:00:01,000\nsrt text\n",
		},
	}
	r := NewResolver(ResolverDeps{Downloader: downloader, Fs: fs, ScratchDir: scratch, Logger: discard})

	text, ok := r.Resolve(context.Background(), "vid", []string{"en"})
	require.True(t, ok)
	assert.Equal(t, "srt text", text)
}

func TestResolveAudioFallback(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	downloader := &stubDownloader{fs: fs}
	stt := &stubSTT{fs: fs, text: "  spoken words \n"}
	r := NewResolver(ResolverDeps{
		Downloader:    downloader,
		SpeechToText:  stt,
		Fs:            fs,
		ScratchDir:    scratch,
		AudioFallback: true,
		Logger:        discard,
	})

	text, ok := r.Resolve(context.Background(), "vid", []string{"de", "en"})
	require.True(t, ok)
	assert.Equal(t, "spoken words", text)
	assert.Equal(t, "de", stt.gotLang)
	assert.Equal(t, 1, downloader.audioCall)
}

func TestResolveAudioFallbackDisabled(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	downloader := &stubDownloader{fs: fs}
	r := NewResolver(ResolverDeps{
		Downloader:   downloader,
		SpeechToText: &stubSTT{fs: fs, text: "spoken"},
		Fs:           fs,
		ScratchDir:   scratch,
		Logger:       discard,
	})

	_, ok := r.Resolve(context.Background(), "vid", []string{"en"})
	assert.False(t, ok)
	assert.Zero(t, downloader.audioCall)
}

func TestResolveAllStrategiesFail(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	r := NewResolver(ResolverDeps{
		Captions:      &stubCaptions{err: errors.New("quota")},
		Downloader:    &stubDownloader{fs: fs, audioErr: errors.New("no audio")},
		SpeechToText:  &stubSTT{fs: fs},
		Fs:            fs,
		ScratchDir:    scratch,
		AudioFallback: true,
		Logger:        discard,
	})

	text, ok := r.Resolve(context.Background(), "vid", []string{"en"})
	assert.False(t, ok)
	assert.Empty(t, text)
}
