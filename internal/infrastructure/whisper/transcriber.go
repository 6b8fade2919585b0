package whisper

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"TubeDigest/internal/infrastructure/command"
	"TubeDigest/internal/ports"
)

// Transcriber converts audio to text with the whisper CLI.
type Transcriber struct {
	runner command.Runner
	fs     afero.Fs
	binary string
	model  string
}

var _ ports.SpeechToText = (*Transcriber)(nil)

// NewTranscriber wires the runner; binary defaults to "whisper" and model to "small".
func NewTranscriber(runner command.Runner, fs afero.Fs, binary, model string) *Transcriber {
	if binary == "" {
		binary = "whisper"
	}
	if model == "" {
		model = "small"
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Transcriber{runner: runner, fs: fs, binary: binary, model: model}
}

// Transcribe writes {outDir}/{audio stem}.txt and returns its path.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, lang, outDir string) (string, error) {
	args := []string{
		audioPath,
		"--model", t.model,
		"--language", lang,
		"--output_format", "txt",
		"--output_dir", outDir,
	}
	if _, err := t.runner.Run(ctx, t.binary, args, ""); err != nil {
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	out := filepath.Join(outDir, stem+".txt")
	ok, err := afero.Exists(t.fs, out)
	if err != nil {
		return "", fmt.Errorf("stat transcript %s: %w", out, err)
	}
	if !ok {
		return "", fmt.Errorf("transcript file not found: %s", out)
	}
	return out, nil
}
