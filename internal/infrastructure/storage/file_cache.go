package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/afero"

	"TubeDigest/internal/domain"
	"TubeDigest/internal/ports"
)

// FileCache persists one indented JSON document per (source, video id).
type FileCache struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

var _ ports.VideoCache = (*FileCache)(nil)

// NewFileCache stores records under dir on the given filesystem.
func NewFileCache(fs afero.Fs, dir string) *FileCache {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileCache{fs: fs, dir: dir, now: time.Now}
}

// Path returns the record location for a key. Distinct keys always map to
// distinct names; on case-insensitive filesystems keys differing only in case
// still share a file.
func (c *FileCache) Path(source, videoID string) string {
	return filepath.Join(c.dir, escapeKey(source, false)+"_"+escapeKey(videoID, true)+".json")
}

// Save overwrites the record of video, stamping UpdatedAt.
func (c *FileCache) Save(ctx context.Context, video domain.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if video.Source == "" || video.VideoID == "" {
		return fmt.Errorf("save video: empty key %q/%q", video.Source, video.VideoID)
	}
	video.UpdatedAt = c.now().UTC()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(video); err != nil {
		return fmt.Errorf("encode video %s: %w", video.VideoID, err)
	}

	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := afero.TempFile(c.fs, c.dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("close temp record: %w", err)
	}

	if err := c.fs.Rename(tmpName, c.Path(video.Source, video.VideoID)); err != nil {
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

// Load reads a record; a missing one yields ports.ErrCacheMiss.
func (c *FileCache) Load(ctx context.Context, source, videoID string) (domain.Video, error) {
	if err := ctx.Err(); err != nil {
		return domain.Video{}, err
	}
	raw, err := afero.ReadFile(c.fs, c.Path(source, videoID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Video{}, fmt.Errorf("%w: %s/%s", ports.ErrCacheMiss, source, videoID)
		}
		return domain.Video{}, fmt.Errorf("read record: %w", err)
	}

	var video domain.Video
	if err := json.Unmarshal(raw, &video); err != nil {
		return domain.Video{}, fmt.Errorf("decode record %s/%s: %w", source, videoID, err)
	}
	return video, nil
}

// Exists reports whether a record is present for the key.
func (c *FileCache) Exists(ctx context.Context, source, videoID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := afero.Exists(c.fs, c.Path(source, videoID))
	if err != nil {
		return false, fmt.Errorf("stat record: %w", err)
	}
	return ok, nil
}

// escapeKey percent-encodes every byte outside letters, digits, '-' and '.',
// plus '_' unless keepUnderscore is set. Sources are escaped without it, so
// the first raw '_' of a file name always separates source from video id.
func escapeKey(part string, keepUnderscore bool) string {
	if part == "." || part == ".." {
		return strings.Repeat("%2E", len(part))
	}

	var b strings.Builder
	for _, r := range part {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.':
			b.WriteRune(r)
		case r == '_' && keepUnderscore:
			b.WriteRune(r)
		default:
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], r)
			for _, c := range buf[:n] {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		}
	}
	return b.String()
}
