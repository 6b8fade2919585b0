package transcript

import (
	"regexp"
	"strings"
)

// vttTimingRe matches cue timings like "00:00:01.234 --> 00:00:03.456" or the short "00:01.234 -->" form.
var vttTimingRe = regexp.MustCompile(`^(\d{2}:)?\d{2}:\d{2}\.\d{3}\s*-->`)

// srtTimingRe matches numbered-index timings like "00:00:01,234 --> 00:00:03,456".
var srtTimingRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2},\d{3}\s*-->`)

var cueIndexRe = regexp.MustCompile(`^\d+$`)

// vttNoteRe matches the first line of a comment block.
var vttNoteRe = regexp.MustCompile(`^NOTE(\s|$)`)

var inlineTagRe = regexp.MustCompile(`<[^>]+>`)

// ParseVTT extracts the spoken lines of a WebVTT document. Everything before
// the first cue timing is header (WEBVTT, Kind:, Language:, STYLE, NOTE) and
// dropped; later NOTE blocks are dropped as a whole.
func ParseVTT(raw string) string {
	f := &vttFilter{blockStart: true}
	return extractText(raw, f.skip)
}

// vttFilter tracks block boundaries so cue text that merely starts with a
// metadata word is kept.
type vttFilter struct {
	cueSeen    bool
	inNote     bool
	blockStart bool
}

func (f *vttFilter) skip(line string) bool {
	if line == "" {
		f.blockStart, f.inNote = true, false
		return true
	}
	first := f.blockStart
	f.blockStart = false

	if vttTimingRe.MatchString(line) {
		f.cueSeen = true
		return true
	}
	if !f.cueSeen {
		return true
	}
	if first && vttNoteRe.MatchString(line) {
		f.inNote = true
	}
	return f.inNote
}

// ParseSRT extracts the spoken lines of a SubRip document.
func ParseSRT(raw string) string {
	return extractText(raw, srtTimingRe.MatchString)
}

// extractText keeps the lines skip lets through, minus blank and cue index
// lines. skip sees every trimmed line, blank ones included.
func extractText(raw string, skip func(string) bool) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if skip(line) || line == "" || cueIndexRe.MatchString(line) {
			continue
		}
		line = strings.TrimSpace(inlineTagRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
