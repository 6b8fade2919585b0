package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"TubeDigest/internal/config"
	"TubeDigest/internal/domain"
	"TubeDigest/internal/notify"
	"TubeDigest/internal/ports"
	"TubeDigest/internal/scanner"
)

// ErrNotCached is returned by Resume when no record exists for the requested video.
var ErrNotCached = errors.New("video not cached")

// Poller lists fresh videos of one channel.
type Poller interface {
	Poll(ctx context.Context, req scanner.PollRequest) ([]domain.Video, error)
}

// TranscriptResolver obtains transcripts; false means every strategy failed.
type TranscriptResolver interface {
	Resolve(ctx context.Context, videoID string, langs []string) (string, bool)
}

// Summarizer produces summaries; false means the provider failed or returned nothing.
type Summarizer interface {
	Summarize(ctx context.Context, systemPrompt, body string) (string, bool)
}

// Dispatcher delivers composed messages; false means retries were exhausted.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg notify.Message) bool
}

// PromptSource returns system prompts per channel.
type PromptSource interface {
	Get(channel string) (string, error)
	Digest() (string, error)
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Poller     Poller
	Resolver   TranscriptResolver
	Summarizer Summarizer
	Dispatcher Dispatcher
	Cache      ports.VideoCache
	Prompts    PromptSource
	Clock      func() time.Time
	Logger     *slog.Logger
}

// Pipeline implements the video summarization workflow.
type Pipeline struct {
	poller     Poller
	resolver   TranscriptResolver
	summarizer Summarizer
	dispatcher Dispatcher
	cache      ports.VideoCache
	prompts    PromptSource
	clock      func() time.Time
	logger     *slog.Logger
}

// RunReport is the per-run collection of videos a source run touched.
type RunReport struct {
	Source string
	RunID  string
	Videos []domain.Video
}

// Summarized returns the videos of the report that carry a summary.
func (r RunReport) Summarized() []domain.Video {
	var out []domain.Video
	for _, v := range r.Videos {
		if v.HasSummary() {
			out = append(out, v)
		}
	}
	return out
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		poller:     deps.Poller,
		resolver:   deps.Resolver,
		summarizer: deps.Summarizer,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		prompts:    deps.Prompts,
		clock:      clock,
		logger:     logger.With("component", "pipeline"),
	}
}

// RunSource polls one channel and drives every new video through transcript,
// summary and notification. Videos that already have a cache record are skipped.
func (p *Pipeline) RunSource(ctx context.Context, ch config.ChannelConfig) (RunReport, error) {
	report := RunReport{Source: ch.Name, RunID: uuid.NewString()}
	log := p.logger.With("source", ch.Name, "run_id", report.RunID)

	prompt, err := p.prompts.Get(ch.Name)
	if err != nil {
		return report, fmt.Errorf("source %s: %w", ch.Name, err)
	}

	videos, err := p.poller.Poll(ctx, scanner.PollRequest{
		Source:       ch.Name,
		Provider:     ch.Provider,
		MaxResults:   ch.MaxResults,
		Days:         ch.Days,
		Now:          p.clock(),
		DedupByTitle: ch.TitleDedup(),
	})
	if err != nil {
		return report, fmt.Errorf("poll %s: %w", ch.Name, err)
	}
	log.Info("processing videos", "count", len(videos))

	for _, video := range videos {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		cached, err := p.cache.Exists(ctx, video.Source, video.VideoID)
		if err != nil {
			log.Error("cache lookup failed", "video_id", video.VideoID, "error", err)
			continue
		}
		if cached {
			log.Debug("video already processed", "video_id", video.VideoID)
			continue
		}

		log.Info("processing video", "video_id", video.VideoID, "title", video.Title)
		processed, err := p.process(ctx, log, video, prompt, ch.Languages)
		report.Videos = append(report.Videos, processed)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// Resume continues a cached video from where its record left off. A stored
// transcript or summary is reused; notification is skipped once delivered, and
// a delivered record in a terminal status is returned untouched.
func (p *Pipeline) Resume(ctx context.Context, ch config.ChannelConfig, videoID string) (domain.Video, error) {
	log := p.logger.With("source", ch.Name, "run_id", uuid.NewString())

	video, err := p.cache.Load(ctx, ch.Name, videoID)
	if err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return domain.Video{}, fmt.Errorf("%w: %s/%s", ErrNotCached, ch.Name, videoID)
		}
		return domain.Video{}, fmt.Errorf("load %s/%s: %w", ch.Name, videoID, err)
	}

	prompt, err := p.prompts.Get(ch.Name)
	if err != nil {
		return video, fmt.Errorf("source %s: %w", ch.Name, err)
	}

	if video.Delivered && video.Status.Terminal() {
		log.Info("video already delivered", "video_id", videoID)
		return video, nil
	}

	log.Info("resuming video", "video_id", videoID, "status", video.Status)
	return p.process(ctx, log, video, prompt, ch.Languages)
}

// RunAll runs every channel in order; a failing channel is logged and skipped.
func (p *Pipeline) RunAll(ctx context.Context, channels []config.ChannelConfig) []RunReport {
	reports := make([]RunReport, 0, len(channels))
	for _, ch := range channels {
		if ctx.Err() != nil {
			p.logger.Warn("run interrupted", "error", ctx.Err())
			break
		}
		report, err := p.RunSource(ctx, ch)
		if err != nil {
			p.logger.Error("source failed", "source", ch.Name, "run_id", report.RunID, "error", err)
		}
		reports = append(reports, report)
	}
	return reports
}

// Digest summarizes every summary of the given reports with the digest prompt
// and dispatches the result. It reports false when there is nothing to send or
// a stage came back empty.
func (p *Pipeline) Digest(ctx context.Context, reports []RunReport) bool {
	var lines []string
	for _, report := range reports {
		for _, v := range report.Summarized() {
			title := v.ChannelTitle
			if title == "" {
				title = v.Source
			}
			lines = append(lines, title+": "+*v.Summary)
		}
	}
	if len(lines) == 0 {
		p.logger.Info("digest skipped, nothing summarized")
		return false
	}

	prompt, err := p.prompts.Digest()
	if err != nil {
		p.logger.Warn("digest skipped", "error", err)
		return false
	}

	text, ok := p.summarizer.Summarize(ctx, prompt, strings.Join(lines, "\n\n"))
	if !ok {
		return false
	}
	return p.dispatcher.Dispatch(ctx, notify.ComposeDigest(text))
}

// process advances a video through the state machine, saving after every transition.
func (p *Pipeline) process(ctx context.Context, log *slog.Logger, video domain.Video, prompt string, langs []string) (domain.Video, error) {
	log = log.With("video_id", video.VideoID)

	if err := p.save(ctx, video); err != nil {
		return video, err
	}

	if !video.HasTranscript() {
		video.Status = domain.StatusTranscriptPending
		if err := p.save(ctx, video); err != nil {
			return video, err
		}

		text, ok := p.resolver.Resolve(ctx, video.VideoID, langs)
		if !ok {
			video.Status = domain.StatusTranscriptMissing
			log.Warn("transcript missing")
			return video, p.save(ctx, video)
		}
		video.Transcript = &text
		video.Status = domain.StatusTranscriptReady
		if err := p.save(ctx, video); err != nil {
			return video, err
		}
	}

	if !video.HasSummary() {
		video.Status = domain.StatusSummaryPending
		if err := p.save(ctx, video); err != nil {
			return video, err
		}

		summary, ok := p.summarizer.Summarize(ctx, prompt, *video.Transcript)
		if !ok {
			video.Status = domain.StatusSummaryMissing
			log.Warn("summary missing")
			return video, p.save(ctx, video)
		}
		video.Summary = &summary
	}

	if video.Delivered {
		video.Status = domain.StatusNotified
		log.Info("already delivered")
		return video, p.save(ctx, video)
	}

	video.Status = domain.StatusSummaryReady
	if err := p.save(ctx, video); err != nil {
		return video, err
	}

	video.Delivered = p.dispatcher.Dispatch(ctx, notify.Compose(video))
	video.Status = domain.StatusNotified
	if !video.Delivered {
		log.Warn("notification not delivered")
	}
	return video, p.save(ctx, video)
}

// save detaches from cancellation so an interrupted run still records its last transition.
func (p *Pipeline) save(ctx context.Context, video domain.Video) error {
	if err := p.cache.Save(context.WithoutCancel(ctx), video); err != nil {
		return fmt.Errorf("persist video %s: %w", video.VideoID, err)
	}
	return nil
}
