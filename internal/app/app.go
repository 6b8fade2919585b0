package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/afero"

	"TubeDigest/internal/config"
	"TubeDigest/internal/domain"
	"TubeDigest/internal/infrastructure/command"
	"TubeDigest/internal/infrastructure/llm"
	"TubeDigest/internal/infrastructure/scheduler"
	"TubeDigest/internal/infrastructure/storage"
	"TubeDigest/internal/infrastructure/telegram"
	"TubeDigest/internal/infrastructure/whisper"
	"TubeDigest/internal/infrastructure/youtube"
	"TubeDigest/internal/infrastructure/ytdlp"
	"TubeDigest/internal/logging"
	"TubeDigest/internal/notify"
	"TubeDigest/internal/scanner"
	"TubeDigest/internal/summary"
	"TubeDigest/internal/transcript"
	"TubeDigest/internal/usecase"
)

// ErrUnknownChannel is returned when a command names a channel absent from the configuration.
var ErrUnknownChannel = errors.New("channel not configured")

const shutdownTimeout = 30 * time.Second

// Option customizes the infrastructure the application is built on.
type Option func(*options)

type options struct {
	fs         afero.Fs
	httpClient *http.Client
}

// WithFs replaces the filesystem used by the cache and transcript scratch files.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithHTTPClient replaces the client used for channel pages and caption tracks.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// RunOptions narrows a one-shot run.
type RunOptions struct {
	Channel string
	Digest  bool
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application from a validated configuration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	o := options{fs: afero.NewOsFs(), httpClient: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}

	prompts, err := config.LoadPrompts(cfg.Prompts.Path)
	if err != nil {
		return nil, err
	}

	registry := scanner.NewRegistry()
	registry.Register(youtube.NewPageDirectory(o.httpClient, cfg.YouTube.PageBaseURL))
	if cfg.YouTube.APIKey != "" {
		dir, err := youtube.NewAPIDirectory(ctx, cfg.YouTube.APIKey, cfg.YouTube.APIEndpoint)
		if err != nil {
			return nil, err
		}
		registry.Register(dir)
	} else {
		baseLogger.Warn("youtube api key not set, only the feed provider is available")
	}

	runner := command.NewExecRunner(baseLogger)
	resolver := transcript.NewResolver(transcript.ResolverDeps{
		Captions:      youtube.NewTimedTextCaptions(o.httpClient, cfg.YouTube.CaptionsURL),
		Downloader:    ytdlp.NewDownloader(runner, o.fs, cfg.Subtitles.YtDlpPath),
		SpeechToText:  whisper.NewTranscriber(runner, o.fs, cfg.Subtitles.WhisperPath, cfg.Subtitles.WhisperModel),
		Fs:            o.fs,
		ScratchDir:    cfg.Subtitles.ScratchDir,
		AudioFallback: cfg.Subtitles.AudioFallback,
		Logger:        baseLogger,
	})

	completion, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	sender, err := telegram.NewSender(cfg.Telegram)
	if err != nil {
		return nil, err
	}
	dispatcher := notify.NewDispatcher(sender,
		notify.WithAttempts(cfg.Delivery.Attempts),
		notify.WithRetryDelay(cfg.Delivery.RetryDelay),
		notify.WithPaceDelay(cfg.Delivery.PaceDelay),
		notify.WithLogger(baseLogger),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Poller:     scanner.NewPoller(registry, baseLogger),
		Resolver:   resolver,
		Summarizer: summary.NewGateway(completion, cfg.LLM.MaxInputChars, baseLogger),
		Dispatcher: dispatcher,
		Cache:      storage.NewFileCache(o.fs, cfg.Cache.Dir),
		Prompts:    prompts,
		Logger:     baseLogger,
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

// Run performs a single pass over the configured channels, or over one of them.
func (a *Application) Run(ctx context.Context, opts RunOptions) ([]usecase.RunReport, error) {
	channels := a.cfg.Channels
	if opts.Channel != "" {
		ch, err := a.channel(opts.Channel)
		if err != nil {
			return nil, err
		}
		channels = []config.ChannelConfig{ch}
	}

	reports := a.pipeline.RunAll(ctx, channels)
	if opts.Digest {
		a.pipeline.Digest(ctx, reports)
	}
	return reports, ctx.Err()
}

// Resume continues one cached video.
func (a *Application) Resume(ctx context.Context, channel, videoID string) (domain.Video, error) {
	ch, err := a.channel(channel)
	if err != nil {
		return domain.Video{}, err
	}
	return a.pipeline.Resume(ctx, ch, videoID)
}

// Watch runs every channel on the configured interval until ctx is cancelled.
func (a *Application) Watch(ctx context.Context, digest bool) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, a.cfg.Channels, digest, a.logger)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("watching channels", "interval", a.cfg.Scheduler.Interval, "channels", len(a.cfg.Channels))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}

func (a *Application) channel(name string) (config.ChannelConfig, error) {
	for _, ch := range a.cfg.Channels {
		if strings.EqualFold(ch.Name, name) {
			return ch, nil
		}
	}
	return config.ChannelConfig{}, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
}
