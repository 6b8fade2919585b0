package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "TUBEDIGEST_CONFIG"
	defaultPath     = "configs/config.yml"
)

// ErrMissingRequired marks a required setting that has no value.
var ErrMissingRequired = errors.New("missing required configuration")

// ErrReservedChannel is returned when a channel name collides with a reserved prompt key.
var ErrReservedChannel = errors.New("channel name is a reserved prompt key")

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Subtitles SubtitleConfig  `yaml:"subtitles"`
	LLM       LLMConfig       `yaml:"llm"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Cache     CacheConfig     `yaml:"cache"`
	Prompts   PromptsConfig   `yaml:"prompts"`
	Channels  []ChannelConfig `yaml:"channels"`
}

// LoggingConfig selects verbosity and output format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines how often watch mode reruns every channel.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// YouTubeConfig wires the Data API and the public endpoints used for captions.
type YouTubeConfig struct {
	APIKey      string `yaml:"apiKey"`
	APIEndpoint string `yaml:"apiEndpoint"`
	PageBaseURL string `yaml:"pageBaseUrl"`
	CaptionsURL string `yaml:"captionsUrl"`
}

// SubtitleConfig configures the file-based and audio fallbacks.
type SubtitleConfig struct {
	YtDlpPath     string `yaml:"ytDlpPath"`
	WhisperPath   string `yaml:"whisperPath"`
	WhisperModel  string `yaml:"whisperModel"`
	ScratchDir    string `yaml:"scratchDir"`
	AudioFallback bool   `yaml:"audioFallback"`
}

// LLMConfig defines which completion provider to contact and how.
type LLMConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	APIKey        string `yaml:"apiKey"`
	BaseURL       string `yaml:"baseUrl"`
	MaxInputChars int    `yaml:"maxInputChars"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken  string `yaml:"botToken"`
	ChatID    string `yaml:"chatId"`
	ServerURL string `yaml:"serverUrl"`
}

// DeliveryConfig separates the retry backoff from the per-message pace delay.
type DeliveryConfig struct {
	Attempts   int           `yaml:"attempts"`
	RetryDelay time.Duration `yaml:"retryDelay"`
	PaceDelay  time.Duration `yaml:"paceDelay"`
}

// CacheConfig points at the directory holding per-video records.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// PromptsConfig locates the channel prompt document.
type PromptsConfig struct {
	Path string `yaml:"path"`
}

// ChannelConfig describes one polled channel.
type ChannelConfig struct {
	Name         string   `yaml:"name"`
	Provider     string   `yaml:"provider"`
	MaxResults   int      `yaml:"maxResults"`
	Days         int      `yaml:"days"`
	Languages    []string `yaml:"languages"`
	DedupByTitle *bool    `yaml:"dedupByTitle"`
}

// TitleDedup reports whether batch deduplication by title is enabled (default true).
func (c ChannelConfig) TitleDedup() bool {
	return c.DedupByTitle == nil || *c.DedupByTitle
}

// secrets are overlaid from the environment after the YAML file.
type secrets struct {
	YouTubeAPIKey  string `envconfig:"YOUTUBE_API_KEY"`
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY"`
	TelegramToken  string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID string `envconfig:"TELEGRAM_CHAT_ID"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	PromptsPath    string `envconfig:"TUBEDIGEST_PROMPTS"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to $TUBEDIGEST_CONFIG and then configs/config.yml.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	explicit := path != ""
	if path == "" {
		path = defaultPath
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	case explicit:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		log.Printf("config: %s not found, using defaults", path)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.bindTimezone()

	return cfg, nil
}

// Validate checks that all settings needed for a run are present.
func (c Config) Validate() error {
	if len(c.Channels) == 0 {
		return fmt.Errorf("%w: channels", ErrMissingRequired)
	}
	for i, ch := range c.Channels {
		if ch.Name == "" {
			return fmt.Errorf("%w: channels[%d].name", ErrMissingRequired, i)
		}
		if isReservedPromptKey(ch.Name) {
			return fmt.Errorf("%w: channels[%d].name %q", ErrReservedChannel, i, ch.Name)
		}
	}
	if c.Prompts.Path == "" {
		return fmt.Errorf("%w: prompts.path", ErrMissingRequired)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm.apiKey", ErrMissingRequired)
	}
	if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
		return fmt.Errorf("%w: telegram.botToken/chatId", ErrMissingRequired)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	var env secrets
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if env.YouTubeAPIKey != "" {
		c.YouTube.APIKey = env.YouTubeAPIKey
	}
	if env.TelegramToken != "" {
		c.Telegram.BotToken = env.TelegramToken
	}
	if env.TelegramChatID != "" {
		c.Telegram.ChatID = env.TelegramChatID
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.PromptsPath != "" {
		c.Prompts.Path = env.PromptsPath
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if env.GeminiAPIKey != "" {
			c.LLM.APIKey = env.GeminiAPIKey
		}
	default:
		if env.OpenAIAPIKey != "" {
			c.LLM.APIKey = env.OpenAIAPIKey
		}
	}
	return nil
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.YouTube.APIKey != "" {
		base.YouTube.APIKey = override.YouTube.APIKey
	}
	if override.YouTube.APIEndpoint != "" {
		base.YouTube.APIEndpoint = override.YouTube.APIEndpoint
	}
	if override.YouTube.PageBaseURL != "" {
		base.YouTube.PageBaseURL = override.YouTube.PageBaseURL
	}
	if override.YouTube.CaptionsURL != "" {
		base.YouTube.CaptionsURL = override.YouTube.CaptionsURL
	}

	if override.Subtitles.YtDlpPath != "" {
		base.Subtitles.YtDlpPath = override.Subtitles.YtDlpPath
	}
	if override.Subtitles.WhisperPath != "" {
		base.Subtitles.WhisperPath = override.Subtitles.WhisperPath
	}
	if override.Subtitles.WhisperModel != "" {
		base.Subtitles.WhisperModel = override.Subtitles.WhisperModel
	}
	if override.Subtitles.ScratchDir != "" {
		base.Subtitles.ScratchDir = override.Subtitles.ScratchDir
	}
	if override.Subtitles.AudioFallback {
		base.Subtitles.AudioFallback = true
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
		if override.LLM.Model == "" && override.LLM.Provider == ProviderGemini {
			base.LLM.Model = defaultGeminiModel
		}
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.LLM.MaxInputChars > 0 {
		base.LLM.MaxInputChars = override.LLM.MaxInputChars
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}
	if override.Telegram.ServerURL != "" {
		base.Telegram.ServerURL = override.Telegram.ServerURL
	}

	if override.Delivery.Attempts > 0 {
		base.Delivery.Attempts = override.Delivery.Attempts
	}
	if override.Delivery.RetryDelay > 0 {
		base.Delivery.RetryDelay = override.Delivery.RetryDelay
	}
	if override.Delivery.PaceDelay > 0 {
		base.Delivery.PaceDelay = override.Delivery.PaceDelay
	}

	if override.Cache.Dir != "" {
		base.Cache.Dir = override.Cache.Dir
	}
	if override.Prompts.Path != "" {
		base.Prompts.Path = override.Prompts.Path
	}

	if len(override.Channels) > 0 {
		base.Channels = make([]ChannelConfig, 0, len(override.Channels))
		for _, ch := range override.Channels {
			base.Channels = append(base.Channels, ch.withDefaults())
		}
	}

	return base
}

// withDefaults fills per-channel knobs left empty in the file.
func (c ChannelConfig) withDefaults() ChannelConfig {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.Days <= 0 {
		c.Days = DefaultDays
	}
	if len(c.Languages) == 0 {
		c.Languages = []string{DefaultLanguage}
	}
	return c
}
