package config

import "time"

// Completion provider names accepted in llm.provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Per-channel defaults.
const (
	DefaultProvider   = "youtube"
	DefaultMaxResults = 3
	DefaultDays       = 1
	DefaultLanguage   = "en"
)

const (
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultMaxInputChars = 127000
)

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour, Timezone: defaultTimezone, location: tz},
		YouTube: YouTubeConfig{
			PageBaseURL: "https://www.youtube.com",
			CaptionsURL: "https://www.youtube.com/api/timedtext",
		},
		Subtitles: SubtitleConfig{
			YtDlpPath:    "yt-dlp",
			WhisperPath:  "whisper",
			WhisperModel: "small",
			ScratchDir:   "tmp",
		},
		LLM: LLMConfig{
			Provider:      ProviderOpenAI,
			Model:         defaultOpenAIModel,
			MaxInputChars: defaultMaxInputChars,
		},
		Delivery: DeliveryConfig{
			Attempts:   5,
			RetryDelay: 10 * time.Second,
			PaceDelay:  10 * time.Second,
		},
		Cache:   CacheConfig{Dir: "data"},
		Prompts: PromptsConfig{Path: "configs/prompts.yml"},
	}
}
