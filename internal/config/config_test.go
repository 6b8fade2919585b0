package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
logging:
  level: warn
  format: json
scheduler:
  interval: 6h
  timezone: UTC
llm:
  provider: gemini
  apiKey: file-key
telegram:
  botToken: token
  chatId: "-100"
delivery:
  retryDelay: 2s
channels:
  - name: Alpha
  - name: Beta
    maxResults: 10
    days: 3
    languages: [ru, en]
    dedupByTitle: false
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load(writeFile(t, "config.yml", sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, defaultGeminiModel, cfg.LLM.Model)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, defaultMaxInputChars, cfg.LLM.MaxInputChars)

	assert.Equal(t, 5, cfg.Delivery.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Delivery.RetryDelay)
	assert.Equal(t, 10*time.Second, cfg.Delivery.PaceDelay)

	require.Len(t, cfg.Channels, 2)
	alpha := cfg.Channels[0]
	assert.Equal(t, DefaultProvider, alpha.Provider)
	assert.Equal(t, DefaultMaxResults, alpha.MaxResults)
	assert.Equal(t, DefaultDays, alpha.Days)
	assert.Equal(t, []string{DefaultLanguage}, alpha.Languages)
	assert.True(t, alpha.TitleDedup())

	beta := cfg.Channels[1]
	assert.Equal(t, 10, beta.MaxResults)
	assert.Equal(t, 3, beta.Days)
	assert.Equal(t, []string{"ru", "en"}, beta.Languages)
	assert.False(t, beta.TitleDedup())

	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesEnvironmentSecrets(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(writeFile(t, "config.yml", sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeFile(t, "config.yml", "channels: [\n"))
	assert.Error(t, err)
}

func TestValidateReportsMissing(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingRequired)

	cfg.Channels = []ChannelConfig{{Name: "Alpha"}}
	cfg.LLM.APIKey = "k"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingRequired)

	cfg.Telegram = TelegramConfig{BotToken: "t", ChatID: "1"}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsReservedChannelNames(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.Telegram = TelegramConfig{BotToken: "t", ChatID: "1"}

	for _, name := range []string{"digest", "Default", " DIGEST "} {
		cfg.Channels = []ChannelConfig{{Name: "Alpha"}, {Name: name}}
		assert.ErrorIs(t, cfg.Validate(), ErrReservedChannel, name)
	}

	cfg.Channels = []ChannelConfig{{Name: "digests"}}
	assert.NoError(t, cfg.Validate())
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Scheduler.Timezone = "Mars/Olympus"
	cfg.bindTimezone()
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}
