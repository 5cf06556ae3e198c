package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv          = "EVENT_SCANNER_CONFIG"
	databaseDSNEnv         = "DATABASE_DSN"
	firestoreProjectEnv    = "FIRESTORE_PROJECT_ID"
	firestoreCredsEnv      = "FIRESTORE_CREDENTIALS_FILE"
	sentimentURLEnv        = "SENTIMENT_INFERENCE_URL"
	sentimentAPIKeyEnv     = "SENTIMENT_API_KEY"
	chatGPTAPIKeyEnv       = "CHATGPT_API_KEY"
	chatGPTModelEnv        = "CHATGPT_MODEL"
	telegramTokenEnv       = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv      = "TELEGRAM_CHAT_ID"
	defaultDelayMinSeconds = 2
	defaultDelayMaxSeconds = 5
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Source        SourceConfig       `yaml:"source"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Sentiment     SentimentConfig    `yaml:"sentiment"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	Database      DatabaseConfig     `yaml:"database"`
	Firestore     FirestoreConfig    `yaml:"firestore"`
	Output        OutputConfig       `yaml:"output"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig describes the community news feed to scrape.
type SourceConfig struct {
	Scanner         string  `yaml:"scanner"`
	BaseURL         string  `yaml:"baseUrl"`
	GameID          string  `yaml:"gameId"`
	PageSize        int     `yaml:"pageSize"`
	DelayMinSeconds float64 `yaml:"delayMinSeconds"`
	DelayMaxSeconds float64 `yaml:"delayMaxSeconds"`
}

// DelayMin returns the lower bound of the inter-request pause.
func (s SourceConfig) DelayMin() time.Duration {
	return time.Duration(s.DelayMinSeconds * float64(time.Second))
}

// DelayMax returns the upper bound of the inter-request pause.
func (s SourceConfig) DelayMax() time.Duration {
	return time.Duration(s.DelayMaxSeconds * float64(time.Second))
}

// PipelineConfig bounds a single scrape run.
type PipelineConfig struct {
	MaxPages   int `yaml:"maxPages"`
	EventLimit int `yaml:"eventLimit"`
}

// SchedulerConfig defines whether and how often runs recur.
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
}

// IntervalDuration parses the configured interval, defaulting to 24h.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SentimentConfig describes the inference-service integration.
type SentimentConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// ChatGPTConfig defines the fallback LLM classifier.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// FirestoreConfig describes the document-store sink.
type FirestoreConfig struct {
	ProjectID       string `yaml:"projectId"`
	CredentialsFile string `yaml:"credentialsFile"`
	Collection      string `yaml:"collection"`
}

// OutputConfig points at the local JSON export.
type OutputConfig struct {
	FilePath string `yaml:"filePath"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file in the working directory is honored first.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(firestoreProjectEnv); v != "" {
		c.Firestore.ProjectID = v
	}
	if v := os.Getenv(firestoreCredsEnv); v != "" {
		c.Firestore.CredentialsFile = v
	}
	if v := os.Getenv(sentimentURLEnv); v != "" {
		c.Sentiment.InferenceURL = v
	}
	if v := os.Getenv(sentimentAPIKeyEnv); v != "" {
		c.Sentiment.APIKey = v
	}
	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}
	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Source.Scanner != "" {
		base.Source.Scanner = override.Source.Scanner
	}
	if override.Source.BaseURL != "" {
		base.Source.BaseURL = override.Source.BaseURL
	}
	if override.Source.GameID != "" {
		base.Source.GameID = override.Source.GameID
	}
	if override.Source.PageSize > 0 {
		base.Source.PageSize = override.Source.PageSize
	}
	if override.Source.DelayMaxSeconds > 0 {
		base.Source.DelayMinSeconds = override.Source.DelayMinSeconds
		base.Source.DelayMaxSeconds = override.Source.DelayMaxSeconds
	}

	if override.Pipeline.MaxPages > 0 {
		base.Pipeline.MaxPages = override.Pipeline.MaxPages
	}
	if override.Pipeline.EventLimit > 0 {
		base.Pipeline.EventLimit = override.Pipeline.EventLimit
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Sentiment.InferenceURL != "" {
		base.Sentiment.InferenceURL = override.Sentiment.InferenceURL
	}
	if override.Sentiment.APIKey != "" {
		base.Sentiment.APIKey = override.Sentiment.APIKey
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Firestore.ProjectID != "" {
		base.Firestore.ProjectID = override.Firestore.ProjectID
	}
	if override.Firestore.CredentialsFile != "" {
		base.Firestore.CredentialsFile = override.Firestore.CredentialsFile
	}
	if override.Firestore.Collection != "" {
		base.Firestore.Collection = override.Firestore.Collection
	}

	if override.Output.FilePath != "" {
		base.Output = override.Output
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Source: SourceConfig{
			Scanner:         "hoyolab",
			BaseURL:         "https://bbs-api-os.hoyolab.com",
			GameID:          "6",
			PageSize:        20,
			DelayMinSeconds: defaultDelayMinSeconds,
			DelayMaxSeconds: defaultDelayMaxSeconds,
		},
		Pipeline:  PipelineConfig{MaxPages: 10, EventLimit: 10},
		Scheduler: SchedulerConfig{Enabled: false, Interval: "24h"},
		ChatGPT: ChatGPTConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Firestore: FirestoreConfig{Collection: "events"},
		Output:    OutputConfig{FilePath: "formatted_events.json"},
	}
}
