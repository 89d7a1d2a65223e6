package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv        = "FOLDER_TRANSLATOR_CONFIG"
	folderToWatchEnv     = "FOLDER_TO_WATCH"
	targetLanguageEnv    = "TARGET_LANGUAGE"
	tesseractCmdEnv      = "TESSERACT_CMD"
	tesseractLangEnv     = "TESSERACT_LANG"
	translatorEnv        = "TRANSLATOR_PROVIDER"
	translateAPIKeyEnv   = "TRANSLATE_API_KEY"
	translateEndpointEnv = "TRANSLATE_ENDPOINT"
	chatGPTAPIKeyEnv     = "CHATGPT_API_KEY"
	chatGPTModelEnv      = "CHATGPT_MODEL"
	databaseDSNEnv       = "DATABASE_DSN"
	telegramTokenEnv     = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv    = "TELEGRAM_CHAT_ID"
	logLevelEnv          = "LOG_LEVEL"
)

// Translation backends.
const (
	ProviderGoogle         = "google"
	ProviderLibreTranslate = "libretranslate"
	ProviderChatGPT        = "chatgpt"
)

// Archive policies applied when a file could not be processed.
const (
	PolicyArchive = "archive"
	PolicyKeep    = "keep"
)

// Config holds high-level settings required across the application.
type Config struct {
	Watch         WatchConfig        `yaml:"watch"`
	Archive       ArchiveConfig      `yaml:"archive"`
	OCR           OCRConfig          `yaml:"ocr"`
	PDF           PDFConfig          `yaml:"pdf"`
	Translator    TranslatorConfig   `yaml:"translator"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// WatchConfig describes the watched folder.
type WatchConfig struct {
	Folder         string        `yaml:"folder"`
	SettleDelay    time.Duration `yaml:"settleDelay"`
	RescanInterval time.Duration `yaml:"rescanInterval"`
	QueueSize      int           `yaml:"queueSize"`
}

// ArchiveConfig controls where processed files go.
type ArchiveConfig struct {
	Subfolder string `yaml:"subfolder"`
	OnFailure string `yaml:"onFailure"`
}

// ArchiveDir returns the absolute archive directory inside the watched folder.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.Watch.Folder, c.Archive.Subfolder)
}

// OCRConfig points at the Tesseract binary.
type OCRConfig struct {
	Command   string        `yaml:"command"`
	Languages string        `yaml:"languages"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PDFConfig tunes scanned-page rendering.
type PDFConfig struct {
	RenderDPI float64 `yaml:"renderDpi"`
}

// TranslatorConfig selects and parameterizes the translation backend.
type TranslatorConfig struct {
	Provider       string        `yaml:"provider"`
	TargetLanguage string        `yaml:"targetLanguage"`
	Endpoint       string        `yaml:"endpoint"`
	APIKey         string        `yaml:"apiKey"`
	Timeout        time.Duration `yaml:"timeout"`
	Retries        *int          `yaml:"retries"`
	RetryDelay     time.Duration `yaml:"retryDelay"`
}

// RetryCount resolves the optional retries setting.
func (t TranslatorConfig) RetryCount() int {
	if t.Retries == nil || *t.Retries < 0 {
		return 0
	}
	return *t.Retries
}

// ChatGPTConfig defines how to contact an OpenAI-compatible chat API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// DatabaseConfig describes the optional Postgres audit history.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
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

// Validate reports settings the application cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Watch.Folder) == "" {
		return fmt.Errorf("%s is required", folderToWatchEnv)
	}
	if !filepath.IsAbs(c.Watch.Folder) {
		return fmt.Errorf("%s must be an absolute path, got %q", folderToWatchEnv, c.Watch.Folder)
	}
	if strings.ContainsAny(c.Archive.Subfolder, `/\`) || c.Archive.Subfolder == "" || c.Archive.Subfolder == "." || c.Archive.Subfolder == ".." {
		return fmt.Errorf("archive subfolder %q must be a plain directory name", c.Archive.Subfolder)
	}
	switch c.Archive.OnFailure {
	case PolicyArchive, PolicyKeep:
	default:
		return fmt.Errorf("unknown archive policy %q", c.Archive.OnFailure)
	}
	switch c.Translator.Provider {
	case ProviderGoogle, ProviderLibreTranslate, ProviderChatGPT:
	default:
		return fmt.Errorf("unknown translator provider %q", c.Translator.Provider)
	}
	if c.Translator.TargetLanguage == "" {
		return fmt.Errorf("%s must not be empty", targetLanguageEnv)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(folderToWatchEnv); v != "" {
		c.Watch.Folder = v
	}

	if v := os.Getenv(targetLanguageEnv); v != "" {
		c.Translator.TargetLanguage = v
	}

	if v := os.Getenv(tesseractCmdEnv); v != "" {
		c.OCR.Command = v
	}
	if v := os.Getenv(tesseractLangEnv); v != "" {
		c.OCR.Languages = v
	}

	if v := os.Getenv(translatorEnv); v != "" {
		c.Translator.Provider = strings.ToLower(v)
	}
	if v := os.Getenv(translateAPIKeyEnv); v != "" {
		c.Translator.APIKey = v
	}
	if v := os.Getenv(translateEndpointEnv); v != "" {
		c.Translator.Endpoint = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}
	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Watch.Folder != "" {
		base.Watch.Folder = override.Watch.Folder
	}
	if override.Watch.SettleDelay > 0 {
		base.Watch.SettleDelay = override.Watch.SettleDelay
	}
	if override.Watch.RescanInterval > 0 {
		base.Watch.RescanInterval = override.Watch.RescanInterval
	}
	if override.Watch.QueueSize > 0 {
		base.Watch.QueueSize = override.Watch.QueueSize
	}

	if override.Archive.Subfolder != "" {
		base.Archive.Subfolder = override.Archive.Subfolder
	}
	if override.Archive.OnFailure != "" {
		base.Archive.OnFailure = strings.ToLower(override.Archive.OnFailure)
	}

	if override.OCR.Command != "" {
		base.OCR.Command = override.OCR.Command
	}
	if override.OCR.Languages != "" {
		base.OCR.Languages = override.OCR.Languages
	}
	if override.OCR.Timeout > 0 {
		base.OCR.Timeout = override.OCR.Timeout
	}

	if override.PDF.RenderDPI > 0 {
		base.PDF.RenderDPI = override.PDF.RenderDPI
	}

	if override.Translator.Provider != "" {
		base.Translator.Provider = strings.ToLower(override.Translator.Provider)
	}
	if override.Translator.TargetLanguage != "" {
		base.Translator.TargetLanguage = override.Translator.TargetLanguage
	}
	if override.Translator.Endpoint != "" {
		base.Translator.Endpoint = override.Translator.Endpoint
	}
	if override.Translator.APIKey != "" {
		base.Translator.APIKey = override.Translator.APIKey
	}
	if override.Translator.Timeout > 0 {
		base.Translator.Timeout = override.Translator.Timeout
	}
	if override.Translator.Retries != nil {
		base.Translator.Retries = override.Translator.Retries
	}
	if override.Translator.RetryDelay > 0 {
		base.Translator.RetryDelay = override.Translator.RetryDelay
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

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	retries := 1
	return Config{
		Watch: WatchConfig{
			SettleDelay:    time.Second,
			RescanInterval: 30 * time.Second,
			QueueSize:      64,
		},
		Archive: ArchiveConfig{Subfolder: "processed", OnFailure: PolicyArchive},
		OCR: OCRConfig{
			Command:   "tesseract",
			Languages: "eng",
			Timeout:   2 * time.Minute,
		},
		PDF: PDFConfig{RenderDPI: 300},
		Translator: TranslatorConfig{
			Provider:       ProviderGoogle,
			TargetLanguage: "en",
			Timeout:        20 * time.Second,
			Retries:        &retries,
			RetryDelay:     2 * time.Second,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a translation engine. Detect the source language and translate faithfully.",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
