package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset keys leave
// the defaults alone.
type FileConfig struct {
	DB      *string     `toml:"db"`
	LLM     LLMFile     `toml:"llm"`
	Chat    ChatFile    `toml:"chat"`
	Server  ServerFile  `toml:"server"`
	Log     LogFile     `toml:"log"`
	Capture CaptureFile `toml:"capture"`
}

// LLMFile maps the [llm] table.
type LLMFile struct {
	Provider          *string `toml:"provider"`
	GeminiModel       *string `toml:"gemini-model"`
	GeminiImageModel  *string `toml:"gemini-image-model"`
	AnthropicModel    *string `toml:"anthropic-model"`
	OpenAIModel       *string `toml:"openai-model"`
	OpenAIBaseURL     *string `toml:"openai-base-url"`
	OpenRouterModel   *string `toml:"openrouter-model"`
	Timeout           *string `toml:"timeout"`
	RequestsPerMinute *int    `toml:"requests-per-minute"`
	RetryAttempts     *int    `toml:"retry-attempts"`
}

// ChatFile maps the [chat] table.
type ChatFile struct {
	Structured *bool `toml:"structured"`
}

// ServerFile maps the [server] table.
type ServerFile struct {
	Addr           *string  `toml:"addr"`
	AllowedOrigins []string `toml:"allowed-origins"`
	RateLimit      *int     `toml:"rate-limit"`
	Burst          *int     `toml:"burst"`
}

// LogFile maps the [log] table.
type LogFile struct {
	File       *string `toml:"file"`
	MaxSizeMB  *int    `toml:"max-size-mb"`
	MaxBackups *int    `toml:"max-backups"`
	MaxAgeDays *int    `toml:"max-age-days"`
	Debug      *bool   `toml:"debug"`
}

// CaptureFile maps the [capture] table.
type CaptureFile struct {
	DictationCommand *string `toml:"dictation-command"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return fc, nil
}

// Apply copies every set value onto cfg.
func (f FileConfig) Apply(cfg *Config) error {
	setString(&cfg.DBPath, f.DB)

	setString(&cfg.LLM.Provider, f.LLM.Provider)
	setString(&cfg.LLM.Gemini.Model, f.LLM.GeminiModel)
	setString(&cfg.LLM.Gemini.ImageModel, f.LLM.GeminiImageModel)
	setString(&cfg.LLM.Anthropic.Model, f.LLM.AnthropicModel)
	setString(&cfg.LLM.OpenAI.Model, f.LLM.OpenAIModel)
	setString(&cfg.LLM.OpenAI.BaseURL, f.LLM.OpenAIBaseURL)
	setString(&cfg.LLM.OpenRouter.Model, f.LLM.OpenRouterModel)
	if f.LLM.Timeout != nil {
		d, err := time.ParseDuration(*f.LLM.Timeout)
		if err != nil {
			return fmt.Errorf("llm.timeout: %w", err)
		}
		cfg.LLM.Timeout = d
	}
	setInt(&cfg.LLM.RequestsPerMinute, f.LLM.RequestsPerMinute)
	setInt(&cfg.LLM.Retry.MaxAttempts, f.LLM.RetryAttempts)

	if f.Chat.Structured != nil {
		cfg.Chat.Structured = *f.Chat.Structured
	}

	setString(&cfg.Server.Addr, f.Server.Addr)
	if f.Server.AllowedOrigins != nil {
		cfg.Server.AllowedOrigins = f.Server.AllowedOrigins
	}
	setInt(&cfg.Server.RateLimit, f.Server.RateLimit)
	setInt(&cfg.Server.Burst, f.Server.Burst)

	setString(&cfg.Log.File, f.Log.File)
	setInt(&cfg.Log.MaxSizeMB, f.Log.MaxSizeMB)
	setInt(&cfg.Log.MaxBackups, f.Log.MaxBackups)
	setInt(&cfg.Log.MaxAgeDays, f.Log.MaxAgeDays)
	if f.Log.Debug != nil {
		cfg.Log.Debug = *f.Log.Debug
	}

	setString(&cfg.Capture.DictationCommand, f.Capture.DictationCommand)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
