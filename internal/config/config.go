// Package config assembles the runtime configuration from defaults, the
// TOML file, a .env file, the environment and command-line flags, in
// that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/grammarstudio/internal/llm"
	"github.com/abhisek/grammarstudio/internal/logging"
)

// Config is the complete runtime configuration.
type Config struct {
	DBPath  string
	LLM     llm.Config
	Chat    ChatConfig
	Server  ServerConfig
	Log     LogConfig
	Capture CaptureConfig

	// LLMAvailable is set when the selected provider has credentials.
	LLMAvailable bool
}

// ChatConfig holds chat settings.
type ChatConfig struct {
	Structured bool
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string

	// RateLimit is the number of AI requests a session may make per
	// minute. 0 disables the limit.
	RateLimit int
	Burst     int
}

// LogConfig holds log sink settings.
type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

// CaptureConfig holds input capture settings.
type CaptureConfig struct {
	DictationCommand string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:  llm.DefaultConfig(),
		Chat: ChatConfig{Structured: true},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:      20,
			Burst:          5,
		},
		Log: LogConfig{
			File:       DefaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoggingOptions converts the log settings for logging.New.
func (c Config) LoggingOptions(stderr bool) logging.Options {
	return logging.Options{
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Debug:      c.Log.Debug,
		Stderr:     stderr,
	}
}

// Overrides are command-line values. Empty fields are ignored.
type Overrides struct {
	ConfigPath string
	EnvFile    string
	DBPath     string
	Addr       string
	Debug      bool
}

// Load builds the configuration.
func Load(o Overrides) (Config, error) {
	cfg := Default()

	path := o.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	}
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := fc.Apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := LoadDotEnv(envFile); err != nil {
		return Config{}, err
	}

	ApplyEnv(&cfg)

	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
	if o.Debug {
		cfg.Log.Debug = true
	}

	cfg.LLM, cfg.LLMAvailable = llm.Discover(cfg.LLM)
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment
// without overriding variables that are already set. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with GRAMMARSTUDIO_* environment variables.
func ApplyEnv(cfg *Config) {
	cfg.LLM = llm.ApplyEnv(cfg.LLM)

	if v := os.Getenv("GRAMMARSTUDIO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GRAMMARSTUDIO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GRAMMARSTUDIO_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("GRAMMARSTUDIO_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("GRAMMARSTUDIO_CHAT_STRUCTURED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Chat.Structured = b
		}
	}
	if v := os.Getenv("GRAMMARSTUDIO_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("GRAMMARSTUDIO_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = b
		}
	}
	if v := os.Getenv("GRAMMARSTUDIO_DICTATION_CMD"); v != "" {
		cfg.Capture.DictationCommand = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
