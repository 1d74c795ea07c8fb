package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarstudio/internal/capture"
	"github.com/abhisek/grammarstudio/internal/chat"
	"github.com/abhisek/grammarstudio/internal/config"
	"github.com/abhisek/grammarstudio/internal/lessons"
	"github.com/abhisek/grammarstudio/internal/llm"
	"github.com/abhisek/grammarstudio/internal/logging"
	"github.com/abhisek/grammarstudio/internal/spelling"
	"github.com/abhisek/grammarstudio/internal/store"
	"github.com/abhisek/grammarstudio/internal/studio"
)

// env is everything a command needs at runtime.
type env struct {
	cfg      config.Config
	log      *logging.Logger
	store    *store.Store
	provider llm.Provider
}

// loadConfig resolves the configuration from flags, files and the
// environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	dbPath, _ := cmd.Flags().GetString("db")
	debug, _ := cmd.Flags().GetBool("debug")

	o := config.Overrides{
		ConfigPath: configPath,
		EnvFile:    envFile,
		DBPath:     dbPath,
		Debug:      debug,
	}
	if f := cmd.Flags().Lookup("addr"); f != nil {
		o.Addr = f.Value.String()
	}
	return config.Load(o)
}

// resolveDBPath returns the configured database path, or the default XDG
// path when none is set.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// setup loads config, opens the log and the audit store and builds the
// LLM provider. A missing provider is not an error; AI features are
// simply unavailable. stderr mirrors logs to the terminal.
func setup(cmd *cobra.Command, stderr bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LoggingOptions(stderr))
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{cfg: cfg, log: log, store: st}
	if !cfg.LLMAvailable {
		log.Warn("no LLM provider configured")
		return e, nil
	}

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, st.EventRepo(), log.With("component", "llm"))
	if err != nil {
		log.Warn("LLM provider unavailable", "error", err)
		return e, nil
	}
	e.provider = provider
	log.Info("LLM provider ready", "provider", cfg.LLM.Provider, "model", provider.ModelID())
	return e, nil
}

// requireProvider fails commands that cannot work without AI.
func (e *env) requireProvider() error {
	if e.provider == nil {
		return fmt.Errorf("no LLM provider configured: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
	}
	return nil
}

// warnNoProvider tells the player that AI features are off.
func (e *env) warnNoProvider() {
	if e.provider == nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured.")
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
	}
}

// newStudio builds a studio wired to the provider. Without a provider
// every AI collaborator stays nil.
func (e *env) newStudio() *studio.Studio {
	d := studio.Deps{Log: e.log.With("component", "studio")}
	if e.provider != nil {
		chatCfg := chat.DefaultConfig()
		chatCfg.Structured = e.cfg.Chat.Structured

		d.Lessons = lessons.NewService(e.provider, lessons.DefaultConfig())
		d.Responder = chat.NewLLMResponder(e.provider, chatCfg)
		d.Checker = spelling.NewLLMChecker(e.provider, spelling.DefaultConfig())
		d.Images = e.provider
	}
	return studio.New(d)
}

// dictation returns the configured dictation capture, or nil.
func (e *env) dictation() capture.Capability {
	d := capture.NewCommandDictation(e.cfg.Capture.DictationCommand)
	if !d.Available() {
		return nil
	}
	return d
}

func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	e.log.Sync()
}
