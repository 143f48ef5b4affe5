package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMaxHistoryInvalid         = errors.New("composer config: editor max history must be positive")
	ErrEditorDelayInvalid        = errors.New("composer config: editor delays must be positive")
	ErrStorageProviderUnknown    = errors.New("composer config: storage provider is invalid")
	ErrStorageDialectUnknown     = errors.New("composer config: storage dialect is invalid")
	ErrDraftCacheProviderUnknown = errors.New("composer config: draft cache provider is invalid")
	ErrDraftCacheRedisAddr       = errors.New("composer config: redis address is required for the redis draft cache")
	ErrDraftCacheTTLInvalid      = errors.New("composer config: draft cache ttl must be zero or positive")
	ErrBunDraftCacheRequiresBun  = errors.New("composer config: bun draft cache requires bun storage")
	ErrTemplateCacheRequiresBun  = errors.New("composer config: template cache requires bun storage")
	ErrLoggingProviderRequired   = errors.New("composer config: logging provider is required")
	ErrLoggingProviderUnknown    = errors.New("composer config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("composer config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("composer config: logging format is invalid")
	ErrCommandsTimeoutInvalid    = errors.New("composer config: command timeout must be zero or positive")
)

// Config aggregates editor tuning and adapter bindings for the composer module.
type Config struct {
	Editor     EditorConfig
	Storage    StorageConfig
	DraftCache DraftCacheConfig
	Cache      CacheConfig
	Markdown   MarkdownConfig
	Logging    LoggingConfig
	Commands   CommandsConfig
}

// EditorConfig tunes edit sessions.
type EditorConfig struct {
	MaxHistory      int
	CheckpointDelay time.Duration
	AutosaveEnabled bool
	AutosaveDelay   time.Duration
	SavedResetDelay time.Duration
}

// StorageConfig selects the page store. Provider is "memory" or "bun";
// Dialect ("sqlite" or "postgres") and DSN apply to bun.
type StorageConfig struct {
	Provider string
	Dialect  string
	DSN      string
}

// DraftCacheConfig selects the durable draft cache: "none", "memory", "redis"
// or "bun".
type DraftCacheConfig struct {
	Provider      string
	TTL           time.Duration
	KeyPrefix     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// CacheConfig toggles the repository cache in front of the template catalog.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// MarkdownConfig configures seed rendering and discovery.
type MarkdownConfig struct {
	SeedDir   string
	Pattern   string
	Recursive bool
	SafeMode  bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
}

// CommandsConfig configures command handlers.
type CommandsConfig struct {
	Timeout time.Duration
}

// DefaultConfig returns the in-memory defaults.
func DefaultConfig() Config {
	return Config{
		Editor: EditorConfig{
			MaxHistory:      50,
			CheckpointDelay: 500 * time.Millisecond,
			AutosaveEnabled: false,
			AutosaveDelay:   3 * time.Second,
			SavedResetDelay: 2 * time.Second,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
		},
		DraftCache: DraftCacheConfig{
			Provider:  "memory",
			TTL:       7 * 24 * time.Hour,
			KeyPrefix: "composer:draft:",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			SeedDir: "seeds",
			Pattern: "*.md",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Editor.MaxHistory <= 0 {
		return ErrMaxHistoryInvalid
	}
	if cfg.Editor.CheckpointDelay <= 0 || cfg.Editor.AutosaveDelay <= 0 || cfg.Editor.SavedResetDelay <= 0 {
		return ErrEditorDelayInvalid
	}

	storage := normalize(cfg.Storage.Provider)
	switch storage {
	case "memory":
	case "bun":
		if dialect := normalize(cfg.Storage.Dialect); dialect != "sqlite" && dialect != "postgres" {
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	switch normalize(cfg.DraftCache.Provider) {
	case "", "none", "memory":
	case "redis":
		if strings.TrimSpace(cfg.DraftCache.RedisAddr) == "" {
			return ErrDraftCacheRedisAddr
		}
	case "bun":
		if storage != "bun" {
			return ErrBunDraftCacheRequiresBun
		}
	default:
		return fmt.Errorf("%w: %s", ErrDraftCacheProviderUnknown, cfg.DraftCache.Provider)
	}
	if cfg.DraftCache.TTL < 0 {
		return ErrDraftCacheTTLInvalid
	}
	if cfg.Cache.Enabled && storage != "bun" {
		return ErrTemplateCacheRequiresBun
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandsTimeoutInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
