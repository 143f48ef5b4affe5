package composer

import "github.com/goliatone/go-composer/internal/runtimeconfig"

var (
	ErrMaxHistoryInvalid         = runtimeconfig.ErrMaxHistoryInvalid
	ErrEditorDelayInvalid        = runtimeconfig.ErrEditorDelayInvalid
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown     = runtimeconfig.ErrStorageDialectUnknown
	ErrDraftCacheProviderUnknown = runtimeconfig.ErrDraftCacheProviderUnknown
	ErrDraftCacheRedisAddr       = runtimeconfig.ErrDraftCacheRedisAddr
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	EditorConfig     = runtimeconfig.EditorConfig
	StorageConfig    = runtimeconfig.StorageConfig
	DraftCacheConfig = runtimeconfig.DraftCacheConfig
	CacheConfig      = runtimeconfig.CacheConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	CommandsConfig   = runtimeconfig.CommandsConfig
)

// DefaultConfig returns the in-memory configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
