package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-composer/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Editor.MaxHistory != 50 || cfg.Editor.CheckpointDelay != 500*time.Millisecond {
		t.Fatalf("unexpected editor defaults %+v", cfg.Editor)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "max history",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Editor.MaxHistory = 0 },
			want:   runtimeconfig.ErrMaxHistoryInvalid,
		},
		{
			name:   "checkpoint delay",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Editor.CheckpointDelay = 0 },
			want:   runtimeconfig.ErrEditorDelayInvalid,
		},
		{
			name:   "storage provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "mongo" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name: "storage dialect",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = "bun"
				cfg.Storage.Dialect = "mysql"
			},
			want: runtimeconfig.ErrStorageDialectUnknown,
		},
		{
			name: "redis address",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.DraftCache.Provider = "redis"
				cfg.DraftCache.RedisAddr = " "
			},
			want: runtimeconfig.ErrDraftCacheRedisAddr,
		},
		{
			name:   "bun drafts without bun storage",
			mutate: func(cfg *runtimeconfig.Config) { cfg.DraftCache.Provider = "bun" },
			want:   runtimeconfig.ErrBunDraftCacheRequiresBun,
		},
		{
			name:   "unknown draft cache",
			mutate: func(cfg *runtimeconfig.Config) { cfg.DraftCache.Provider = "memcached" },
			want:   runtimeconfig.ErrDraftCacheProviderUnknown,
		},
		{
			name:   "template cache without bun",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Cache.Enabled = true },
			want:   runtimeconfig.ErrTemplateCacheRequiresBun,
		},
		{
			name:   "logging provider required",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "" },
			want:   runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name:   "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "logging level",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Level = "loud" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "logging format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
		{
			name:   "command timeout",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Commands.Timeout = -time.Second },
			want:   runtimeconfig.ErrCommandsTimeoutInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsBunStack(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.Dialect = "postgres"
	cfg.DraftCache.Provider = "bun"
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}
