package di

import (
	"testing"

	"github.com/goliatone/go-composer/internal/logging/gologger"
	"github.com/goliatone/go-composer/internal/runtimeconfig"
)

func TestLoggerProviderFollowsConfig(t *testing.T) {
	cases := []struct {
		name     string
		provider string
		format   string
		check    func(t *testing.T, c *Container)
	}{
		{
			name:     "go-logger json",
			provider: "gologger",
			format:   "json",
			check: func(t *testing.T, c *Container) {
				if _, ok := c.loggerProvider.(*gologger.Provider); !ok {
					t.Fatalf("expected go-logger provider, got %T", c.loggerProvider)
				}
			},
		},
		{
			name:     "console default",
			provider: "console",
			format:   "console",
			check: func(t *testing.T, c *Container) {
				if _, ok := c.loggerProvider.(*gologger.Provider); ok {
					t.Fatalf("expected console provider, got go-logger")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			cfg.Logging.Provider = tc.provider
			cfg.Logging.Format = tc.format
			cfg.Logging.Level = "debug"

			container, err := NewContainer(cfg)
			if err != nil {
				t.Fatalf("NewContainer: %v", err)
			}
			t.Cleanup(func() { _ = container.Close() })

			tc.check(t, container)
			if container.LoggerProvider().GetLogger("composer.editor") == nil {
				t.Fatalf("expected a logger for the editor module")
			}
		})
	}
}
