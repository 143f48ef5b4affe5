package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/draftcache"
	"github.com/goliatone/go-composer/internal/editor"
	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/internal/logging/console"
	"github.com/goliatone/go-composer/internal/logging/gologger"
	"github.com/goliatone/go-composer/internal/markdown"
	"github.com/goliatone/go-composer/internal/pages"
	"github.com/goliatone/go-composer/internal/runtimeconfig"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

const defaultSQLiteDSN = "file:composer?mode=memory&cache=shared"

// ErrDatabaseRequired is returned when bun storage targets postgres without an
// injected database handle.
var ErrDatabaseRequired = errors.New("di: postgres storage requires WithBunDB or WithSQLDB")

// Container wires the composer collaborators from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	clock          editor.Clock

	sqlDB       *sql.DB
	bunDB       *bun.DB
	ownsDB      bool
	redisClient redis.UniversalClient
	ownsRedis   bool

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	pageStore    interfaces.PageStore
	draftCache   interfaces.DraftCache
	catalog      interfaces.TemplateCatalog
	registry     *blocks.Registry
	templateRepo *blocks.BunTemplateRepository
	notifier     interfaces.Notifier
	importer     *markdown.Importer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB injects the bun database used by bun storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB injects a database handle wrapped with the configured dialect.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithCache overrides the repository cache used in front of the template catalog.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithRedisClient injects the client used by the redis draft cache.
func WithRedisClient(client redis.UniversalClient) Option {
	return func(c *Container) {
		c.redisClient = client
	}
}

// WithClock sets the clock handed to edit sessions.
func WithClock(clock editor.Clock) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithNotifier overrides the logging notifier used for manual saves.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithPageStore bypasses the configured storage provider.
func WithPageStore(store interfaces.PageStore) Option {
	return func(c *Container) {
		c.pageStore = store
	}
}

// WithDraftCache bypasses the configured draft cache provider.
func WithDraftCache(cache interfaces.DraftCache) Option {
	return func(c *Container) {
		c.draftCache = cache
	}
}

// WithTemplateCatalog bypasses the configured template catalog.
func WithTemplateCatalog(catalog interfaces.TemplateCatalog) Option {
	return func(c *Container) {
		c.catalog = catalog
	}
}

// NewContainer validates cfg and builds every collaborator it selects.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	ctx := context.Background()
	steps := []func(context.Context) error{
		c.configureLoggerProvider,
		c.configureDatabase,
		c.configureCacheDefaults,
		c.configureCatalog,
		c.configurePageStore,
		c.configureDraftCache,
		c.configureImporter,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	logging.ModuleLogger(c.loggerProvider, "composer.container").Info("container.configured",
		"storage", normalize(cfg.Storage.Provider),
		"draft_cache", draftProvider(cfg),
		"template_cache", c.cacheService != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider(context.Context) error {
	if c.loggerProvider != nil {
		return nil
	}
	switch normalize(c.Config.Logging.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureDatabase(context.Context) error {
	if normalize(c.Config.Storage.Provider) != "bun" || c.bunDB != nil {
		return nil
	}
	if c.sqlDB == nil {
		if normalize(c.Config.Storage.Dialect) != "sqlite" {
			return ErrDatabaseRequired
		}
		dsn := strings.TrimSpace(c.Config.Storage.DSN)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("di: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		c.sqlDB = sqlDB
		c.ownsDB = true
	}
	c.bunDB = bun.NewDB(c.sqlDB, dialectFor(c.Config.Storage.Dialect))
	return nil
}

func dialectFor(name string) schema.Dialect {
	if normalize(name) == "postgres" {
		return pgdialect.New()
	}
	return sqlitedialect.New()
}

func (c *Container) configureCacheDefaults(context.Context) error {
	if !c.Config.Cache.Enabled {
		return nil
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: template cache: %w", err)
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureCatalog(ctx context.Context) error {
	if c.catalog != nil {
		return nil
	}
	if c.bunDB == nil {
		c.registry = blocks.NewRegistry()
		c.catalog = c.registry
		return nil
	}

	if _, err := c.bunDB.NewCreateTable().Model((*blocks.TemplateModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("di: create template table: %w", err)
	}
	if c.cacheService != nil {
		c.templateRepo = blocks.NewBunTemplateRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.templateRepo = blocks.NewBunTemplateRepository(c.bunDB)
	}
	c.catalog = c.templateRepo
	return nil
}

func (c *Container) configurePageStore(ctx context.Context) error {
	if c.pageStore != nil {
		return nil
	}
	if c.bunDB == nil {
		c.pageStore = pages.NewMemoryStore(pages.WithTemplateCatalog(c.catalog))
		return nil
	}
	store := pages.NewBunStore(c.bunDB, pages.WithTemplateCatalog(c.catalog))
	if err := store.CreateTables(ctx); err != nil {
		return fmt.Errorf("di: create page tables: %w", err)
	}
	c.pageStore = store
	return nil
}

func (c *Container) configureDraftCache(ctx context.Context) error {
	if c.draftCache != nil {
		return nil
	}
	cfg := c.Config.DraftCache
	switch draftProvider(c.Config) {
	case "memory":
		c.draftCache = draftcache.NewMemoryCache()
	case "redis":
		if c.redisClient == nil {
			client, err := draftcache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			if err != nil {
				return err
			}
			c.redisClient = client
			c.ownsRedis = true
		}
		c.draftCache = draftcache.NewRedisCache(c.redisClient, cfg.KeyPrefix, cfg.TTL)
	case "bun":
		cache := draftcache.NewBunCache(c.bunDB)
		if err := cache.CreateTable(ctx); err != nil {
			return fmt.Errorf("di: create draft table: %w", err)
		}
		c.draftCache = cache
	}
	return nil
}

func (c *Container) configureImporter(context.Context) error {
	renderer := markdown.NewGoldmarkParser(markdown.ParseOptions{SafeMode: c.Config.Markdown.SafeMode})
	c.importer = markdown.NewImporter(c.catalog,
		markdown.WithRenderer(renderer),
		markdown.WithLogger(logging.ImportLogger(c.loggerProvider)),
	)
	if c.notifier == nil {
		c.notifier = loggingNotifier{logger: logging.EditorLogger(c.loggerProvider)}
	}
	return nil
}

// SessionOptions returns the editor options derived from the configuration
// and the wired collaborators.
func (c *Container) SessionOptions() []editor.Option {
	cfg := c.Config.Editor
	opts := []editor.Option{
		editor.WithLogger(logging.EditorLogger(c.loggerProvider)),
		editor.WithPageStore(c.pageStore),
		editor.WithTemplateCatalog(c.catalog),
		editor.WithNotifier(c.notifier),
		editor.WithMaxHistory(cfg.MaxHistory),
		editor.WithCheckpointDelay(cfg.CheckpointDelay),
		editor.WithAutosave(cfg.AutosaveEnabled, cfg.AutosaveDelay),
		editor.WithSavedResetDelay(cfg.SavedResetDelay),
	}
	if c.draftCache != nil {
		opts = append(opts, editor.WithDraftCache(c.draftCache))
	}
	if c.clock != nil {
		opts = append(opts, editor.WithClock(c.clock))
	}
	return opts
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) PageStore() interfaces.PageStore { return c.pageStore }

func (c *Container) DraftCache() interfaces.DraftCache { return c.draftCache }

func (c *Container) TemplateCatalog() interfaces.TemplateCatalog { return c.catalog }

// Registry returns the in-memory template registry, nil with bun storage or
// an injected catalog.
func (c *Container) Registry() *blocks.Registry { return c.registry }

// TemplateRepository returns the bun template repository, nil without bun storage.
func (c *Container) TemplateRepository() *blocks.BunTemplateRepository { return c.templateRepo }

func (c *Container) Importer() *markdown.Importer { return c.importer }

func (c *Container) BunDB() *bun.DB { return c.bunDB }

// Close releases the connections the container opened itself.
func (c *Container) Close() error {
	var errs []error
	if c.ownsRedis && c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
		c.redisClient = nil
	}
	if c.ownsDB && c.sqlDB != nil {
		errs = append(errs, c.sqlDB.Close())
		c.sqlDB = nil
	}
	return errors.Join(errs...)
}

func draftProvider(cfg runtimeconfig.Config) string {
	provider := normalize(cfg.DraftCache.Provider)
	if provider == "" {
		return "none"
	}
	return provider
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// loggingNotifier reports manual save outcomes to the editor log.
type loggingNotifier struct {
	logger interfaces.Logger
}

func (n loggingNotifier) Success(_ context.Context, message string) {
	n.logger.Info("editor.notify.success", "message", message)
}

func (n loggingNotifier) Failure(_ context.Context, message string, err error) {
	n.logger.Error("editor.notify.failure", "message", message, "error", err)
}
