package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/cache"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/database"
	"github.com/noah-isme/sma-gradebook/pkg/events"
	"github.com/noah-isme/sma-gradebook/pkg/jobs"
	"github.com/noah-isme/sma-gradebook/pkg/storage"
)

// Options carries the collaborators a Gradebook is assembled from. Config and Store are required;
// a nil Cache disables statistics caching and a nil Exports keeps exports in memory only.
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   service.DocumentStore
	Cache   service.CacheRepository
	Content service.ContentProvider
	Exports *storage.LocalStorage
}

// Gradebook is the wired set of repositories and services shared by the API and the console.
type Gradebook struct {
	Config      *config.Config
	Content     service.ContentProvider
	Roster      *repository.RosterRepository
	Feed        *repository.FeedRepository
	Bus         *events.Bus
	Metrics     *service.MetricsService
	Cache       *service.CacheService
	Students    *service.StudentService
	Grades      *service.GradeService
	Social      *service.SocialService
	Statistics  *service.StatisticsService
	Persistence *service.PersistenceService
	Exports     *service.ExportService
	Reports     *service.ReportService
	Auth        *service.AuthService
	Autosave    *service.AutosaveService

	autosaveQueue *jobs.Queue
}

// New assembles a Gradebook and subscribes the social feed to grade events.
func New(opts Options) (*Gradebook, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("app: document store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	content := opts.Content
	if content == nil {
		content = service.NewRandomContentProvider(cfg.Gradebook.ContentSeed)
	}

	validate := validator.New()
	roster := repository.NewRosterRepository(cfg.Gradebook.StudentIDStart)
	feed := repository.NewFeedRepository()
	state := repository.NewStateLock()
	bus := events.NewBus(logger.Named("events"))
	metrics := service.NewMetricsService()
	weights := service.WeightsFromConfig(cfg.Grading)

	cacheSvc := service.NewCacheService(opts.Cache, metrics, cfg.Statistics.CacheTTL, logger.Named("cache"), cfg.Statistics.CacheEnabled && opts.Cache != nil)

	students := service.NewStudentService(roster, content, logger.Named("students"))
	grades := service.NewGradeService(roster, state, bus, weights, metrics, validate, logger.Named("grades"))
	social := service.NewSocialService(roster, feed, state, content, metrics, logger.Named("social"))
	if err := social.Subscribe(bus); err != nil {
		return nil, fmt.Errorf("subscribe social feed: %w", err)
	}
	statistics := service.NewStatisticsService(roster, feed, state, cacheSvc, metrics, cfg.Gradebook.Semester, cfg.Statistics.CacheTTL, logger.Named("statistics"))

	exports := service.NewExportService(roster, nil, cfg.Gradebook.Semester, logger.Named("exports"))
	if opts.Exports != nil {
		exports = service.NewExportService(roster, opts.Exports, cfg.Gradebook.Semester, logger.Named("exports"))
	}

	persistence := service.NewPersistenceService(opts.Store, roster, feed, state, weights, metrics, logger.Named("persistence"))

	auth := service.NewAuthService(validate, logger.Named("auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		APIKeyHash:        cfg.JWT.APIKeyHash,
	})

	gradebook := &Gradebook{
		Config:      cfg,
		Content:     content,
		Roster:      roster,
		Feed:        feed,
		Bus:         bus,
		Metrics:     metrics,
		Cache:       cacheSvc,
		Students:    students,
		Grades:      grades,
		Social:      social,
		Statistics:  statistics,
		Persistence: persistence,
		Exports:     exports,
		Reports:     service.NewReportService(students, statistics),
		Auth:        auth,
	}

	if cfg.Autosave.Enabled {
		gradebook.autosaveQueue = jobs.NewQueue("autosave", service.AutosaveHandler(persistence, logger.Named("autosave")), jobs.QueueConfig{
			Workers:    1,
			MaxRetries: cfg.Autosave.MaxRetries,
			RetryDelay: cfg.Autosave.RetryDelay,
			Coalesce:   true,
			Logger:     logger.Named("autosave"),
		})
		gradebook.Autosave = service.NewAutosaveService(gradebook.autosaveQueue, logger.Named("autosave"))
	}
	return gradebook, nil
}

// StartBackground starts the autosave worker when enabled. The returned stop waits for it to exit.
func (g *Gradebook) StartBackground(ctx context.Context) (stop func()) {
	if g.autosaveQueue == nil {
		return func() {}
	}
	g.autosaveQueue.Start(ctx)
	return g.autosaveQueue.Stop
}

// Bootstrap opens the configured backends and assembles a Gradebook. The returned
// cleanup closes every connection it opened.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Gradebook, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, closeStore, err := openDocumentStore(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeStore)

	var cacheRepo service.CacheRepository
	if cfg.Statistics.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, statistics cache disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logger.Named("redis"))
			cacheRepo = repo
			closers = append(closers, func() { closeRedis(repo, logger) })
		}
	}

	exportsDir, err := storage.NewLocalStorage(cfg.Storage.ExportsDir)
	if err != nil {
		return nil, cleanup, fmt.Errorf("prepare exports directory: %w", err)
	}

	gradebook, err := New(Options{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Cache:   cacheRepo,
		Exports: exportsDir,
	})
	if err != nil {
		return nil, cleanup, err
	}
	return gradebook, cleanup, nil
}

func openDocumentStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.DocumentStore, func(), error) {
	if cfg.Storage.Backend == config.StorageBackendPostgres {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect postgres: %w", err)
		}
		repo := repository.NewPostgresSnapshotRepository(db)
		ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := repo.EnsureTable(ensureCtx); err != nil {
			_ = db.Close()
			return nil, func() {}, fmt.Errorf("prepare snapshot table: %w", err)
		}
		logger.Info("snapshot backend ready", zap.String("backend", config.StorageBackendPostgres))
		return repo, func() { closeDB(db, logger) }, nil
	}

	local, err := storage.NewLocalStorage(cfg.Storage.DataDir)
	if err != nil {
		return nil, func() {}, fmt.Errorf("prepare data directory: %w", err)
	}
	logger.Info("snapshot backend ready", zap.String("backend", config.StorageBackendFile), zap.String("dir", cfg.Storage.DataDir))
	return repository.NewFileSnapshotRepository(local), func() {}, nil
}

func closeDB(db *sqlx.DB, logger *zap.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("close postgres", zap.Error(err))
	}
}

func closeRedis(repo interface{ Close() error }, logger *zap.Logger) {
	if err := repo.Close(); err != nil && err != redis.ErrClosed {
		logger.Warn("close redis", zap.Error(err))
	}
}
