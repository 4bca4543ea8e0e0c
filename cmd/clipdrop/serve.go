package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/dmitrymomot/clipdrop/handlers"
	"github.com/dmitrymomot/clipdrop/internal"
	"github.com/dmitrymomot/clipdrop/middlewares"
	"github.com/dmitrymomot/clipdrop/pkg/browser"
	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
	"github.com/dmitrymomot/clipdrop/pkg/db"
	"github.com/dmitrymomot/clipdrop/pkg/job"
	"github.com/dmitrymomot/clipdrop/pkg/lock"
	"github.com/dmitrymomot/clipdrop/pkg/logger"
	"github.com/dmitrymomot/clipdrop/pkg/publisher"
	"github.com/dmitrymomot/clipdrop/pkg/redis"
	"github.com/dmitrymomot/clipdrop/pkg/storage"
	"github.com/dmitrymomot/clipdrop/uploads"
)

const lockPrefix = "clipdrop:lock"

func serve(*cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log,
		middlewares.RequestIDExtractor(),
		logger.ContextValue(uploads.IDContextKey, "upload_id"),
	).With(slog.String("region", cfg.Region))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app, runOpts, err := build(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("startup failed", slog.Any("error", err))
		for _, fn := range runOpts.cleanup {
			_ = fn(context.Background())
		}
		return err
	}

	log.Info("TikTok uploader starting", slog.String("port", cfg.Port), slog.String("version", version))
	return app.Run(cfg.address(), runOpts.options(cfg, log)...)
}

// runPlan collects what build opened, so it can be closed on shutdown or
// after a failed start.
type runPlan struct {
	startup []func(context.Context) error
	cleanup []func(context.Context) error
}

func (p runPlan) options(cfg appConfig, log *slog.Logger) []internal.RunOption {
	opts := []internal.RunOption{
		internal.Logger(log),
		internal.ShutdownTimeout(cfg.ShutdownTimeout),
	}
	for _, fn := range p.startup {
		opts = append(opts, internal.StartupHook(fn))
	}
	for _, fn := range p.cleanup {
		opts = append(opts, internal.ShutdownHook(fn))
	}
	return append(opts, internal.ShutdownHook(logger.Flush()))
}

// build connects the optional backends and assembles the HTTP app.
// Redis replaces the in-process upload lock; Postgres enables history,
// the job queue and async uploads.
func build(ctx context.Context, cfg appConfig, log *slog.Logger) (*internal.App, runPlan, error) {
	var plan runPlan
	checks := []internal.HealthOption{
		internal.WithReadinessCheck("browser", browser.Healthcheck(cfg.Browser)),
	}

	var locker lock.Locker = lock.NewMemory()
	if cfg.Redis.URL != "" {
		client, err := redis.Open(ctx, cfg.Redis.URL, redis.WithPoolSize(cfg.Redis.PoolSize))
		if err != nil {
			return nil, plan, fmt.Errorf("redis: %w", err)
		}
		plan.cleanup = append(plan.cleanup, redis.Shutdown(client))
		checks = append(checks, internal.WithReadinessCheck("redis", redis.Healthcheck(client)))
		locker = lock.NewRedis(client, lock.WithPrefix(lockPrefix))
		log.Info("upload lock backed by redis")
	}

	fetcherOpts := []storage.Option{storage.WithLogger(log)}
	if cfg.Storage.S3.Enabled() {
		src, err := storage.NewS3Source(cfg.Storage.S3)
		if err != nil {
			return nil, plan, fmt.Errorf("s3: %w", err)
		}
		fetcherOpts = append(fetcherOpts, storage.WithS3(src))
	}
	fetcher := storage.NewFetcher(cfg.Storage, fetcherOpts...)

	script, err := publisher.Load(afero.NewOsFs(), cfg.Publisher)
	if err != nil {
		return nil, plan, err
	}
	pub, err := publisher.New(script, publisher.WithLogger(log))
	if err != nil {
		return nil, plan, err
	}
	launcher := uploads.Chrome(browser.NewLauncher(cfg.Browser, browser.WithLogger(log)))

	svcOpts := []uploads.Option{
		uploads.WithLogger(log),
		uploads.WithLocker(locker),
	}

	var (
		svc     *uploads.Service
		workers []internal.Option
	)
	if cfg.DB.Enabled() {
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, plan, err
		}
		plan.cleanup = append(plan.cleanup, db.Shutdown(pool))
		checks = append(checks, internal.WithReadinessCheck("db", db.Healthcheck(pool)))

		if err := db.Migrate(ctx, pool, uploads.Migrations, cfg.DB.MigrationsTable, log); err != nil {
			return nil, plan, err
		}
		if err := job.Migrate(ctx, pool, log); err != nil {
			return nil, plan, err
		}

		base := uploads.NewService(cfg.Uploads, cfg.Cookies, fetcher, launcher, pub,
			append(svcOpts, uploads.WithHistory(uploads.NewPostgresHistory(pool)))...)
		mgr, err := job.NewManager(pool,
			job.WithTask[uploads.PublishPayload](uploads.NewPublishTask(base)),
			job.WithScheduledTask(uploads.NewPurgeTask(base)),
			job.WithQueue(uploads.QueueName, cfg.Uploads.MaxConcurrent),
			job.WithMaxWorkers(1),
			job.WithJobTimeout(cfg.uploadTimeout()),
			job.WithLogger(log),
		)
		if err != nil {
			return nil, plan, err
		}
		svc = base.Queued(mgr)
		checks = append(checks, internal.WithReadinessCheck("jobs", job.Healthcheck(mgr)))
		workers = append(workers, internal.WithWorker(mgr))
		log.Info("upload history and queue enabled")
	} else {
		svc = uploads.NewService(cfg.Uploads, cfg.Cookies, fetcher, launcher, pub, svcOpts...)
		// Without the scheduled purge, stale temp files are swept once at start.
		plan.startup = append(plan.startup, sweepOnStart(svc, log))
	}

	if cfg.VerifyCookies {
		plan.startup = append(plan.startup, verifyCookies(cfg.Cookies, log))
	}

	opts := []internal.Option{
		internal.WithLogger(log),
		internal.WithErrorHandler(middlewares.ErrorHandler()),
		internal.WithMiddleware(
			middlewares.RequestID(),
			middlewares.AccessLog(middlewares.WithAccessLogSkip("/health/live", "/health/ready")),
			middlewares.Recover(),
			middlewares.Timeout(cfg.RequestTimeout, middlewares.WithTimeoutSkip("/upload")),
		),
		internal.WithHealthChecks(checks...),
		internal.WithHandlers(
			handlers.NewBanner(),
			handlers.NewUploads(svc),
		),
	}
	return internal.New(append(opts, workers...)...), plan, nil
}

// verifyCookies decrypts the bundle once so a wrong password or a damaged
// bundle stops the process before it accepts uploads.
func verifyCookies(cfg cookievault.Config, log *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		cookies, err := cookievault.Decrypt(cfg, cookievault.WithLogger(log))
		if err != nil {
			return fmt.Errorf("cookie bundle: %w", err)
		}
		clearValues(cookies)
		log.InfoContext(ctx, "cookie bundle verified", slog.Int("cookies", len(cookies)))
		return nil
	}
}

func sweepOnStart(svc *uploads.Service, log *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := svc.Purge(ctx); err != nil {
			log.WarnContext(ctx, "temp sweep failed", slog.Any("error", err))
		}
		return nil
	}
}
