package job

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

// Manager owns the River client: it inserts jobs and, once started,
// works them with the registered tasks.
type Manager struct {
	pool     *pgxpool.Pool
	client   *river.Client[pgx.Tx]
	registry *registry
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager builds the client immediately so jobs can be inserted
// before Start.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	periodic, err := periodicJobs(cfg.schedules, cfg.registry)
	if err != nil {
		return nil, err
	}

	queues := map[string]river.QueueConfig{
		river.QueueDefault: {MaxWorkers: cfg.maxWorkers},
	}
	for name, n := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: n}
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{registry: cfg.registry, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodic,
		JobTimeout:   cfg.jobTimeout,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		pool:     pool,
		client:   client,
		registry: cfg.registry,
		logger:   cfg.logger,
	}, nil
}

// Start begins working jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}
	m.started = true
	m.logger.InfoContext(ctx, "job manager started", slog.Any("tasks", m.registry.names()))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}
	m.started = false
	m.logger.InfoContext(ctx, "job manager stopped")
	return nil
}

// Enqueue inserts a job for a registered task and returns its id.
// A job skipped as a duplicate returns the id of the existing one along
// with ErrDuplicate.
func (m *Manager) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) (int64, error) {
	args, insert, err := m.prepare(name, payload, opts...)
	if err != nil {
		return 0, err
	}
	res, err := m.client.Insert(ctx, args, insert)
	if err != nil {
		return 0, fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	return m.inserted(ctx, name, res)
}

// EnqueueTx inserts the job inside tx; it becomes visible on commit.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) (int64, error) {
	args, insert, err := m.prepare(name, payload, opts...)
	if err != nil {
		return 0, err
	}
	res, err := m.client.InsertTx(ctx, tx, args, insert)
	if err != nil {
		return 0, fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	return m.inserted(ctx, name, res)
}

func (m *Manager) prepare(name string, payload any, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts, error) {
	if _, ok := m.registry.lookup(name); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return buildJobArgs(name, payload, opts...)
}

func (m *Manager) inserted(ctx context.Context, name string, res *rivertype.JobInsertResult) (int64, error) {
	if res.UniqueSkippedAsDuplicate {
		m.logger.InfoContext(ctx, "duplicate job skipped",
			slog.String("task", name),
			slog.Int64("job_id", res.Job.ID),
		)
		return res.Job.ID, fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	m.logger.DebugContext(ctx, "job enqueued", slog.String("task", name), slog.Int64("job_id", res.Job.ID))
	return res.Job.ID, nil
}
