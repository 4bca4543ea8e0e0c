package job

import (
	"log/slog"
	"time"
)

const (
	defaultMaxWorkers = 2
	defaultJobTimeout = 15 * time.Minute
)

type config struct {
	registry   *registry
	logger     *slog.Logger
	queues     map[string]int
	schedules  []schedule
	maxWorkers int
	jobTimeout time.Duration
}

func newConfig() *config {
	return &config{
		registry:   newRegistry(),
		queues:     make(map[string]int),
		maxWorkers: defaultMaxWorkers,
		jobTimeout: defaultJobTimeout,
	}
}

// Option configures the Manager.
type Option func(*config)

// WithTask registers a task under its Name. P is the payload type Handle
// decodes into:
//
//	type PublishVideo struct{ svc *uploads.Service }
//
//	func (t *PublishVideo) Name() string { return "publish_video" }
//	func (t *PublishVideo) Handle(ctx context.Context, p PublishPayload) error { ... }
//
//	job.WithTask[PublishPayload](&PublishVideo{svc: svc})
func WithTask[P any, T Task[P]](task T) Option {
	return func(c *config) {
		c.registry.add(task.Name(), typedTask[P, T]{task: task})
	}
}

// WithScheduledTask registers a periodic task driven by its cron Schedule.
func WithScheduledTask(task ScheduledTask) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, schedule{
			name: task.Name(),
			expr: task.Schedule(),
			run:  task.Handle,
		})
	}
}

// WithQueue adds a named queue with its own worker count.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if name != "" && workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithMaxWorkers sets the worker count of the default queue.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithJobTimeout bounds a single job run. Browser uploads take minutes,
// so the default is far above River's own.
func WithJobTimeout(d time.Duration) Option {
	return func(c *config) {
		if d != 0 {
			c.jobTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
