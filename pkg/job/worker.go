package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

// taskArgs is the single River job kind; the task name selects the handler.
type taskArgs struct {
	Task      string          `json:"task" river:"unique"`
	UniqueKey string          `json:"unique_key,omitempty" river:"unique"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "clipdrop:task" }

type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	registry *registry
	logger   *slog.Logger
}

func (w *taskWorker) Work(ctx context.Context, j *river.Job[taskArgs]) error {
	e, ok := w.registry.lookup(j.Args.Task)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, j.Args.Task)
	}

	log := w.logger.With(
		slog.String("task", j.Args.Task),
		slog.Int64("job_id", j.ID),
		slog.Int("attempt", j.Attempt),
	)
	log.DebugContext(ctx, "task started")

	start := time.Now()
	if err := e.execute(ctx, j.Args.Payload); err != nil {
		log.ErrorContext(ctx, "task failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return err
	}

	log.InfoContext(ctx, "task completed", slog.Duration("duration", time.Since(start)))
	return nil
}
