package job

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
)

// Task is the shape accepted by WithTask. Implementations never import
// this package; the constraint is satisfied structurally.
type Task[P any] interface {
	Name() string
	Handle(ctx context.Context, payload P) error
}

// ScheduledTask is the shape accepted by WithScheduledTask.
// Schedule returns a five-field cron expression.
type ScheduledTask interface {
	Name() string
	Schedule() string
	Handle(ctx context.Context) error
}

// executor runs a task with its payload still encoded.
type executor interface {
	execute(ctx context.Context, payload json.RawMessage) error
}

type registry struct {
	mu    sync.RWMutex
	tasks map[string]executor
}

func newRegistry() *registry {
	return &registry{tasks: make(map[string]executor)}
}

func (r *registry) add(name string, e executor) {
	r.mu.Lock()
	r.tasks[name] = e
	r.mu.Unlock()
}

func (r *registry) lookup(name string) (executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tasks[name]
	return e, ok
}

// names returns registered task names in sorted order.
func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Collect(maps.Keys(r.tasks))
	sort.Strings(names)
	return names
}

// typedTask decodes the payload into P before calling the task.
type typedTask[P any, T Task[P]] struct {
	task T
}

func (t typedTask[P, T]) execute(ctx context.Context, raw json.RawMessage) error {
	var payload P
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errors.Join(ErrInvalidPayload, err)
		}
	}
	return t.task.Handle(ctx, payload)
}

// periodicTask ignores the payload; periodic jobs carry none.
type periodicTask func(ctx context.Context) error

func (f periodicTask) execute(ctx context.Context, _ json.RawMessage) error {
	return f(ctx)
}
