package job

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetPayload struct {
	Name  string `json:"name"`
	Times int    `json:"times"`
}

type greetTask struct {
	got   greetPayload
	calls int
	err   error
}

func (t *greetTask) Name() string { return "greet" }

func (t *greetTask) Handle(_ context.Context, p greetPayload) error {
	t.calls++
	t.got = p
	return t.err
}

type sweepTask struct {
	expr  string
	calls int
}

func (t *sweepTask) Name() string     { return "sweep" }
func (t *sweepTask) Schedule() string { return t.expr }
func (t *sweepTask) Handle(context.Context) error {
	t.calls++
	return nil
}

func TestTypedTask(t *testing.T) {
	t.Parallel()

	t.Run("decodes payload", func(t *testing.T) {
		t.Parallel()
		task := &greetTask{}
		e := typedTask[greetPayload, *greetTask]{task: task}

		require.NoError(t, e.execute(context.Background(), json.RawMessage(`{"name":"ann","times":2}`)))
		assert.Equal(t, greetPayload{Name: "ann", Times: 2}, task.got)
		assert.Equal(t, 1, task.calls)
	})

	t.Run("empty and null payloads give zero value", func(t *testing.T) {
		t.Parallel()
		task := &greetTask{}
		e := typedTask[greetPayload, *greetTask]{task: task}

		require.NoError(t, e.execute(context.Background(), nil))
		require.NoError(t, e.execute(context.Background(), json.RawMessage("null")))
		assert.Equal(t, greetPayload{}, task.got)
		assert.Equal(t, 2, task.calls)
	})

	t.Run("invalid payload", func(t *testing.T) {
		t.Parallel()
		task := &greetTask{}
		e := typedTask[greetPayload, *greetTask]{task: task}

		err := e.execute(context.Background(), json.RawMessage(`{"name":1}`))
		require.ErrorIs(t, err, ErrInvalidPayload)
		assert.Zero(t, task.calls)
	})

	t.Run("handler error passes through", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		e := typedTask[greetPayload, *greetTask]{task: &greetTask{err: boom}}

		require.ErrorIs(t, e.execute(context.Background(), nil), boom)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	WithTask[greetPayload](&greetTask{})(cfg)
	WithScheduledTask(&sweepTask{expr: "0 3 * * *"})(cfg)
	WithQueue("uploads", 3)(cfg)
	WithQueue("ignored", 0)(cfg)
	WithMaxWorkers(0)(cfg)
	WithJobTimeout(-1)(cfg)
	WithLogger(nil)(cfg)

	assert.Equal(t, []string{"greet"}, cfg.registry.names())
	require.Len(t, cfg.schedules, 1)
	assert.Equal(t, "sweep", cfg.schedules[0].name)
	assert.Equal(t, map[string]int{"uploads": 3}, cfg.queues)
	assert.Equal(t, defaultMaxWorkers, cfg.maxWorkers)
	assert.Equal(t, time.Duration(-1), cfg.jobTimeout)
	assert.Nil(t, cfg.logger)
}

func TestParseCronSchedule(t *testing.T) {
	t.Parallel()

	s, err := parseCronSchedule("0 3 * * *")
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	next := s.Next(base)
	assert.Equal(t, time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC), next)
	assert.Equal(t, time.Date(2024, 5, 3, 3, 0, 0, 0, time.UTC), s.Next(next))

	for _, expr := range []string{"", "* * *", "* * * * * *", "60 * * * *", "nope"} {
		_, err := parseCronSchedule(expr)
		assert.ErrorIs(t, err, ErrInvalidSchedule, expr)
	}
}

func TestPeriodicJobs(t *testing.T) {
	t.Parallel()

	t.Run("registers handlers", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry()
		task := &sweepTask{expr: "*/5 * * * *"}

		jobs, err := periodicJobs([]schedule{{name: task.Name(), expr: task.Schedule(), run: task.Handle}}, reg)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)

		e, ok := reg.lookup("sweep")
		require.True(t, ok)
		require.NoError(t, e.execute(context.Background(), json.RawMessage(`{"ignored":true}`)))
		assert.Equal(t, 1, task.calls)
	})

	t.Run("bad expression", func(t *testing.T) {
		t.Parallel()
		_, err := periodicJobs([]schedule{{name: "x", expr: "bad"}}, newRegistry())
		require.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestBuildJobArgs(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		args, opts, err := buildJobArgs("greet", nil)
		require.NoError(t, err)
		assert.Equal(t, "greet", args.Task)
		assert.Empty(t, args.Payload)
		assert.Empty(t, opts.Queue)
		assert.Zero(t, opts.MaxAttempts)
		assert.Zero(t, opts.UniqueOpts.ByPeriod)
	})

	t.Run("payload and options", func(t *testing.T) {
		t.Parallel()
		args, opts, err := buildJobArgs("greet", greetPayload{Name: "bo"},
			InQueue("uploads"),
			MaxAttempts(1),
			Tags("a", "b"),
			UniqueFor(time.Hour, "k1"),
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"bo","times":0}`, string(args.Payload))
		assert.Equal(t, "k1", args.UniqueKey)
		assert.Equal(t, "uploads", opts.Queue)
		assert.Equal(t, 1, opts.MaxAttempts)
		assert.Equal(t, []string{"a", "b"}, opts.Tags)
		assert.True(t, opts.UniqueOpts.ByArgs)
		assert.Equal(t, time.Hour, opts.UniqueOpts.ByPeriod)
	})

	t.Run("unmarshalable payload", func(t *testing.T) {
		t.Parallel()
		_, _, err := buildJobArgs("greet", make(chan int))
		require.Error(t, err)
	})
}

func TestManager_EnqueueUnknownTask(t *testing.T) {
	t.Parallel()

	m := &Manager{registry: newRegistry()}
	_, err := m.Enqueue(context.Background(), "missing", nil)
	require.ErrorIs(t, err, ErrUnknownTask)
}

func TestNewManager_NilPool(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil)
	require.ErrorIs(t, err, ErrPoolRequired)
	require.ErrorIs(t, Migrate(context.Background(), nil, nil), ErrPoolRequired)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
	require.ErrorIs(t, err, errManagerNil)

	err = Healthcheck(&Manager{registry: newRegistry()})(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
	require.ErrorIs(t, err, errManagerNotStarted)
}

func TestShutdown_NotStarted(t *testing.T) {
	t.Parallel()

	require.NoError(t, Shutdown(nil)(context.Background()))
	require.NoError(t, Shutdown(&Manager{registry: newRegistry()})(context.Background()))
}

func TestManager_Inserted(t *testing.T) {
	t.Parallel()

	m := &Manager{logger: slog.New(slog.DiscardHandler)}

	id, err := m.inserted(context.Background(), "greet", &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: 7}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	id, err = m.inserted(context.Background(), "greet", &rivertype.JobInsertResult{
		Job:                      &rivertype.JobRow{ID: 3},
		UniqueSkippedAsDuplicate: true,
	})
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, int64(3), id)
}
