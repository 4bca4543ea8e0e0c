package job

import "errors"

var (
	// ErrPoolRequired is returned by NewManager and Migrate without a pool.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrUnknownTask is returned when enqueueing or executing a task
	// that has not been registered.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidPayload is returned when a stored payload does not decode
	// into the task's payload type.
	ErrInvalidPayload = errors.New("job: invalid payload")

	// ErrInvalidSchedule is returned for a cron expression that does not parse.
	ErrInvalidSchedule = errors.New("job: invalid schedule")

	// ErrDuplicate is returned by Enqueue when a UniqueFor window already
	// holds a job with the same task and key. Nothing is inserted.
	ErrDuplicate = errors.New("job: duplicate job")

	ErrAlreadyStarted = errors.New("job: already started")
	ErrNotStarted     = errors.New("job: not started")

	// ErrHealthcheckFailed wraps every failure reported by Healthcheck.
	ErrHealthcheckFailed = errors.New("job: healthcheck failed")
)
