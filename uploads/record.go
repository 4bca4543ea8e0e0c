package uploads

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record is one upload as stored in history.
type Record struct {
	ID         uuid.UUID  `json:"upload_id"`
	VideoURL   string     `json:"video_url"`
	Caption    string     `json:"caption"`
	Status     Status     `json:"status"`
	Async      bool       `json:"async"`
	ErrorKind  string     `json:"error_kind,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Request is the input of Upload and Enqueue.
type Request struct {
	VideoURL string
	Caption  string
}

// Result identifies an accepted or completed upload.
type Result struct {
	ID       uuid.UUID
	Status   Status
	Duration time.Duration
}

type idKey struct{}

// IDContextKey is the context key under which the upload id is stored as
// a string, for logger.ContextValue.
var IDContextKey = idKey{}

// WithID stores the upload id in ctx.
func WithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, IDContextKey, id.String())
}
