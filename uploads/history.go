package uploads

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// History stores upload records.
type History interface {
	Create(ctx context.Context, rec Record) error
	// SetStatus moves an upload to status. kind and msg describe a failure
	// and are empty otherwise.
	SetStatus(ctx context.Context, id uuid.UUID, status Status, kind, msg string) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	// Purge deletes finished records created before cutoff.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// NopHistory keeps nothing. Get always returns ErrNotFound.
type NopHistory struct{}

func (NopHistory) Create(context.Context, Record) error { return nil }

func (NopHistory) SetStatus(context.Context, uuid.UUID, Status, string, string) error { return nil }

func (NopHistory) Get(context.Context, uuid.UUID) (Record, error) { return Record{}, ErrNotFound }

func (NopHistory) Purge(context.Context, time.Time) (int64, error) { return 0, nil }
