package uploads

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/clipdrop/pkg/db"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations holds the goose migrations for the uploads table.
var Migrations = mustSub(migrationFiles, "migrations")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresHistory stores records in the uploads table.
type PostgresHistory struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresHistory(pool *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{pool: pool, now: time.Now}
}

const insertUploadSQL = `
INSERT INTO uploads (id, video_url, caption, status, async, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

func (h *PostgresHistory) Create(ctx context.Context, rec Record) error {
	return h.insert(ctx, h.pool, rec)
}

// CreateWith inserts rec and runs fn in the same transaction, so a job
// enqueued by fn commits together with its record.
func (h *PostgresHistory) CreateWith(ctx context.Context, rec Record, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return db.WithTx(ctx, h.pool, func(tx pgx.Tx) error {
		if err := h.insert(ctx, tx, rec); err != nil {
			return err
		}
		return fn(ctx, tx)
	})
}

func (h *PostgresHistory) insert(ctx context.Context, q querier, rec Record) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = h.now()
	}
	if _, err := q.Exec(ctx, insertUploadSQL,
		rec.ID, rec.VideoURL, rec.Caption, string(rec.Status), rec.Async, created,
	); err != nil {
		return fmt.Errorf("uploads: insert record: %w", err)
	}
	return nil
}

const setStatusSQL = `
UPDATE uploads
SET status = $2, error_kind = $3, error = $4, updated_at = $5,
    finished_at = CASE WHEN $2 IN ('succeeded', 'failed') THEN $5 ELSE finished_at END
WHERE id = $1`

func (h *PostgresHistory) SetStatus(ctx context.Context, id uuid.UUID, status Status, kind, msg string) error {
	tag, err := h.pool.Exec(ctx, setStatusSQL, id, string(status), kind, msg, h.now())
	if err != nil {
		return fmt.Errorf("uploads: update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const getUploadSQL = `
SELECT id, video_url, caption, status, async, error_kind, error, created_at, updated_at, finished_at
FROM uploads
WHERE id = $1`

func (h *PostgresHistory) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	var (
		rec    Record
		status string
	)
	err := h.pool.QueryRow(ctx, getUploadSQL, id).Scan(
		&rec.ID, &rec.VideoURL, &rec.Caption, &status, &rec.Async,
		&rec.ErrorKind, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt, &rec.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("uploads: get record: %w", err)
	}
	rec.Status = Status(status)
	return rec, nil
}

const purgeUploadsSQL = `
DELETE FROM uploads
WHERE created_at < $1 AND status IN ('succeeded', 'failed')`

func (h *PostgresHistory) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := h.pool.Exec(ctx, purgeUploadsSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("uploads: purge records: %w", err)
	}
	return tag.RowsAffected(), nil
}
