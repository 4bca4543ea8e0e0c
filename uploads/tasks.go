package uploads

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

const (
	PublishTaskName = "publish_video"
	PurgeTaskName   = "purge_uploads"
	PurgeSchedule   = "0 3 * * *"

	// staleTempAge is how old a leftover download must be before the
	// purge removes it.
	staleTempAge = 6 * time.Hour
)

// PublishPayload is the job payload of a queued upload.
type PublishPayload struct {
	UploadID uuid.UUID `json:"upload_id"`
	VideoURL string    `json:"video_url"`
	Caption  string    `json:"caption"`
}

// PublishTask runs queued uploads.
type PublishTask struct {
	svc *Service
}

func NewPublishTask(svc *Service) *PublishTask {
	return &PublishTask{svc: svc}
}

func (t *PublishTask) Name() string { return PublishTaskName }

// Handle snoozes the job while another upload holds the lock. Every other
// failure ends the job; uploads are not retried.
func (t *PublishTask) Handle(ctx context.Context, p PublishPayload) error {
	_, err := t.svc.Run(ctx, p)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUploadInProgress):
		return river.JobSnooze(t.svc.cfg.BusyRetry)
	case StageOf(err) == StageLock:
		t.svc.setStatus(WithID(ctx, p.UploadID), p.UploadID, StatusFailed, err)
	}
	return err
}

// PurgeTask deletes finished history older than the retention period and
// leftover temp files.
type PurgeTask struct {
	svc *Service
}

func NewPurgeTask(svc *Service) *PurgeTask {
	return &PurgeTask{svc: svc}
}

func (t *PurgeTask) Name() string     { return PurgeTaskName }
func (t *PurgeTask) Schedule() string { return PurgeSchedule }

func (t *PurgeTask) Handle(ctx context.Context) error {
	return t.svc.Purge(ctx)
}

// Purge removes history past retention and temp files older than a few
// hours.
func (s *Service) Purge(ctx context.Context) error {
	cutoff := s.now().Add(-s.cfg.HistoryRetention)
	deleted, herr := s.history.Purge(ctx, cutoff)
	swept, serr := s.fetcher.Sweep(staleTempAge)

	s.logger.InfoContext(ctx, "uploads purged",
		slog.Int64("records", deleted),
		slog.Int("temp_files", swept),
		slog.Time("cutoff", cutoff),
	)
	return errors.Join(herr, serr)
}
