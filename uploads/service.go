package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/clipdrop/pkg/browser"
	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
	"github.com/dmitrymomot/clipdrop/pkg/job"
	"github.com/dmitrymomot/clipdrop/pkg/lock"
	"github.com/dmitrymomot/clipdrop/pkg/publisher"
	"github.com/dmitrymomot/clipdrop/pkg/sanitizer"
	"github.com/dmitrymomot/clipdrop/pkg/storage"
)

// Fetcher downloads the source video. *storage.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (*storage.TempFile, error)
	Sweep(olderThan time.Duration) (int, error)
}

// Session is a browser tab ready to publish.
type Session interface {
	publisher.Page
	SetCookies(ctx context.Context, cookies []cookievault.Cookie) error
	Close() error
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// LaunchFunc adapts a function to Launcher.
type LaunchFunc func(ctx context.Context) (Session, error)

func (f LaunchFunc) Launch(ctx context.Context) (Session, error) { return f(ctx) }

// Chrome adapts a browser.Launcher.
func Chrome(l *browser.Launcher) Launcher {
	return LaunchFunc(func(ctx context.Context) (Session, error) {
		s, err := l.Launch(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Publisher drives the upload page. *publisher.Publisher implements it.
type Publisher interface {
	Publish(ctx context.Context, page publisher.Page, file, caption string) error
}

// Queue inserts background jobs. *job.Manager implements it.
type Queue interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) (int64, error)
}

// txQueue and txHistory let Enqueue insert the record and the job in one
// transaction when both sides are Postgres.
type txQueue interface {
	EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) (int64, error)
}

type txHistory interface {
	CreateWith(ctx context.Context, rec Record, fn func(ctx context.Context, tx pgx.Tx) error) error
}

var (
	_ Fetcher   = (*storage.Fetcher)(nil)
	_ Publisher = (*publisher.Publisher)(nil)
	_ Queue     = (*job.Manager)(nil)
)

// Service runs uploads.
type Service struct {
	cfg       Config
	cookies   cookievault.Config
	fetcher   Fetcher
	launcher  Launcher
	publisher Publisher
	locker    lock.Locker
	history   History
	queue     Queue
	sem       *semaphore.Weighted
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithHistory sets the record store. Default: NopHistory.
func WithHistory(h History) Option {
	return func(s *Service) {
		if h != nil {
			s.history = h
		}
	}
}

// WithLocker sets the lock shared by all instances. Default: in-memory.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithQueue enables Enqueue.
func WithQueue(q Queue) Option {
	return func(s *Service) {
		if q != nil {
			s.queue = q
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wires the pipeline. cookies holds the encrypted bundle and its
// password; it is decrypted again for every upload.
func NewService(cfg Config, cookies cookievault.Config, f Fetcher, l Launcher, p Publisher, opts ...Option) *Service {
	cfg = cfg.withDefaults()
	s := &Service{
		cfg:       cfg,
		cookies:   cookies,
		fetcher:   f,
		launcher:  l,
		publisher: p,
		locker:    lock.NewMemory(),
		history:   NopHistory{},
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Queued returns a copy of s that enqueues to q. The copy shares the
// semaphore, lock and history with s, so tasks built around s before the
// queue existed still run under the same limits.
func (s *Service) Queued(q Queue) *Service {
	cp := *s
	cp.queue = q
	return &cp
}

// QueueEnabled reports whether Enqueue can accept uploads.
func (s *Service) QueueEnabled() bool { return s.queue != nil }

// Get returns the history record for id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	return s.history.Get(ctx, id)
}

// newRecord validates req and returns a pending record for it.
func (s *Service) newRecord(req Request, async bool) (Record, error) {
	source := strings.TrimSpace(req.VideoURL)
	if source == "" {
		return Record{}, stageError(StageValidate, ErrMissingVideoURL)
	}
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return Record{}, stageError(StageValidate, ErrInvalidVideoURL)
	}
	switch u.Scheme {
	case "http", "https", "s3":
	default:
		return Record{}, stageError(StageValidate, ErrInvalidVideoURL)
	}

	now := s.now()
	return Record{
		ID:        uuid.New(),
		VideoURL:  source,
		Caption:   sanitizer.Caption(req.Caption, s.cfg.CaptionMaxLength),
		Status:    StatusPending,
		Async:     async,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Upload publishes req and returns once the post has been submitted.
func (s *Service) Upload(ctx context.Context, req Request) (Result, error) {
	rec, err := s.newRecord(req, false)
	if err != nil {
		return Result{}, err
	}
	ctx = WithID(ctx, rec.ID)

	if err := s.history.Create(ctx, rec); err != nil {
		return Result{ID: rec.ID}, stageError(StageHistory, err)
	}

	res, err := s.run(ctx, rec)
	if StageOf(err) == StageLock {
		s.setStatus(ctx, rec.ID, StatusFailed, err)
	}
	return res, err
}

// Enqueue stores req and schedules it on the job queue.
func (s *Service) Enqueue(ctx context.Context, req Request) (Result, error) {
	if s.queue == nil {
		return Result{}, ErrQueueDisabled
	}
	rec, err := s.newRecord(req, true)
	if err != nil {
		return Result{}, err
	}
	ctx = WithID(ctx, rec.ID)
	payload := PublishPayload{UploadID: rec.ID, VideoURL: rec.VideoURL, Caption: rec.Caption}
	opts := s.enqueueOptions(rec)

	th, okH := s.history.(txHistory)
	tq, okQ := s.queue.(txQueue)
	if okH && okQ {
		err = th.CreateWith(ctx, rec, func(ctx context.Context, tx pgx.Tx) error {
			_, err := tq.EnqueueTx(ctx, tx, PublishTaskName, payload, opts...)
			return err
		})
	} else if err = s.history.Create(ctx, rec); err == nil {
		_, err = s.queue.Enqueue(ctx, PublishTaskName, payload, opts...)
		if errors.Is(err, job.ErrDuplicate) {
			s.setStatus(ctx, rec.ID, StatusFailed, ErrDuplicateUpload)
		}
	}
	if errors.Is(err, job.ErrDuplicate) {
		s.logger.InfoContext(ctx, "duplicate upload rejected", slog.String("video_url", rec.VideoURL))
		return Result{}, ErrDuplicateUpload
	}
	if err != nil {
		return Result{ID: rec.ID}, fmt.Errorf("uploads: enqueue: %w", err)
	}

	s.logger.InfoContext(ctx, "upload queued", slog.String("video_url", rec.VideoURL))
	return Result{ID: rec.ID, Status: StatusPending}, nil
}

// enqueueOptions routes a publish job to the upload queue as a single
// attempt. With a dedup window, the same video and caption queued twice
// within it is rejected.
func (s *Service) enqueueOptions(rec Record) []job.EnqueueOption {
	opts := []job.EnqueueOption{
		job.MaxAttempts(1),
		job.InQueue(QueueName),
		job.Tags("upload"),
	}
	if s.cfg.DedupWindow > 0 {
		opts = append(opts, job.UniqueFor(s.cfg.DedupWindow, rec.VideoURL+"\n"+rec.Caption))
	}
	return opts
}

// Run executes a queued upload.
func (s *Service) Run(ctx context.Context, p PublishPayload) (Result, error) {
	return s.run(WithID(ctx, p.UploadID), Record{
		ID:       p.UploadID,
		VideoURL: p.VideoURL,
		Caption:  p.Caption,
		Async:    true,
	})
}

// run performs the upload and writes the outcome to history. Failures to
// get the semaphore or the lock return before anything is recorded.
func (s *Service) run(ctx context.Context, rec Record) (res Result, err error) {
	start := s.now()
	res = Result{ID: rec.ID, Status: StatusFailed}
	log := s.logger.With(slog.String("video_url", rec.VideoURL))

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return res, stageError(StageLock, err)
	}
	defer s.sem.Release(1)

	release, err := s.locker.Acquire(ctx, s.cfg.LockKey, s.cfg.LockTTL)
	if errors.Is(err, lock.ErrLocked) {
		log.WarnContext(ctx, "upload rejected, lock held")
		return res, stageError(StageLock, ErrUploadInProgress)
	}
	if err != nil {
		return res, stageError(StageLock, err)
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			log.WarnContext(ctx, "lock release failed", slog.Any("error", rerr))
		}
	}()

	s.setStatus(ctx, rec.ID, StatusRunning, nil)
	defer func() {
		res.Duration = s.now().Sub(start)
		if err != nil {
			log.ErrorContext(ctx, "upload failed",
				slog.String("kind", KindOf(err)),
				slog.Duration("duration", res.Duration),
				slog.Any("error", err),
			)
			s.setStatus(ctx, rec.ID, StatusFailed, err)
			return
		}
		res.Status = StatusSucceeded
		log.InfoContext(ctx, "upload succeeded", slog.Duration("duration", res.Duration))
		s.setStatus(ctx, rec.ID, StatusSucceeded, nil)
	}()

	return res, s.publish(ctx, rec)
}

func (s *Service) publish(ctx context.Context, rec Record) error {
	cookies, err := cookievault.Decrypt(s.cookies, cookievault.WithLogger(s.logger))
	if err != nil {
		return stageError(StageCookies, err)
	}
	defer clear(cookies)
	if len(cookies) == 0 {
		return stageError(StageCookies, ErrNoCookies)
	}

	video, err := s.fetcher.Fetch(ctx, rec.VideoURL)
	if err != nil {
		return stageError(StageDownload, err)
	}
	defer func() {
		if err := video.Remove(); err != nil {
			s.logger.WarnContext(ctx, "temp file not removed", slog.String("path", video.Path), slog.Any("error", err))
		}
	}()

	session, err := s.launcher.Launch(ctx)
	if err != nil {
		return stageError(StageBrowser, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.WarnContext(ctx, "browser close failed", slog.Any("error", err))
		}
	}()

	if err := session.SetCookies(ctx, cookies); err != nil {
		return stageError(StageBrowser, err)
	}
	clear(cookies)

	if err := s.publisher.Publish(ctx, session, video.Path, rec.Caption); err != nil {
		return stageError(StagePublish, err)
	}
	return nil
}

// setStatus records a transition. History failures are logged, never
// returned; they must not change the outcome of the upload.
func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status Status, cause error) {
	var msg string
	if cause != nil {
		msg = cause.Error()
	}
	if err := s.history.SetStatus(context.WithoutCancel(ctx), id, status, KindOf(cause), msg); err != nil {
		s.logger.WarnContext(ctx, "history update failed",
			slog.String("status", string(status)),
			slog.Any("error", err),
		)
	}
}
