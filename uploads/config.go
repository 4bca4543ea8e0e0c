package uploads

import (
	"time"

	"github.com/dmitrymomot/clipdrop/pkg/sanitizer"
)

// Config tunes the upload pipeline.
type Config struct {
	MaxConcurrent    int           `env:"MAX_CONCURRENT_UPLOADS" envDefault:"1"`
	LockKey          string        `env:"UPLOAD_LOCK_KEY" envDefault:"publish"`
	LockTTL          time.Duration `env:"UPLOAD_LOCK_TTL" envDefault:"15m"`
	CaptionMaxLength int           `env:"CAPTION_MAX_LENGTH" envDefault:"2200"`
	HistoryRetention time.Duration `env:"HISTORY_RETENTION" envDefault:"720h"`
	// BusyRetry is how long a queued upload waits before retrying when
	// another upload holds the lock.
	BusyRetry time.Duration `env:"UPLOAD_BUSY_RETRY" envDefault:"1m"`
	// DedupWindow rejects a queued upload of the same video and caption
	// within this period. Zero disables it.
	DedupWindow time.Duration `env:"UPLOAD_DEDUP_WINDOW" envDefault:"10m"`
}

// QueueName is the job queue publish jobs run on.
const QueueName = "uploads"

func (c Config) withDefaults() Config {
	if c.MaxConcurrent < 1 {
		c.MaxConcurrent = 1
	}
	if c.LockKey == "" {
		c.LockKey = "publish"
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 15 * time.Minute
	}
	if c.CaptionMaxLength == 0 {
		c.CaptionMaxLength = sanitizer.DefaultCaptionMaxLength
	}
	if c.HistoryRetention <= 0 {
		c.HistoryRetention = 30 * 24 * time.Hour
	}
	if c.BusyRetry <= 0 {
		c.BusyRetry = time.Minute
	}
	return c
}
