package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// Launcher starts browser sessions with a fixed configuration.
type Launcher struct {
	cfg    Config
	logger *slog.Logger
}

type Option func(*Launcher)

func WithLogger(l *slog.Logger) Option {
	return func(b *Launcher) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewLauncher(cfg Config, opts ...Option) *Launcher {
	l := &Launcher{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// allocatorOptions builds the Chrome command line for cfg.
func allocatorOptions(cfg Config) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.NoSandbox {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-setuid-sandbox", true),
		)
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// Launch starts a new browser with one blank tab. The session lives until
// Close, ctx ends, or the configured timeout passes.
func (l *Launcher) Launch(ctx context.Context) (*Session, error) {
	base, cancelBase := ctx, context.CancelFunc(func() {})
	if l.cfg.Timeout > 0 {
		base, cancelBase = context.WithTimeout(ctx, l.cfg.Timeout)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(base, allocatorOptions(l.cfg)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			l.logger.Debug("chromedp: " + fmt.Sprintf(format, args...))
		}),
	)

	s := &Session{
		ctx:    tabCtx,
		logger: l.logger,
		cancel: func() {
			cancelTab()
			cancelAlloc()
			cancelBase()
		},
	}

	start := time.Now()
	// Running no actions starts the browser process and opens the tab.
	if err := chromedp.Run(tabCtx); err != nil {
		s.cancel()
		return nil, errors.Join(ErrLaunchFailed, err)
	}
	l.logger.DebugContext(ctx, "browser launched",
		slog.Bool("headless", l.cfg.Headless),
		slog.Duration("duration", time.Since(start)),
	)
	return s, nil
}

var execCandidates = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
}

// Healthcheck reports whether a Chrome binary is available.
// Compatible with health.CheckFunc.
func Healthcheck(cfg Config) func(ctx context.Context) error {
	return func(context.Context) error {
		if cfg.ExecPath != "" {
			info, err := os.Stat(cfg.ExecPath)
			if err != nil {
				return errors.Join(ErrBrowserNotFound, err)
			}
			if info.IsDir() {
				return fmt.Errorf("%w: %s is a directory", ErrBrowserNotFound, cfg.ExecPath)
			}
			return nil
		}
		for _, name := range execCandidates {
			if _, err := exec.LookPath(name); err == nil {
				return nil
			}
		}
		return ErrBrowserNotFound
	}
}
