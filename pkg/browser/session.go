package browser

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
	"github.com/dmitrymomot/clipdrop/pkg/publisher"
)

var _ publisher.Page = (*Session)(nil)

// Session is one browser process with a single tab.
type Session struct {
	ctx    context.Context
	cancel func()
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// run executes actions in the tab, bounded by both the session and ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := s.ctx.Err(); err != nil {
		return errors.Join(ErrSessionClosed, err)
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if dl, ok := ctx.Deadline(); ok {
		var cancelDL context.CancelFunc
		runCtx, cancelDL = context.WithDeadline(runCtx, dl)
		defer cancelDL()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// SetCookies installs cookies in the browser before the first navigation.
func (s *Session) SetCookies(ctx context.Context, cookies []cookievault.Cookie) error {
	params, skipped := ToCookieParams(cookies)
	if len(skipped) > 0 {
		s.logger.WarnContext(ctx, "cookies without domain skipped", slog.Any("names", skipped))
	}
	if len(params) == 0 {
		return ErrNoCookies
	}
	defer clear(params)

	if err := s.run(ctx, network.SetCookies(params)); err != nil {
		return errors.Join(ErrSetCookies, err)
	}
	s.logger.DebugContext(ctx, "cookies injected", slog.Int("count", len(params)))
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *Session) WaitVisible(ctx context.Context, sel publisher.Selector) error {
	return s.run(ctx, chromedp.WaitVisible(sel.Query(), by(sel)))
}

// SetInputFiles attaches files to a file input. The input may be hidden,
// so it only waits for the node to exist.
func (s *Session) SetInputFiles(ctx context.Context, sel publisher.Selector, files ...string) error {
	return s.run(ctx,
		chromedp.WaitReady(sel.Query(), by(sel)),
		chromedp.SetUploadFiles(sel.Query(), slices.Clone(files), by(sel)),
	)
}

// Fill replaces the element's content with text. It works for inputs and
// for contenteditable editors.
func (s *Session) Fill(ctx context.Context, sel publisher.Selector, text string) error {
	var selected bool
	actions := []chromedp.Action{
		chromedp.WaitVisible(sel.Query(), by(sel)),
		chromedp.Focus(sel.Query(), by(sel)),
		chromedp.Evaluate(`document.execCommand("selectAll", false, null)`, &selected),
		chromedp.KeyEvent(kb.Backspace),
	}
	if text != "" {
		actions = append(actions, chromedp.SendKeys(sel.Query(), text, by(sel)))
	}
	return s.run(ctx, actions...)
}

func (s *Session) Click(ctx context.Context, sel publisher.Selector) error {
	return s.run(ctx,
		chromedp.WaitVisible(sel.Query(), by(sel)),
		chromedp.Click(sel.Query(), by(sel)),
	)
}

func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrSessionClosed
	}
}

// Close shuts the browser down and kills the process. Safe to call twice.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = err
		}
		s.cancel()
	})
	return s.closeErr
}

func by(sel publisher.Selector) chromedp.QueryOption {
	if sel.IsXPath() {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
