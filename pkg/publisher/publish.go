package publisher

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Step names one stage of a publish.
type Step string

const (
	StepNavigate    Step = "navigate"
	StepAttachFile  Step = "attach_file"
	StepWaitCaption Step = "wait_caption"
	StepFillCaption Step = "fill_caption"
	StepClickPost   Step = "click_post"
	StepSettle      Step = "settle"
)

// Publisher runs a Script against a Page.
type Publisher struct {
	script Script
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Publisher for script.
func New(script Script, opts ...Option) (*Publisher, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	p := &Publisher{
		script: script,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish uploads file with caption. The caption is typed as given; an
// empty caption still clears the field. Failures are *StepError.
func (p *Publisher) Publish(ctx context.Context, page Page, file, caption string) error {
	if file == "" {
		return &StepError{Step: StepAttachFile, Err: ErrNoFile}
	}
	s := p.script

	steps := []struct {
		run     func(context.Context) error
		name    Step
		bounded bool
	}{
		{name: StepNavigate, bounded: true, run: func(ctx context.Context) error {
			return page.Navigate(ctx, s.URL)
		}},
		{name: StepAttachFile, bounded: true, run: func(ctx context.Context) error {
			return page.SetInputFiles(ctx, s.FileInput, file)
		}},
		{name: StepWaitCaption, bounded: true, run: func(ctx context.Context) error {
			return page.WaitVisible(ctx, s.Caption)
		}},
		{name: StepFillCaption, bounded: true, run: func(ctx context.Context) error {
			return page.Fill(ctx, s.Caption, caption)
		}},
		{name: StepClickPost, bounded: true, run: func(ctx context.Context) error {
			return page.Click(ctx, s.PostButton)
		}},
		{name: StepSettle, run: func(ctx context.Context) error {
			return page.Sleep(ctx, s.SettleDelay)
		}},
	}

	for _, st := range steps {
		p.logger.InfoContext(ctx, "publish step", slog.String("step", string(st.name)))
		start := time.Now()
		if err := p.runStep(ctx, st.bounded, st.run); err != nil {
			p.logger.ErrorContext(ctx, "publish step failed",
				slog.String("step", string(st.name)),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)
			return &StepError{Step: st.name, Err: err}
		}
	}
	return nil
}

func (p *Publisher) runStep(ctx context.Context, bounded bool, run func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bounded && p.script.ElementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.script.ElementTimeout)
		defer cancel()
	}
	return run(ctx)
}
