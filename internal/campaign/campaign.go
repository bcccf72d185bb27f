// Package campaign drives one bulk send: it walks the recipient roster in
// order, renders and builds one message per recipient, and submits each
// over a single provider session, batching with delays to avoid relay
// throttling.
package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shemeka/bulkmailer/internal/email"
	"github.com/shemeka/bulkmailer/internal/provider"
	"github.com/shemeka/bulkmailer/internal/roster"
)

// Renderer produces the HTML body for one recipient.
type Renderer interface {
	Render(rec roster.Recipient) (string, error)
}

// Options configures one run.
type Options struct {
	Subject     string
	Attachments []email.Attachment

	// MaxSends caps submission attempts for the run. Zero means no cap.
	MaxSends int

	// BatchSize and BatchDelay pace the run: after each batch of
	// BatchSize recipients the loop sleeps for BatchDelay.
	BatchSize  int
	BatchDelay time.Duration
}

// Report summarizes one run. Failed counts recipients whose render or
// submission failed; the run itself still succeeds.
type Report struct {
	Total    int
	Attempts int
	Sent     int
	Failed   int
	Elapsed  time.Duration
}

// Runner executes campaigns against one delivery provider.
type Runner struct {
	prov     provider.Provider
	renderer Renderer
	from     string
	fromName string
	opts     Options
}

// NewRunner creates a Runner. The provider's session, if it has one, is
// opened and closed by Run.
func NewRunner(prov provider.Provider, renderer Renderer, from, fromName string, opts Options) *Runner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	return &Runner{
		prov:     prov,
		renderer: renderer,
		from:     from,
		fromName: fromName,
		opts:     opts,
	}
}

// Run sends the campaign to the roster in order. A session open failure is
// fatal and returns before any submission; per-recipient failures are
// logged and the loop continues. The session is closed exactly once on
// every path.
func (r *Runner) Run(ctx context.Context, recipients []roster.Recipient) (*Report, error) {
	report := &Report{Total: len(recipients)}
	start := time.Now()
	defer func() { report.Elapsed = time.Since(start) }()

	if transport, ok := r.prov.(provider.Transport); ok {
		if err := transport.Open(ctx); err != nil {
			return report, fmt.Errorf("failed to open %s session: %w", r.prov.Name(), err)
		}
		defer func() {
			if err := transport.Close(); err != nil {
				slog.Warn("failed to close session", "provider", r.prov.Name(), "error", err)
			}
		}()
	}

	totalBatches := (len(recipients) + r.opts.BatchSize - 1) / r.opts.BatchSize

	for batch := 0; batch < totalBatches; batch++ {
		first := batch * r.opts.BatchSize
		last := min(first+r.opts.BatchSize, len(recipients))

		slog.Info("sending batch",
			"batch", batch+1,
			"batches", totalBatches,
			"size", last-first,
		)

		for _, rec := range recipients[first:last] {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			if r.opts.MaxSends > 0 && report.Attempts >= r.opts.MaxSends {
				slog.Info("send cap reached, stopping",
					"cap", r.opts.MaxSends,
					"sent", report.Sent,
				)
				return report, nil
			}
			r.sendOne(ctx, rec, report)
		}

		if batch+1 < totalBatches && r.opts.BatchDelay > 0 {
			slog.Info("sleeping before next batch", "delay", r.opts.BatchDelay)
			if err := sleepWithContext(ctx, r.opts.BatchDelay); err != nil {
				return report, err
			}
		}
	}

	return report, nil
}

// sendOne renders, builds, and submits the message for one recipient,
// folding the outcome into the report.
func (r *Runner) sendOne(ctx context.Context, rec roster.Recipient, report *Report) {
	html, err := r.renderer.Render(rec)
	if err != nil {
		report.Failed++
		slog.Error("failed to render message",
			"recipient", rec.Email,
			"uid", rec.UID,
			"error", err,
		)
		return
	}

	msg := email.Build(r.from, r.fromName, rec.Email, r.opts.Subject, html, r.opts.Attachments...)

	report.Attempts++
	if err := r.prov.Send(ctx, msg); err != nil {
		report.Failed++
		slog.Error("failed to send",
			"recipient", rec.Email,
			"uid", rec.UID,
			"error", err,
		)
		return
	}

	report.Sent++
	slog.Info("sent",
		"recipient", rec.Email,
		"uid", rec.UID,
	)
}

// sleepWithContext waits for the specified duration or until the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
