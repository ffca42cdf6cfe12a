// Package pipeline runs one digest pass: load the seen set, ingest feeds,
// pick the best article per source, compose, dispatch and persist.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/elonfeng/aidigest/internal/ingest"
	"github.com/elonfeng/aidigest/internal/store"
	"github.com/elonfeng/aidigest/pkg/digest"
	"github.com/elonfeng/aidigest/pkg/rank"
	"go.uber.org/zap"
)

// Dispatcher delivers a composed digest.
type Dispatcher interface {
	Broadcast(ctx context.Context, d *digest.Digest) error
}

// Report summarizes one run or preview.
type Report struct {
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Cache     string           `json:"cache"`
	SeenLinks int              `json:"seen_links"`
	Counts    ingest.Counts    `json:"counts"`
	Failures  []ingest.Failure `json:"failures,omitempty"`
	Best      int              `json:"best"`
	Subject   string           `json:"subject"`
	Sent      bool             `json:"sent"`
	Saved     bool             `json:"saved"`
}

// Options configures a Runner.
type Options struct {
	Sources       []string
	SendWhenEmpty bool
}

// Runner executes digest runs.
type Runner struct {
	store      store.Store
	ingester   *ingest.Ingester
	composer   *digest.Composer
	dispatcher Dispatcher
	opts       Options
	status     *Status
	logger     *zap.Logger
	now        func() time.Time

	runMu sync.Mutex
}

// New creates a runner.
func New(st store.Store, in *ingest.Ingester, c *digest.Composer, d Dispatcher, opts Options, logger *zap.Logger) *Runner {
	return &Runner{
		store:      st,
		ingester:   in,
		composer:   c,
		dispatcher: d,
		opts:       opts,
		status:     &Status{},
		logger:     logger,
		now:        time.Now,
	}
}

// Status returns the runner's status tracker.
func (r *Runner) Status() *Status {
	return r.status
}

// Run performs a full digest run. When dispatch fails the seen set is not
// saved, so the same articles are offered again next time.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	d, set, report, err := r.compose(ctx)
	if err != nil {
		r.finish(report, err)
		return report, err
	}

	if len(d.New) == 0 && !r.opts.SendWhenEmpty {
		r.logger.Info("no new articles, digest not sent")
	} else {
		if err := r.dispatcher.Broadcast(ctx, d); err != nil {
			err = fmt.Errorf("dispatch digest: %w", err)
			r.finish(report, err)
			return report, err
		}
		report.Sent = true
		r.logger.Info("digest sent",
			zap.String("subject", d.Subject),
			zap.Int("new", len(d.New)),
			zap.Int("best", len(d.Best)))
	}

	if err := r.store.Save(ctx, set); err != nil {
		err = fmt.Errorf("save seen set: %w", err)
		r.finish(report, err)
		return report, err
	}
	report.Saved = true
	report.SeenLinks = set.Len()

	r.finish(report, nil)
	return report, nil
}

// Preview composes the digest a run would send, without sending it and
// without touching the stored seen set.
func (r *Runner) Preview(ctx context.Context) (*digest.Digest, *Report, error) {
	d, _, report, err := r.compose(ctx)
	if err != nil {
		return nil, report, err
	}
	report.Duration = r.now().Sub(report.StartedAt)
	return d, report, nil
}

func (r *Runner) compose(ctx context.Context) (*digest.Digest, *store.Set, *Report, error) {
	now := r.now()
	report := &Report{StartedAt: now}

	set, status, err := r.store.Load(ctx)
	report.Cache = status.String()
	switch status {
	case store.LoadCorrupt:
		r.logger.Warn("seen set unreadable, starting empty",
			zap.String("store", r.store.Name()), zap.Error(err))
	case store.LoadMissing:
		r.logger.Info("no seen set yet, starting empty", zap.String("store", r.store.Name()))
	default:
		if err != nil {
			return nil, nil, report, fmt.Errorf("load seen set: %w", err)
		}
	}
	r.logger.Debug("seen set loaded", zap.Int("links", set.Len()))

	res := r.ingester.Ingest(ctx, r.opts.Sources, set, now)
	report.Counts = res.Counts
	report.Failures = res.Failures
	report.SeenLinks = set.Len()

	best := rank.BestPerSource(res.Scored)
	report.Best = len(best)

	d, err := r.composer.Compose(res.New, best, now)
	if err != nil {
		return nil, nil, report, fmt.Errorf("compose digest: %w", err)
	}
	report.Subject = d.Subject

	r.logger.Info("digest composed",
		zap.Int("feeds_ok", res.Counts.FeedsOK),
		zap.Int("feeds_failed", res.Counts.FeedsFailed),
		zap.Int("entries", res.Counts.Entries),
		zap.Int("new", res.Counts.New),
		zap.Int("best", len(best)))

	return d, set, report, nil
}

func (r *Runner) finish(report *Report, err error) {
	report.Duration = r.now().Sub(report.StartedAt)
	r.status.Record(report, err)
}
