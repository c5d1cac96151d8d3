// Package refresh keeps a user's report current in the background.
//
// Every trigger (start, explicit Trigger, ticker) runs the same full
// recompute. A newer trigger cancels the computation in flight, and a result
// is only published when no newer one has been published already. Failed
// computations leave the previous report in place.
package refresh

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"study-tracker/internal/analytics"
	"study-tracker/internal/cache"
	"study-tracker/internal/logging"
	"study-tracker/internal/notify"
)

// DefaultInterval is the periodic refresh interval.
const DefaultInterval = 60 * time.Second

// ErrAlreadyRunning is returned by Start on a running refresher.
var ErrAlreadyRunning = stderrors.New("refresh: already running")

// ComputeFunc produces a fresh report. It must honour ctx cancellation.
type ComputeFunc func(ctx context.Context) (analytics.Report, error)

// Options configures a Refresher. Zero values select defaults.
type Options struct {
	UserID   string
	// Window and Group name the view being refreshed. When Window is set the
	// cache key includes the view and cached reports of another view are
	// ignored.
	Window   analytics.Window
	Group    analytics.GroupMode
	Interval time.Duration
	Cache    cache.ReportCache
	Notifier notify.Notifier
	Logger   logging.Logger
}

// Refresher runs ComputeFunc on triggers and publishes the results.
type Refresher struct {
	compute  ComputeFunc
	userID   string
	window   analytics.Window
	group    analytics.GroupMode
	cacheKey string
	interval time.Duration
	cache    cache.ReportCache
	notifier notify.Notifier
	logger   logging.Logger

	triggers chan struct{}

	mu        sync.RWMutex
	running   bool
	stopped   bool
	ctx       context.Context
	cancel    context.CancelFunc
	inflight  context.CancelFunc
	seq       uint64
	published uint64
	latest    analytics.Report
	hasLatest bool
	lastErr   error
	subs      []chan analytics.Report

	wg sync.WaitGroup
}

// New creates a stopped Refresher
func New(compute ComputeFunc, opts Options) *Refresher {
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	cacheKey := opts.UserID
	if opts.Window != "" {
		cacheKey = cache.ReportKey(opts.UserID, opts.Window, opts.Group)
	}
	return &Refresher{
		compute:  compute,
		userID:   opts.UserID,
		window:   opts.Window,
		group:    opts.Group,
		cacheKey: cacheKey,
		interval: opts.Interval,
		cache:    opts.Cache,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		triggers: make(chan struct{}, 1),
	}
}

// Start seeds the latest report from the cache, runs an initial refresh and
// keeps refreshing until ctx is done or Stop is called.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running || r.stopped {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.running = true
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.seed()

	r.wg.Add(1)
	go r.loop()
	r.Trigger()
	return nil
}

// Stop cancels all work and waits for it to finish. Subscriber channels are
// closed once nothing can publish anymore.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.stopped = true
		r.closeSubscribersLocked()
		r.mu.Unlock()
		return
	}
	r.running = false
	r.stopped = true
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()

	r.mu.Lock()
	r.closeSubscribersLocked()
	r.mu.Unlock()
}

// Trigger requests a refresh. Pending requests coalesce.
func (r *Refresher) Trigger() {
	select {
	case r.triggers <- struct{}{}:
	default:
	}
}

// Latest returns the most recently published report, if any.
func (r *Refresher) Latest() (analytics.Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.hasLatest
}

// Err returns the error of the last failed refresh, or nil after a success.
func (r *Refresher) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Subscribe returns a channel receiving every published report. Slow
// receivers only see the newest report. The channel is closed by Stop.
func (r *Refresher) Subscribe() <-chan analytics.Report {
	ch := make(chan analytics.Report, 1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		close(ch)
		return ch
	}
	r.subs = append(r.subs, ch)
	return ch
}

func (r *Refresher) seed() {
	report, err := r.cache.Load(r.ctx, r.cacheKey)
	if err != nil {
		if !stderrors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("failed to load cached report", "user", r.userID, "err", err)
		}
		return
	}
	if r.window != "" && (report.Window != r.window || report.Group != r.group) {
		r.logger.Warn("ignoring cached report for another view", "user", r.userID,
			"window", report.Window, "group", report.Group)
		return
	}

	r.mu.Lock()
	if !r.hasLatest {
		r.latest = report
		r.hasLatest = true
		r.broadcastLocked(report)
	}
	r.mu.Unlock()
	r.logger.Debug("seeded report from cache", "user", r.userID, "generated_at", report.GeneratedAt)
}

func (r *Refresher) loop() {
	defer r.wg.Done()

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.triggers:
			r.run()
		case <-tick:
			r.run()
		}
	}
}

// run supersedes any computation in flight and starts a new one.
func (r *Refresher) run() {
	r.mu.Lock()
	if r.inflight != nil {
		r.inflight()
	}
	r.seq++
	seq := r.seq
	ctx, cancel := context.WithCancel(r.ctx)
	r.inflight = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		report, err := r.compute(ctx)
		r.publish(ctx, seq, report, err)
	}()
}

func (r *Refresher) publish(ctx context.Context, seq uint64, report analytics.Report, err error) {
	r.mu.Lock()
	if ctx.Err() != nil || seq <= r.published {
		r.mu.Unlock()
		r.logger.Debug("dropping superseded refresh", "seq", seq)
		return
	}

	if err != nil {
		r.lastErr = err
		r.mu.Unlock()
		r.logger.Error("refresh failed, keeping previous report", "user", r.userID, "err", err)
		_ = r.notifier.Notify("Statistics not updated", "Could not refresh statistics: "+err.Error())
		return
	}

	r.published = seq
	r.latest = report
	r.hasLatest = true
	r.lastErr = nil
	r.broadcastLocked(report)
	r.mu.Unlock()

	if err := r.cache.Save(ctx, r.cacheKey, report); err != nil {
		r.logger.Warn("failed to cache report", "user", r.userID, "err", err)
	}
	r.logger.Debug("report published", "seq", seq, "sessions", report.Summary.TotalSessions)
}

func (r *Refresher) broadcastLocked(report analytics.Report) {
	for _, ch := range r.subs {
		select {
		case ch <- report:
			continue
		default:
		}
		// replace the unread report with the newer one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- report:
		default:
		}
	}
}

func (r *Refresher) closeSubscribersLocked() {
	for _, ch := range r.subs {
		close(ch)
	}
	r.subs = nil
}
