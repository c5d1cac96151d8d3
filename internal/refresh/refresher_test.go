package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/analytics"
	"study-tracker/internal/cache"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func reportWith(sessions int) analytics.Report {
	return analytics.Report{Summary: analytics.Summary{TotalSessions: sessions}}
}

type notifications struct {
	mu    sync.Mutex
	count int
}

func (n *notifications) Notify(string, string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	return nil
}

func (n *notifications) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

func latestSessions(r *Refresher) int {
	report, ok := r.Latest()
	if !ok {
		return -1
	}
	return report.Summary.TotalSessions
}

func TestRefresher_InitialRefresh(t *testing.T) {
	r := New(func(ctx context.Context) (analytics.Report, error) {
		return reportWith(3), nil
	}, Options{UserID: "u1", Interval: -1})

	updates := r.Subscribe()
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	select {
	case got := <-updates:
		assert.Equal(t, 3, got.Summary.TotalSessions)
	case <-time.After(waitFor):
		t.Fatal("no report published")
	}

	assert.Equal(t, 3, latestSessions(r))
	assert.NoError(t, r.Err())
}

func TestRefresher_StartTwice(t *testing.T) {
	r := New(func(ctx context.Context) (analytics.Report, error) {
		return reportWith(1), nil
	}, Options{Interval: -1})

	require.NoError(t, r.Start(context.Background()))
	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyRunning)
	r.Stop()
	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyRunning)
}

func TestRefresher_FailureKeepsPreviousReport(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("store offline")
	notifier := &notifications{}
	memory := cache.NewMemory(0)

	r := New(func(ctx context.Context) (analytics.Report, error) {
		if calls.Add(1) == 1 {
			return reportWith(5), nil
		}
		return analytics.Report{}, boom
	}, Options{UserID: "u1", Interval: -1, Notifier: notifier, Cache: memory})

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return latestSessions(r) == 5 }, waitFor, tick)

	r.Trigger()
	require.Eventually(t, func() bool { return notifier.Count() == 1 }, waitFor, tick)

	assert.ErrorIs(t, r.Err(), boom)
	assert.Equal(t, 5, latestSessions(r))

	require.Eventually(t, func() bool {
		cached, err := memory.Load(context.Background(), "u1")
		return err == nil && cached.Summary.TotalSessions == 5
	}, waitFor, tick)
}

func TestRefresher_NewerTriggerWins(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	firstDone := make(chan struct{})

	r := New(func(ctx context.Context) (analytics.Report, error) {
		if calls.Add(1) == 1 {
			defer close(firstDone)
			<-release
			return reportWith(1), nil
		}
		return reportWith(2), nil
	}, Options{Interval: -1})

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, tick)
	r.Trigger()
	require.Eventually(t, func() bool { return latestSessions(r) == 2 }, waitFor, tick)

	close(release)
	<-firstDone

	// the stale result must not overwrite the newer one
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, latestSessions(r))
}

func TestRefresher_SupersededComputationIsCancelled(t *testing.T) {
	var calls atomic.Int32
	cancelled := make(chan struct{})

	r := New(func(ctx context.Context) (analytics.Report, error) {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			close(cancelled)
			return analytics.Report{}, ctx.Err()
		}
		return reportWith(7), nil
	}, Options{Interval: -1})

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, tick)
	r.Trigger()

	select {
	case <-cancelled:
	case <-time.After(waitFor):
		t.Fatal("first computation was not cancelled")
	}
	require.Eventually(t, func() bool { return latestSessions(r) == 7 }, waitFor, tick)
	assert.NoError(t, r.Err())
}

func TestRefresher_Ticker(t *testing.T) {
	var calls atomic.Int32
	r := New(func(ctx context.Context) (analytics.Report, error) {
		return reportWith(int(calls.Add(1))), nil
	}, Options{Interval: 10 * time.Millisecond})

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, waitFor, tick)
}

func TestRefresher_SeedsFromCache(t *testing.T) {
	memory := cache.NewMemory(0)
	require.NoError(t, memory.Save(context.Background(), "u1", reportWith(9)))

	release := make(chan struct{})
	r := New(func(ctx context.Context) (analytics.Report, error) {
		select {
		case <-release:
			return reportWith(10), nil
		case <-ctx.Done():
			return analytics.Report{}, ctx.Err()
		}
	}, Options{UserID: "u1", Interval: -1, Cache: memory})

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Equal(t, 9, latestSessions(r))

	close(release)
	require.Eventually(t, func() bool { return latestSessions(r) == 10 }, waitFor, tick)
}

func TestRefresher_SeedRejectsOtherView(t *testing.T) {
	ctx := context.Background()
	memory := cache.NewMemory(0)
	stale := analytics.Report{Window: analytics.WindowDay, Group: analytics.GroupDaily}
	stale.Summary.TotalSessions = 4
	require.NoError(t, memory.Save(ctx, "u1", stale))
	require.NoError(t, memory.Save(ctx, cache.ReportKey("u1", analytics.WindowMonth, analytics.GroupWeekly), stale))

	notifier := &notifications{}
	r := New(func(ctx context.Context) (analytics.Report, error) {
		return analytics.Report{}, errors.New("store down")
	}, Options{
		UserID:   "u1",
		Window:   analytics.WindowMonth,
		Group:    analytics.GroupWeekly,
		Interval: -1,
		Cache:    memory,
		Notifier: notifier,
	})

	require.NoError(t, r.Start(ctx))
	defer r.Stop()

	require.Eventually(t, func() bool { return notifier.Count() == 1 }, waitFor, tick)
	_, ok := r.Latest()
	assert.False(t, ok)
	assert.Error(t, r.Err())
}

func TestRefresher_SeedsMatchingView(t *testing.T) {
	ctx := context.Background()
	memory := cache.NewMemory(0)
	cached := analytics.Report{Window: analytics.WindowMonth, Group: analytics.GroupWeekly}
	cached.Summary.TotalSessions = 6
	require.NoError(t, memory.Save(ctx, cache.ReportKey("u1", analytics.WindowMonth, analytics.GroupWeekly), cached))
	require.NoError(t, memory.Save(ctx, cache.ReportKey("u1", analytics.WindowDay, analytics.GroupDaily),
		analytics.Report{Window: analytics.WindowDay, Group: analytics.GroupDaily}))

	r := New(func(ctx context.Context) (analytics.Report, error) {
		<-ctx.Done()
		return analytics.Report{}, ctx.Err()
	}, Options{
		UserID:   "u1",
		Window:   analytics.WindowMonth,
		Group:    analytics.GroupWeekly,
		Interval: -1,
		Cache:    memory,
	})

	require.NoError(t, r.Start(ctx))
	defer r.Stop()

	report, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, analytics.WindowMonth, report.Window)
	assert.Equal(t, 6, report.Summary.TotalSessions)
}

func TestRefresher_StopWaitsAndClosesSubscribers(t *testing.T) {
	var running atomic.Bool
	r := New(func(ctx context.Context) (analytics.Report, error) {
		running.Store(true)
		<-ctx.Done()
		running.Store(false)
		return analytics.Report{}, ctx.Err()
	}, Options{Interval: -1})

	updates := r.Subscribe()
	require.NoError(t, r.Start(context.Background()))
	require.Eventually(t, running.Load, waitFor, tick)

	r.Stop()
	assert.False(t, running.Load())

	_, open := <-updates
	assert.False(t, open)

	r.Trigger()
	_, open = <-r.Subscribe()
	assert.False(t, open)
	_, ok := r.Latest()
	assert.False(t, ok)
}

func TestRefresher_ParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(func(ctx context.Context) (analytics.Report, error) {
		return reportWith(1), nil
	}, Options{Interval: -1})

	require.NoError(t, r.Start(ctx))
	require.Eventually(t, func() bool { return latestSessions(r) == 1 }, waitFor, tick)

	cancel()
	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Stop did not return")
	}
}
