// Package cache keeps the last successfully computed report per user so a
// failed refresh, or a restart, still has something to show.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"study-tracker/internal/analytics"
)

// ErrCacheMiss is returned when no report is stored for the user.
var ErrCacheMiss = errors.New("cache: report not found")

// DefaultKeyPrefix namespaces report keys.
const DefaultKeyPrefix = "study:report:"

// ReportCache stores the last good report under a key, usually built with
// ReportKey.
type ReportCache interface {
	Load(ctx context.Context, key string) (analytics.Report, error)
	Save(ctx context.Context, key string, report analytics.Report) error
	Close() error
}

// ReportKey names the report of one user's window and grouping. Reports of
// different views never share a key.
func ReportKey(userID string, window analytics.Window, group analytics.GroupMode) string {
	return userID + ":" + string(window) + ":" + string(group)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Load(context.Context, string) (analytics.Report, error) {
	return analytics.Report{}, ErrCacheMiss
}

func (Nop) Save(context.Context, string, analytics.Report) error { return nil }

func (Nop) Close() error { return nil }

type memoryEntry struct {
	report  analytics.Report
	expires time.Time
}

// Memory is an in-process ReportCache. A zero TTL keeps entries forever.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an empty in-memory cache
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load returns the stored report or ErrCacheMiss when absent or expired.
func (m *Memory) Load(ctx context.Context, userID string) (analytics.Report, error) {
	if err := ctx.Err(); err != nil {
		return analytics.Report{}, err
	}
	m.mu.RLock()
	entry, ok := m.entries[userID]
	m.mu.RUnlock()

	if !ok {
		return analytics.Report{}, ErrCacheMiss
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		m.mu.Lock()
		delete(m.entries, userID)
		m.mu.Unlock()
		return analytics.Report{}, ErrCacheMiss
	}
	return entry.report, nil
}

// Save replaces the user's report
func (m *Memory) Save(ctx context.Context, userID string, report analytics.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := memoryEntry{report: report}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[userID] = entry
	m.mu.Unlock()
	return nil
}

// Close drops all entries
func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
