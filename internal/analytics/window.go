// Package analytics derives the statistics views from a snapshot of subjects,
// tasks and sessions. Every function here is pure: no I/O, no errors, and
// the same inputs always give the same output.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"study-tracker/internal/domain"
)

// Window is the trailing range of calendar days a focus series covers.
type Window string

const (
	WindowDay   Window = "day"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// Days returns the number of calendar days in the window, today included.
func (w Window) Days() int {
	switch w {
	case WindowMonth:
		return 30
	case WindowYear:
		return 365
	default:
		return 7
	}
}

// ParseWindow accepts day, week (alias of day), month and year.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "week", "7d":
		return WindowDay, nil
	case "month", "30d":
		return WindowMonth, nil
	case "year", "365d":
		return WindowYear, nil
	default:
		return "", fmt.Errorf("unknown window %q (want day, month or year)", s)
	}
}

// GroupMode selects how a focus series is bucketed.
type GroupMode string

const (
	GroupDaily   GroupMode = "daily"
	GroupWeekly  GroupMode = "weekly"
	GroupSubject GroupMode = "subject"
)

// ParseGroupMode accepts daily, weekly and subject.
func ParseGroupMode(s string) (GroupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily", "day":
		return GroupDaily, nil
	case "weekly", "week":
		return GroupWeekly, nil
	case "subject", "subjects":
		return GroupSubject, nil
	default:
		return "", fmt.Errorf("unknown grouping %q (want daily, weekly or subject)", s)
	}
}

// Options carries the reference point for window computations.
type Options struct {
	// Today is the reference instant. Its location decides calendar days.
	Today time.Time
	// WeekStart is the first day of a weekly bucket.
	WeekStart time.Weekday
}

// windowDates returns midnight of each day in the window, oldest first.
func windowDates(today time.Time, days int) []time.Time {
	if today.IsZero() {
		today = time.Now()
	}
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	dates := make([]time.Time, days)
	for i := 0; i < days; i++ {
		dates[i] = midnight.AddDate(0, 0, i-(days-1))
	}
	return dates
}

// weekStartOf returns midnight of the week start on or before day.
func weekStartOf(day time.Time, start time.Weekday) time.Time {
	offset := (int(day.Weekday()) - int(start) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// weekOfMonth is ceil(dayOfMonth / 7).
func weekOfMonth(day time.Time) int {
	return (day.Day() + 6) / 7
}

type buckets struct {
	keys   []string
	labels []string
	index  map[string]int
}

// buildBuckets lays out the buckets for a window and maps every window date
// to the index of the bucket it falls into.
func buildBuckets(window Window, group GroupMode, opts Options) buckets {
	dates := windowDates(opts.Today, window.Days())
	b := buckets{index: make(map[string]int, len(dates))}

	if group == GroupWeekly {
		seen := make(map[string]int)
		for _, d := range dates {
			key := weekStartOf(d, opts.WeekStart).Format(domain.DateLayout)
			idx, ok := seen[key]
			if !ok {
				idx = len(b.keys)
				seen[key] = idx
				b.keys = append(b.keys, key)
				b.labels = append(b.labels, fmt.Sprintf("Week %d", weekOfMonth(d)))
			}
			b.index[d.Format(domain.DateLayout)] = idx
		}
		return b
	}

	for i, d := range dates {
		key := d.Format(domain.DateLayout)
		b.keys = append(b.keys, key)
		b.labels = append(b.labels, d.Format("Jan 2"))
		b.index[key] = i
	}
	return b
}
