package domain

import (
	"strings"
	"time"
)

// Legacy status values still written next to the completed flag.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// DateLayout is the calendar date format used for deadlines and session dates.
const DateLayout = "2006-01-02"

// ClockLayout is the optional time-of-day attached to a deadline.
const ClockLayout = "15:04"

// Task is a unit of work under a Subject. Completed is the only completion
// field the rest of the program reads; stores fold the legacy status string
// into it with IsCompleted when loading.
type Task struct {
	ID              string
	SubjectID       string
	Title           string
	Description     string
	Deadline        string
	Time            string
	Completed       bool
	DurationMinutes *int
	CreatedAt       time.Time
}

// NewTask creates a pending task for the given subject.
func NewTask(subjectID, title string) Task {
	return Task{
		SubjectID: subjectID,
		Title:     strings.TrimSpace(title),
	}
}

// IsCompleted folds the two stored completion representations into one.
func IsCompleted(completed bool, status string) bool {
	return completed || status == StatusCompleted
}

// StatusFor returns the legacy status string for a completion flag.
func StatusFor(completed bool) string {
	if completed {
		return StatusCompleted
	}
	return StatusPending
}

// Status returns the legacy status string for the task.
func (t Task) Status() string {
	return StatusFor(t.Completed)
}

// IsValid checks if the task has a title and an owning subject.
func (t Task) IsValid() bool {
	return strings.TrimSpace(t.Title) != "" && t.SubjectID != ""
}

// EstimateMinutes returns the planning estimate, or 0 when none was set.
func (t Task) EstimateMinutes() int {
	if t.DurationMinutes == nil || *t.DurationMinutes < 0 {
		return 0
	}
	return *t.DurationMinutes
}

// DueAt resolves the deadline in loc. A deadline without a time of day is due
// at the end of that day. ok is false when no parseable deadline is set.
func (t Task) DueAt(loc *time.Location) (due time.Time, ok bool) {
	if t.Deadline == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, t.Deadline, loc)
	if err != nil {
		return time.Time{}, false
	}
	if t.Time != "" {
		if clock, err := time.Parse(ClockLayout, t.Time); err == nil {
			return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), true
		}
	}
	return day.AddDate(0, 0, 1), true
}

// IsOverdue reports whether the task is still open past its deadline.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueAt(now.Location())
	return ok && now.After(due)
}

func (t Task) String() string {
	return t.Title
}
