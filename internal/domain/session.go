package domain

import (
	"time"
)

// DefaultSessionSubject labels sessions logged without a subject.
const DefaultSessionSubject = "General"

// Session is one completed focus interval. Sessions are append-only and
// carry the subject's name, not its ID.
type Session struct {
	ID              string
	Subject         string
	DurationMinutes int
	DurationSeconds int
	Date            string
	Timestamp       time.Time
}

// NewSession builds a session from a completed countdown of totalSeconds
// ending at at. The calendar date is taken in at's location.
func NewSession(subject string, totalSeconds int, at time.Time) Session {
	minutes, seconds := SplitSeconds(totalSeconds)
	if subject == "" {
		subject = DefaultSessionSubject
	}
	return Session{
		Subject:         subject,
		DurationMinutes: minutes,
		DurationSeconds: seconds,
		Date:            at.Format(DateLayout),
		Timestamp:       at,
	}
}

// TotalSeconds returns the recorded duration in seconds.
func (s Session) TotalSeconds() int {
	return ToSeconds(s.DurationMinutes, s.DurationSeconds)
}

// Hours returns the recorded duration in hours. Records with a non-positive
// duration contribute nothing.
func (s Session) Hours() float64 {
	if s.TotalSeconds() <= 0 {
		return 0
	}
	return ToHours(s.DurationMinutes, s.DurationSeconds)
}

// Day parses the session date in loc.
func (s Session) Day(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// IsLoggable reports whether the session has a positive duration.
func (s Session) IsLoggable() bool {
	return s.TotalSeconds() > 0
}
