package sqlite

import (
	"database/sql"

	"study-tracker/internal/domain"
)

// subjectRow mirrors the subjects table
type subjectRow struct {
	ID          string
	Name        string
	Description string
	UseForTimer bool
	CreatedAt   string
}

// toDomain never fails; an unparseable created_at becomes the zero time.
func (r subjectRow) toDomain() domain.Subject {
	return domain.Subject{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		UseForTimer: r.UseForTimer,
		CreatedAt:   parseStoredTime(r.CreatedAt),
	}
}

// taskRow mirrors the tasks table, including the legacy status column
type taskRow struct {
	ID              string
	SubjectID       string
	Title           string
	Description     string
	Deadline        sql.NullString
	Time            sql.NullString
	Completed       bool
	Status          string
	DurationMinutes sql.NullInt64
	CreatedAt       string
}

func (r taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:              r.ID,
		SubjectID:       r.SubjectID,
		Title:           r.Title,
		Description:     r.Description,
		Deadline:        r.Deadline.String,
		Time:            r.Time.String,
		Completed:       domain.IsCompleted(r.Completed, r.Status),
		DurationMinutes: intPtr(r.DurationMinutes),
		CreatedAt:       parseStoredTime(r.CreatedAt),
	}
}

// sessionRow mirrors the sessions table
type sessionRow struct {
	ID              string
	Subject         string
	DurationMinutes int
	DurationSeconds int
	Date            string
	Timestamp       string
}

// toDomain keeps sessions with an unparseable timestamp; only the date is
// read by the aggregators.
func (r sessionRow) toDomain() domain.Session {
	return domain.Session{
		ID:              r.ID,
		Subject:         r.Subject,
		DurationMinutes: r.DurationMinutes,
		DurationSeconds: r.DurationSeconds,
		Date:            r.Date,
		Timestamp:       parseStoredTime(r.Timestamp),
	}
}
