// Package repository defines the persistence boundary. Implementations live in
// the sqlite and postgres subpackages; every method is scoped to one user.
package repository

import (
	"context"

	"study-tracker/internal/domain"
)

// Store persists subjects, tasks and sessions.
//
// Listings return rows newest first. Completion of loaded tasks is already
// folded into domain.Task.Completed. Missing rows are reported as
// errors.ErrorTypeNotFound and driver failures as errors.ErrorTypeDatabase.
type Store interface {
	// Subjects
	ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error)
	GetSubject(ctx context.Context, userID, subjectID string) (domain.Subject, error)
	CreateSubject(ctx context.Context, userID string, subject domain.Subject) (string, error)
	UpdateSubject(ctx context.Context, userID, subjectID string, update SubjectUpdate) error
	// DeleteSubject removes the subject and all of its tasks atomically.
	DeleteSubject(ctx context.Context, userID, subjectID string) error

	// Tasks
	ListTasks(ctx context.Context, userID, subjectID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, userID string, task domain.Task) (string, error)
	UpdateTask(ctx context.Context, userID, subjectID, taskID string, update TaskUpdate) error
	DeleteTask(ctx context.Context, userID, subjectID, taskID string) error

	// Sessions
	ListSessions(ctx context.Context, userID string, filter domain.SessionFilter) ([]domain.Session, error)
	CreateSession(ctx context.Context, userID string, session domain.Session) (string, error)

	Close() error
}

// SubjectUpdate is a partial update; nil fields are left unchanged.
type SubjectUpdate struct {
	Name        *string
	Description *string
	UseForTimer *bool
}

// IsEmpty reports whether the update changes nothing.
func (u SubjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.UseForTimer == nil
}

// TaskUpdate is a partial update; nil fields are left unchanged. Setting
// Completed also rewrites the legacy status column.
type TaskUpdate struct {
	Title           *string
	Description     *string
	Deadline        *string
	Time            *string
	Completed       *bool
	DurationMinutes *int
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Deadline == nil &&
		u.Time == nil && u.Completed == nil && u.DurationMinutes == nil
}
