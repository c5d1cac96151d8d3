package services

import (
	"context"
	"time"

	"study-tracker/internal/analytics"
	"study-tracker/internal/domain"
	"study-tracker/internal/repository"
)

// SessionInput is an explicitly entered session. Zero Date means today and a
// zero At means now.
type SessionInput struct {
	Subject string
	Minutes int
	Seconds int
	Date    string
	At      time.Time
}

// SubjectService handles the subject lifecycle
type SubjectService interface {
	CreateSubject(ctx context.Context, name, description string, useForTimer bool) (*domain.Subject, error)
	GetSubject(ctx context.Context, id string) (*domain.Subject, error)
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
	UpdateSubject(ctx context.Context, id string, update repository.SubjectUpdate) (*domain.Subject, error)
	// DeleteSubject also deletes the subject's tasks
	DeleteSubject(ctx context.Context, id string) error
}

// TaskService handles tasks attached to subjects
type TaskService interface {
	CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	ListTasks(ctx context.Context, subjectID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, subjectID, taskID string, update repository.TaskUpdate) error
	// ToggleTask flips completion and returns the updated task
	ToggleTask(ctx context.Context, subjectID, taskID string) (*domain.Task, error)
	DeleteTask(ctx context.Context, subjectID, taskID string) error
}

// SessionService records focus sessions
type SessionService interface {
	// LogCompleted records one finished countdown. A non-positive duration
	// records nothing and returns (nil, nil).
	LogCompleted(ctx context.Context, subject string, totalSeconds int, at time.Time) (*domain.Session, error)
	Log(ctx context.Context, input SessionInput) (*domain.Session, error)
	ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error)
}

// StatsService loads data and derives reports
type StatsService interface {
	// LoadSnapshot reads subjects, sessions and every subject's tasks. Any
	// read failure abandons the whole snapshot.
	LoadSnapshot(ctx context.Context) (analytics.Snapshot, error)
	Report(ctx context.Context, window analytics.Window, group analytics.GroupMode) (analytics.Report, error)
	SubjectProgress(ctx context.Context) (active, completed []analytics.SubjectProgress, err error)
	// Options returns the analytics options for the current instant
	Options() analytics.Options
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	SubjectService SubjectService
	TaskService    TaskService
	SessionService SessionService
	StatsService   StatsService
	Changes        *Changes
}
