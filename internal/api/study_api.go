// Package api is the surface the presentation layer talks to. It hides the
// services and the refresh machinery behind one interface.
package api

import (
	"context"
	"time"

	"study-tracker/internal/analytics"
	"study-tracker/internal/cache"
	"study-tracker/internal/domain"
	"study-tracker/internal/logging"
	"study-tracker/internal/notify"
	"study-tracker/internal/refresh"
	"study-tracker/internal/repository"
	"study-tracker/internal/services"
)

// StudyAPI defines every operation available to the CLI
type StudyAPI interface {
	// ========== Subjects ==========

	CreateSubject(ctx context.Context, name, description string, useForTimer bool) (*domain.Subject, error)
	GetSubject(ctx context.Context, id string) (*domain.Subject, error)
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
	UpdateSubject(ctx context.Context, id string, update repository.SubjectUpdate) (*domain.Subject, error)
	// DeleteSubject deletes the subject and its tasks; logged sessions stay
	DeleteSubject(ctx context.Context, id string) error

	// ========== Tasks ==========

	CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	ListTasks(ctx context.Context, subjectID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, subjectID, taskID string, update repository.TaskUpdate) error
	ToggleTask(ctx context.Context, subjectID, taskID string) (*domain.Task, error)
	DeleteTask(ctx context.Context, subjectID, taskID string) error

	// ========== Sessions ==========

	// CompleteFocus records a finished countdown of totalSeconds. It returns
	// (nil, nil) when there is nothing to record.
	CompleteFocus(ctx context.Context, subject string, totalSeconds int) (*domain.Session, error)
	LogSession(ctx context.Context, input services.SessionInput) (*domain.Session, error)
	ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error)

	// ========== Statistics ==========

	GetReport(ctx context.Context, window analytics.Window, group analytics.GroupMode) (analytics.Report, error)
	ListSubjectProgress(ctx context.Context) (active, completed []analytics.SubjectProgress, err error)
	// NewRefresher returns a stopped refresher recomputing the report on every
	// write made through this API. Call the returned function after Stop.
	NewRefresher(window analytics.Window, group analytics.GroupMode) (*refresh.Refresher, func())
}

// Options configures the refresh machinery
type Options struct {
	UserID          string
	RefreshInterval time.Duration
	Cache           cache.ReportCache
	Notifier        notify.Notifier
	Logger          logging.Logger
	Clock           func() time.Time
}

// studyAPIImpl implements the StudyAPI interface
type studyAPIImpl struct {
	services *services.ServiceContainer
	opts     Options
}

// New creates a StudyAPI over the given services
func New(container *services.ServiceContainer, opts Options) StudyAPI {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &studyAPIImpl{services: container, opts: opts}
}

func (a *studyAPIImpl) CreateSubject(ctx context.Context, name, description string, useForTimer bool) (*domain.Subject, error) {
	return a.services.SubjectService.CreateSubject(ctx, name, description, useForTimer)
}

func (a *studyAPIImpl) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	return a.services.SubjectService.GetSubject(ctx, id)
}

func (a *studyAPIImpl) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	return a.services.SubjectService.ListSubjects(ctx)
}

func (a *studyAPIImpl) UpdateSubject(ctx context.Context, id string, update repository.SubjectUpdate) (*domain.Subject, error) {
	return a.services.SubjectService.UpdateSubject(ctx, id, update)
}

func (a *studyAPIImpl) DeleteSubject(ctx context.Context, id string) error {
	return a.services.SubjectService.DeleteSubject(ctx, id)
}

func (a *studyAPIImpl) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	return a.services.TaskService.CreateTask(ctx, task)
}

func (a *studyAPIImpl) ListTasks(ctx context.Context, subjectID string) ([]domain.Task, error) {
	return a.services.TaskService.ListTasks(ctx, subjectID)
}

func (a *studyAPIImpl) UpdateTask(ctx context.Context, subjectID, taskID string, update repository.TaskUpdate) error {
	return a.services.TaskService.UpdateTask(ctx, subjectID, taskID, update)
}

func (a *studyAPIImpl) ToggleTask(ctx context.Context, subjectID, taskID string) (*domain.Task, error) {
	return a.services.TaskService.ToggleTask(ctx, subjectID, taskID)
}

func (a *studyAPIImpl) DeleteTask(ctx context.Context, subjectID, taskID string) error {
	return a.services.TaskService.DeleteTask(ctx, subjectID, taskID)
}

func (a *studyAPIImpl) CompleteFocus(ctx context.Context, subject string, totalSeconds int) (*domain.Session, error) {
	return a.services.SessionService.LogCompleted(ctx, subject, totalSeconds, a.opts.Clock())
}

func (a *studyAPIImpl) LogSession(ctx context.Context, input services.SessionInput) (*domain.Session, error) {
	return a.services.SessionService.Log(ctx, input)
}

func (a *studyAPIImpl) ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	return a.services.SessionService.ListSessions(ctx, filter)
}

func (a *studyAPIImpl) GetReport(ctx context.Context, window analytics.Window, group analytics.GroupMode) (analytics.Report, error) {
	return a.services.StatsService.Report(ctx, window, group)
}

func (a *studyAPIImpl) ListSubjectProgress(ctx context.Context) (active, completed []analytics.SubjectProgress, err error) {
	return a.services.StatsService.SubjectProgress(ctx)
}

func (a *studyAPIImpl) NewRefresher(window analytics.Window, group analytics.GroupMode) (*refresh.Refresher, func()) {
	r := refresh.New(func(ctx context.Context) (analytics.Report, error) {
		return a.services.StatsService.Report(ctx, window, group)
	}, refresh.Options{
		UserID:   a.opts.UserID,
		Window:   window,
		Group:    group,
		Interval: a.opts.RefreshInterval,
		Cache:    a.opts.Cache,
		Notifier: a.opts.Notifier,
		Logger:   a.opts.Logger,
	})
	unsubscribe := a.services.Changes.Subscribe(r.Trigger)
	return r, unsubscribe
}
