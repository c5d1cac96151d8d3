package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"study-tracker/internal/analytics"
	"study-tracker/internal/api"
	"study-tracker/internal/config"
	"study-tracker/internal/domain"
	"study-tracker/internal/errors"
	"study-tracker/internal/refresh"
	"study-tracker/internal/repository"
	"study-tracker/internal/services"
)

// mockStudyAPI implements the StudyAPI interface for testing
type mockStudyAPI struct {
	subjects []domain.Subject
	tasks    map[string][]domain.Task
	sessions []domain.Session
	nextID   int

	report    analytics.Report
	reportErr error
	// failWith is returned by every write when set
	failWith error

	lastWindow analytics.Window
	lastGroup  analytics.GroupMode
	lastFilter domain.SessionFilter
	focusCalls []int
}

var _ api.StudyAPI = (*mockStudyAPI)(nil)

func newMockStudyAPI() *mockStudyAPI {
	return &mockStudyAPI{tasks: make(map[string][]domain.Task)}
}

func (m *mockStudyAPI) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStudyAPI) subjectIndex(id string) int {
	for i, s := range m.subjects {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *mockStudyAPI) CreateSubject(ctx context.Context, name, description string, useForTimer bool) (*domain.Subject, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	s := domain.NewSubject(name, description)
	s.ID = m.id("subject")
	s.UseForTimer = useForTimer
	m.subjects = append(m.subjects, s)
	return &s, nil
}

func (m *mockStudyAPI) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	i := m.subjectIndex(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("subject", id)
	}
	s := m.subjects[i]
	return &s, nil
}

func (m *mockStudyAPI) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	return m.subjects, nil
}

func (m *mockStudyAPI) UpdateSubject(ctx context.Context, id string, update repository.SubjectUpdate) (*domain.Subject, error) {
	i := m.subjectIndex(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("subject", id)
	}
	if update.Name != nil {
		m.subjects[i].Name = *update.Name
	}
	if update.Description != nil {
		m.subjects[i].Description = *update.Description
	}
	if update.UseForTimer != nil {
		m.subjects[i].UseForTimer = *update.UseForTimer
	}
	s := m.subjects[i]
	return &s, nil
}

func (m *mockStudyAPI) DeleteSubject(ctx context.Context, id string) error {
	i := m.subjectIndex(id)
	if i < 0 {
		return errors.NewNotFoundError("subject", id)
	}
	m.subjects = append(m.subjects[:i], m.subjects[i+1:]...)
	delete(m.tasks, id)
	return nil
}

func (m *mockStudyAPI) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if m.subjectIndex(task.SubjectID) < 0 {
		return nil, errors.NewNotFoundError("subject", task.SubjectID)
	}
	task.ID = m.id("task")
	m.tasks[task.SubjectID] = append(m.tasks[task.SubjectID], task)
	return &task, nil
}

func (m *mockStudyAPI) ListTasks(ctx context.Context, subjectID string) ([]domain.Task, error) {
	if m.subjectIndex(subjectID) < 0 {
		return nil, errors.NewNotFoundError("subject", subjectID)
	}
	return m.tasks[subjectID], nil
}

func (m *mockStudyAPI) task(subjectID, taskID string) (*domain.Task, error) {
	for i := range m.tasks[subjectID] {
		if m.tasks[subjectID][i].ID == taskID {
			return &m.tasks[subjectID][i], nil
		}
	}
	return nil, errors.NewNotFoundError("task", taskID)
}

func (m *mockStudyAPI) UpdateTask(ctx context.Context, subjectID, taskID string, update repository.TaskUpdate) error {
	t, err := m.task(subjectID, taskID)
	if err != nil {
		return err
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Deadline != nil {
		t.Deadline = *update.Deadline
	}
	if update.DurationMinutes != nil {
		t.DurationMinutes = update.DurationMinutes
	}
	return nil
}

func (m *mockStudyAPI) ToggleTask(ctx context.Context, subjectID, taskID string) (*domain.Task, error) {
	t, err := m.task(subjectID, taskID)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	toggled := *t
	return &toggled, nil
}

func (m *mockStudyAPI) DeleteTask(ctx context.Context, subjectID, taskID string) error {
	for i, t := range m.tasks[subjectID] {
		if t.ID == taskID {
			m.tasks[subjectID] = append(m.tasks[subjectID][:i], m.tasks[subjectID][i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("task", taskID)
}

func (m *mockStudyAPI) CompleteFocus(ctx context.Context, subject string, totalSeconds int) (*domain.Session, error) {
	m.focusCalls = append(m.focusCalls, totalSeconds)
	if m.failWith != nil {
		return nil, m.failWith
	}
	if totalSeconds <= 0 {
		return nil, nil
	}
	s := domain.NewSession(subject, totalSeconds, testNow)
	m.sessions = append(m.sessions, s)
	return &s, nil
}

func (m *mockStudyAPI) LogSession(ctx context.Context, input services.SessionInput) (*domain.Session, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if input.Minutes == 0 && input.Seconds == 0 {
		return nil, errors.NewInvalidInputError("duration", "00:00", "must be greater than zero")
	}
	s := domain.NewSession(input.Subject, domain.ToSeconds(input.Minutes, input.Seconds), testNow)
	if input.Date != "" {
		s.Date = input.Date
	}
	m.sessions = append(m.sessions, s)
	return &s, nil
}

func (m *mockStudyAPI) ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	m.lastFilter = filter
	var out []domain.Session
	for _, s := range m.sessions {
		if filter.Matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudyAPI) GetReport(ctx context.Context, window analytics.Window, group analytics.GroupMode) (analytics.Report, error) {
	m.lastWindow, m.lastGroup = window, group
	if m.reportErr != nil {
		return analytics.Report{}, m.reportErr
	}
	report := m.report
	report.Window, report.Group = window, group
	return report, nil
}

func (m *mockStudyAPI) ListSubjectProgress(ctx context.Context) (active, completed []analytics.SubjectProgress, err error) {
	return m.report.Active, m.report.Completed, nil
}

func (m *mockStudyAPI) NewRefresher(window analytics.Window, group analytics.GroupMode) (*refresh.Refresher, func()) {
	r := refresh.New(func(ctx context.Context) (analytics.Report, error) {
		return m.GetReport(ctx, window, group)
	}, refresh.Options{Interval: -1})
	return r, func() {}
}

// testNow is the fixed clock of the CLI tests
var testNow = time.Date(2024, 1, 12, 15, 0, 0, 0, time.UTC)

// setupTestApp returns an App over a fresh mock API writing into a buffer
func setupTestApp(t *testing.T) (*App, *mockStudyAPI, *bytes.Buffer) {
	t.Helper()

	previous := timeNow
	timeNow = func() time.Time { return testNow }
	t.Cleanup(func() { timeNow = previous })

	mock := newMockStudyAPI()
	out := &bytes.Buffer{}
	app := NewAppWithOutput(mock, config.NewConfig(), out)
	return app, mock, out
}

// sampleReport is a small report with every section populated
func sampleReport() analytics.Report {
	return analytics.Report{
		GeneratedAt: testNow,
		Series: analytics.FocusSeries{
			Labels: []string{"Wed", "Thu", "Fri"},
			Values: []float64{0, 0.75, 1.5},
			Keys:   []string{"2024-01-10", "2024-01-11", "2024-01-12"},
		},
		Subjects: []analytics.SubjectPerformance{
			{SubjectID: "s1", Subject: "Math", Hours: 2.25, Sessions: 3, Tasks: 2, CompletedTasks: 1},
		},
		Tasks: analytics.TaskOverview{Completed: 1, Pending: 1},
		Summary: analytics.Summary{
			TotalSubjects: 1, TotalTasks: 2, CompletedTasks: 1,
			TotalSessions: 3, TotalFocusHours: 2.25,
		},
		Active: []analytics.SubjectProgress{{
			SubjectID: "s1", Name: "Math",
			TaskCompletion: analytics.TaskCompletion{Completed: 1, Total: 2, ProgressPercent: 50},
		}},
	}
}
