package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/domain"
	"study-tracker/internal/errors"
	"study-tracker/internal/repository"
)

func createSubject(t *testing.T, services *ServiceContainer, name string) *domain.Subject {
	t.Helper()
	subject, err := services.SubjectService.CreateSubject(context.Background(), name, "", false)
	require.NoError(t, err)
	return subject
}

func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name    string
		task    func(subjectID string) domain.Task
		wantErr errors.ErrorType
		valid   bool
	}{
		{
			name:  "should create task",
			task:  func(id string) domain.Task { return domain.NewTask(id, "Exercises") },
			valid: true,
		},
		{
			name: "should create task with schedule",
			task: func(id string) domain.Task {
				task := domain.NewTask(id, "Essay")
				task.Deadline = "2024-01-20"
				task.Time = "18:30"
				task.DurationMinutes = intPtr(90)
				return task
			},
			valid: true,
		},
		{
			name:    "should reject empty title",
			task:    func(id string) domain.Task { return domain.NewTask(id, "  ") },
			wantErr: errors.ErrorTypeValidation,
		},
		{
			name: "should reject bad deadline",
			task: func(id string) domain.Task {
				task := domain.NewTask(id, "Essay")
				task.Deadline = "20-01-2024"
				return task
			},
			wantErr: errors.ErrorTypeValidation,
		},
		{
			name: "should reject time without deadline",
			task: func(id string) domain.Task {
				task := domain.NewTask(id, "Essay")
				task.Time = "18:30"
				return task
			},
			wantErr: errors.ErrorTypeValidation,
		},
		{
			name:    "should reject unknown subject",
			task:    func(string) domain.Task { return domain.NewTask("missing", "Essay") },
			wantErr: errors.ErrorTypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, _, _ := setupServices(t)
			subject := createSubject(t, services, "Math")

			got, err := services.TaskService.CreateTask(context.Background(), tt.task(subject.ID))
			if !tt.valid {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, tt.wantErr))
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.False(t, got.Completed)

			tasks, err := services.TaskService.ListTasks(context.Background(), subject.ID)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, got.ID, tasks[0].ID)
			assert.Equal(t, got.Deadline, tasks[0].Deadline)
			assert.Equal(t, got.Time, tasks[0].Time)
		})
	}
}

func TestTaskService_ToggleTask(t *testing.T) {
	services, _, _ := setupServices(t)
	ctx := context.Background()
	subject := createSubject(t, services, "Math")

	task, err := services.TaskService.CreateTask(ctx, domain.NewTask(subject.ID, "Exercises"))
	require.NoError(t, err)
	before := services.Changes.Count()

	toggled, err := services.TaskService.ToggleTask(ctx, subject.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, domain.StatusCompleted, toggled.Status())
	assert.Equal(t, before+1, services.Changes.Count())

	tasks, err := services.TaskService.ListTasks(ctx, subject.ID)
	require.NoError(t, err)
	assert.True(t, tasks[0].Completed)

	toggled, err = services.TaskService.ToggleTask(ctx, subject.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = services.TaskService.ToggleTask(ctx, subject.ID, "missing")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_UpdateTask(t *testing.T) {
	services, _, _ := setupServices(t)
	ctx := context.Background()
	subject := createSubject(t, services, "Math")

	task := domain.NewTask(subject.ID, "Exercises")
	task.Deadline = "2024-01-20"
	created, err := services.TaskService.CreateTask(ctx, task)
	require.NoError(t, err)

	tests := []struct {
		name    string
		update  repository.TaskUpdate
		wantErr bool
		errType errors.ErrorType
	}{
		{name: "title", update: repository.TaskUpdate{Title: strPtr(" Chapter 3 ")}},
		{name: "time against stored deadline", update: repository.TaskUpdate{Time: strPtr("09:15")}},
		{name: "estimate", update: repository.TaskUpdate{DurationMinutes: intPtr(45)}},
		{name: "empty update", update: repository.TaskUpdate{}, wantErr: true, errType: errors.ErrorTypeInvalidInput},
		{name: "blank title", update: repository.TaskUpdate{Title: strPtr(" ")}, wantErr: true, errType: errors.ErrorTypeValidation},
		{name: "bad clock", update: repository.TaskUpdate{Time: strPtr("25:00")}, wantErr: true, errType: errors.ErrorTypeValidation},
		{name: "negative estimate", update: repository.TaskUpdate{DurationMinutes: intPtr(-5)}, wantErr: true, errType: errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.TaskService.UpdateTask(ctx, subject.ID, created.ID, tt.update)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, tt.errType))
				return
			}
			require.NoError(t, err)
		})
	}

	tasks, err := services.TaskService.ListTasks(ctx, subject.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Chapter 3", tasks[0].Title)
	assert.Equal(t, "09:15", tasks[0].Time)
	require.NotNil(t, tasks[0].DurationMinutes)
	assert.Equal(t, 45, *tasks[0].DurationMinutes)
}

func TestTaskService_DeleteTask(t *testing.T) {
	services, _, _ := setupServices(t)
	ctx := context.Background()
	subject := createSubject(t, services, "Math")

	task, err := services.TaskService.CreateTask(ctx, domain.NewTask(subject.ID, "Exercises"))
	require.NoError(t, err)

	require.NoError(t, services.TaskService.DeleteTask(ctx, subject.ID, task.ID))
	err = services.TaskService.DeleteTask(ctx, subject.ID, task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = services.TaskService.ListTasks(ctx, "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}
