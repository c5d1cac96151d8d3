package services

import (
	"context"
	"strings"

	"study-tracker/internal/domain"
	"study-tracker/internal/errors"
	"study-tracker/internal/repository"
	"study-tracker/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	*base
	validator *validation.TaskValidator
	subjects  *validation.SubjectValidator
}

// CreateTask validates and stores a task under an existing subject
func (t *taskServiceImpl) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	task.Description = strings.TrimSpace(task.Description)
	task.CreatedAt = t.now()

	if err := t.validator.ValidateTask(task); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	ctx, cancel := t.writeContext(ctx)
	defer cancel()

	id, err := t.store.CreateTask(ctx, t.userID, task)
	if err != nil {
		return nil, err
	}
	task.ID = id

	t.logger.Info("task created", "id", id, "subject", task.SubjectID)
	t.changes.Notify()
	return &task, nil
}

// ListTasks returns the tasks of a subject, newest first
func (t *taskServiceImpl) ListTasks(ctx context.Context, subjectID string) ([]domain.Task, error) {
	if err := t.subjects.ValidateSubjectID(subjectID); err != nil {
		return nil, errors.NewValidationError("invalid subject ID", err)
	}

	ctx, cancel := t.readContext(ctx)
	defer cancel()
	return t.store.ListTasks(ctx, t.userID, subjectID)
}

// UpdateTask validates and applies a partial update
func (t *taskServiceImpl) UpdateTask(ctx context.Context, subjectID, taskID string, update repository.TaskUpdate) error {
	if err := t.validator.ValidateTaskID(taskID); err != nil {
		return errors.NewValidationError("invalid task ID", err)
	}
	if update.IsEmpty() {
		return errors.NewInvalidInputError("update", "", "nothing to change")
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if err := t.validator.ValidateTitle(title); err != nil {
			return errors.NewValidationError("invalid task title", err)
		}
		update.Title = &title
	}
	if update.Deadline != nil || update.Time != nil || update.DurationMinutes != nil {
		var deadline, clock string
		if update.Deadline != nil {
			deadline = *update.Deadline
		}
		if update.Time != nil {
			clock = *update.Time
		}
		// a time-only change is checked against the stored deadline date
		if update.Deadline == nil && clock != "" {
			current, err := t.find(ctx, subjectID, taskID)
			if err != nil {
				return err
			}
			deadline = current.Deadline
		}
		if err := t.validator.ValidateSchedule(deadline, clock, update.DurationMinutes); err != nil {
			return errors.NewValidationError("invalid task schedule", err)
		}
	}

	ctx, cancel := t.writeContext(ctx)
	defer cancel()

	if err := t.store.UpdateTask(ctx, t.userID, subjectID, taskID, update); err != nil {
		return err
	}
	t.changes.Notify()
	return nil
}

// ToggleTask flips a task between pending and completed
func (t *taskServiceImpl) ToggleTask(ctx context.Context, subjectID, taskID string) (*domain.Task, error) {
	if err := t.validator.ValidateTaskID(taskID); err != nil {
		return nil, errors.NewValidationError("invalid task ID", err)
	}

	task, err := t.find(ctx, subjectID, taskID)
	if err != nil {
		return nil, err
	}

	completed := !task.Completed
	writeCtx, cancel := t.writeContext(ctx)
	defer cancel()

	if err := t.store.UpdateTask(writeCtx, t.userID, subjectID, taskID, repository.TaskUpdate{Completed: &completed}); err != nil {
		return nil, err
	}
	task.Completed = completed

	t.logger.Info("task toggled", "id", taskID, "status", task.Status())
	t.changes.Notify()
	return task, nil
}

// DeleteTask removes a task
func (t *taskServiceImpl) DeleteTask(ctx context.Context, subjectID, taskID string) error {
	if err := t.validator.ValidateTaskID(taskID); err != nil {
		return errors.NewValidationError("invalid task ID", err)
	}

	ctx, cancel := t.writeContext(ctx)
	defer cancel()

	if err := t.store.DeleteTask(ctx, t.userID, subjectID, taskID); err != nil {
		return err
	}
	t.changes.Notify()
	return nil
}

// find looks a task up among its subject's tasks
func (t *taskServiceImpl) find(ctx context.Context, subjectID, taskID string) (*domain.Task, error) {
	tasks, err := t.ListTasks(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], nil
		}
	}
	return nil, errors.NewNotFoundError("task", taskID)
}
