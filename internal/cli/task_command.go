package cli

import (
	"context"
	"fmt"

	"study-tracker/internal/api"
	"study-tracker/internal/domain"
	"study-tracker/internal/repository"
)

// TaskCommand handles the task subcommands
type TaskCommand struct {
	api api.StudyAPI
	app *App
}

// NewTaskCommand creates a new task command handler
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{api: app.api, app: app}
}

// TaskFields holds the optional task attributes set from flags
type TaskFields struct {
	Title       *string
	Description *string
	Deadline    *string
	Time        *string
	Estimate    *int
}

// Add creates a task under a subject
func (c *TaskCommand) Add(ctx context.Context, subjectID, title string, fields TaskFields) error {
	task := domain.NewTask(subjectID, title)
	if fields.Description != nil {
		task.Description = *fields.Description
	}
	if fields.Deadline != nil {
		task.Deadline = *fields.Deadline
	}
	if fields.Time != nil {
		task.Time = *fields.Time
	}
	task.DurationMinutes = fields.Estimate

	created, err := c.api.CreateTask(ctx, task)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}
	fmt.Fprintf(c.app.out, "Added task %s (%s)\n", created.Title, created.ID)
	return nil
}

// List prints a subject's tasks with its completion
func (c *TaskCommand) List(ctx context.Context, subjectID string) error {
	tasks, err := c.api.ListTasks(ctx, subjectID)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		return nil
	}

	now := timeNow()
	for _, t := range tasks {
		fmt.Fprintln(c.app.out, describeTask(t, now))
	}

	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(c.app.out, "%d/%d completed\n", done, len(tasks))
	return nil
}

// Toggle flips a task between pending and completed
func (c *TaskCommand) Toggle(ctx context.Context, subjectID, taskID string) error {
	task, err := c.api.ToggleTask(ctx, subjectID, taskID)
	if err != nil {
		return c.app.errors.Handle("toggle task", err)
	}
	fmt.Fprintf(c.app.out, "Task %s is now %s\n", task.Title, task.Status())
	return nil
}

// Edit applies a partial update to a task
func (c *TaskCommand) Edit(ctx context.Context, subjectID, taskID string, fields TaskFields) error {
	update := repository.TaskUpdate{
		Title:           fields.Title,
		Description:     fields.Description,
		Deadline:        fields.Deadline,
		Time:            fields.Time,
		DurationMinutes: fields.Estimate,
	}
	if err := c.api.UpdateTask(ctx, subjectID, taskID, update); err != nil {
		return c.app.errors.Handle("edit task", err)
	}
	fmt.Fprintf(c.app.out, "Updated task %s\n", taskID)
	return nil
}

// Delete removes a task
func (c *TaskCommand) Delete(ctx context.Context, subjectID, taskID string) error {
	if err := c.api.DeleteTask(ctx, subjectID, taskID); err != nil {
		return c.app.errors.Handle("delete task", err)
	}
	fmt.Fprintf(c.app.out, "Deleted task %s\n", taskID)
	return nil
}
