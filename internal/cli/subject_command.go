package cli

import (
	"context"
	"fmt"

	"study-tracker/internal/api"
	"study-tracker/internal/repository"
)

// SubjectCommand handles the subject subcommands
type SubjectCommand struct {
	api api.StudyAPI
	app *App
}

// NewSubjectCommand creates a new subject command handler
func NewSubjectCommand(app *App) *SubjectCommand {
	return &SubjectCommand{api: app.api, app: app}
}

// SubjectEdit holds the optional fields of `subject edit`
type SubjectEdit struct {
	Name        *string
	Description *string
	UseForTimer *bool
}

// Add creates a subject
func (c *SubjectCommand) Add(ctx context.Context, name, description string, useForTimer bool) error {
	subject, err := c.api.CreateSubject(ctx, name, description, useForTimer)
	if err != nil {
		return c.app.errors.Handle("add subject", err)
	}
	fmt.Fprintf(c.app.out, "Added subject %s (%s)\n", subject.Name, subject.ID)
	return nil
}

// List prints all subjects
func (c *SubjectCommand) List(ctx context.Context) error {
	subjects, err := c.api.ListSubjects(ctx)
	if err != nil {
		return c.app.errors.Handle("list subjects", err)
	}
	if len(subjects) == 0 {
		fmt.Fprintln(c.app.out, "No subjects found")
		return nil
	}
	for _, s := range subjects {
		fmt.Fprintln(c.app.out, describeSubject(s))
	}
	return nil
}

// Edit applies a partial update to a subject
func (c *SubjectCommand) Edit(ctx context.Context, id string, edit SubjectEdit) error {
	subject, err := c.api.UpdateSubject(ctx, id, repository.SubjectUpdate{
		Name:        edit.Name,
		Description: edit.Description,
		UseForTimer: edit.UseForTimer,
	})
	if err != nil {
		return c.app.errors.Handle("edit subject", err)
	}
	fmt.Fprintln(c.app.out, describeSubject(*subject))
	return nil
}

// Delete removes a subject and its tasks
func (c *SubjectCommand) Delete(ctx context.Context, id string) error {
	subject, err := c.api.GetSubject(ctx, id)
	if err != nil {
		return c.app.errors.Handle("delete subject", err)
	}
	if err := c.api.DeleteSubject(ctx, id); err != nil {
		return c.app.errors.Handle("delete subject", err)
	}
	fmt.Fprintf(c.app.out, "Deleted subject %s and its tasks\n", subject.Name)
	return nil
}
