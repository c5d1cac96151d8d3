package cli

import (
	"context"
	"fmt"

	"study-tracker/internal/api"
	"study-tracker/internal/domain"
	"study-tracker/internal/services"
)

// SessionCommand handles the session subcommands
type SessionCommand struct {
	api api.StudyAPI
	app *App
}

// NewSessionCommand creates a new session command handler
func NewSessionCommand(app *App) *SessionCommand {
	return &SessionCommand{api: app.api, app: app}
}

// Log records a session entered by hand
func (c *SessionCommand) Log(ctx context.Context, input services.SessionInput) error {
	session, err := c.api.LogSession(ctx, input)
	if err != nil {
		return c.app.errors.Handle("log session", err)
	}
	fmt.Fprintf(c.app.out, "Logged %s of %s on %s\n",
		domain.FormatClock(session.TotalSeconds()), session.Subject, session.Date)
	return nil
}

// List prints sessions matching filter, newest first, with their total
func (c *SessionCommand) List(ctx context.Context, filter domain.SessionFilter) error {
	sessions, err := c.api.ListSessions(ctx, filter)
	if err != nil {
		return c.app.errors.Handle("list sessions", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(c.app.out, "No sessions found")
		return nil
	}

	hours := 0.0
	for _, s := range sessions {
		fmt.Fprintln(c.app.out, describeSession(s))
		hours += s.Hours()
	}
	fmt.Fprintf(c.app.out, "%d session(s), %s total\n", len(sessions), formatHours(hours))
	return nil
}
