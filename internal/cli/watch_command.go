package cli

import (
	"context"
	"fmt"

	"study-tracker/internal/api"
)

// clearScreen homes the cursor and clears the terminal
const clearScreen = "\033[H\033[2J"

// WatchCommand keeps the statistics on screen, re-rendering on every refresh
type WatchCommand struct {
	api api.StudyAPI
	app *App
	// clear is written before every report; empty when not a terminal
	clear string
}

// NewWatchCommand creates a new watch command handler
func NewWatchCommand(app *App) *WatchCommand {
	return &WatchCommand{api: app.api, app: app, clear: clearScreen}
}

// Run renders published reports until ctx is cancelled, then stops the
// refresher.
func (c *WatchCommand) Run(ctx context.Context, opts StatsOptions) error {
	stats := NewStatsCommand(c.app)
	window, group, err := stats.parse(opts)
	if err != nil {
		return err
	}

	refresher, unsubscribe := c.api.NewRefresher(window, group)
	reports := refresher.Subscribe()
	if err := refresher.Start(ctx); err != nil {
		unsubscribe()
		return c.app.errors.Handle("watch statistics", err)
	}
	defer func() {
		refresher.Stop()
		unsubscribe()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case report, ok := <-reports:
			if !ok {
				return nil
			}
			fmt.Fprint(c.app.out, c.clear)
			if err := writeReport(c.app.out, report); err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, mutedStyle.Render("Updated "+report.GeneratedAt.Format("15:04:05")+"  ctrl+c to exit"))
		}
	}
}
