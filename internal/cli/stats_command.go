package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"study-tracker/internal/analytics"
	"study-tracker/internal/api"
)

// Output formats accepted by `st stats`
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// StatsOptions selects the report and how it is printed
type StatsOptions struct {
	Window string
	Group  string
	Format string
}

// StatsCommand prints the statistics report
type StatsCommand struct {
	api api.StudyAPI
	app *App
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{api: app.api, app: app}
}

// Show computes the report and writes it in the requested format
func (c *StatsCommand) Show(ctx context.Context, opts StatsOptions) error {
	window, group, err := c.parse(opts)
	if err != nil {
		return err
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatText
	}
	write, ok := reportWriters[format]
	if !ok {
		return fmt.Errorf("unknown format %q (want text, json, yaml or csv)", opts.Format)
	}

	report, err := c.api.GetReport(ctx, window, group)
	if err != nil {
		return c.app.errors.Handle("compute statistics", err)
	}
	return write(c.app.out, report)
}

func (c *StatsCommand) parse(opts StatsOptions) (analytics.Window, analytics.GroupMode, error) {
	windowName := opts.Window
	if windowName == "" {
		windowName = c.app.config.Stats.DefaultWindow
	}
	window, err := analytics.ParseWindow(windowName)
	if err != nil {
		return "", "", err
	}

	groupName := opts.Group
	if groupName == "" {
		groupName = c.app.config.Stats.DefaultGroup
	}
	group, err := analytics.ParseGroupMode(groupName)
	if err != nil {
		return "", "", err
	}
	return window, group, nil
}

var reportWriters = map[string]func(io.Writer, analytics.Report) error{
	FormatText: writeReport,
	FormatJSON: writeReportJSON,
	FormatYAML: writeReportYAML,
	FormatCSV:  writeReportCSV,
}

func writeReportJSON(w io.Writer, report analytics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeReportYAML(w io.Writer, report analytics.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// writeReportCSV flattens the report into section,name,value,... rows
func writeReportCSV(w io.Writer, report analytics.Report) error {
	cw := csv.NewWriter(w)
	hours := func(h float64) string { return strconv.FormatFloat(h, 'f', 2, 64) }

	rows := [][]string{{"section", "name", "hours", "sessions", "tasks", "completed_tasks"}}
	for i, label := range report.Series.Labels {
		rows = append(rows, []string{"series", label, hours(report.Series.Values[i]), "", "", ""})
	}
	for _, r := range report.Subjects {
		rows = append(rows, []string{"subject", r.Subject, hours(r.Hours),
			strconv.Itoa(r.Sessions), strconv.Itoa(r.Tasks), strconv.Itoa(r.CompletedTasks)})
	}
	s := report.Summary
	rows = append(rows, []string{"summary", "total", hours(s.TotalFocusHours),
		strconv.Itoa(s.TotalSessions), strconv.Itoa(s.TotalTasks), strconv.Itoa(s.CompletedTasks)})

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
