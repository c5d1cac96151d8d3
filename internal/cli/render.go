package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"study-tracker/internal/analytics"
	"study-tracker/internal/domain"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A90E2"))

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

// formatHours renders hours with one decimal
func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// bar draws a horizontal bar scaled against peak
func bar(value, peak float64) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := int(value / peak * barWidth)
	if n == 0 {
		n = 1
	}
	return barStyle.Render(strings.Repeat("█", n))
}

func renderSummary(s analytics.Summary) string {
	lines := []string{
		fmt.Sprintf("Sessions     %d", s.TotalSessions),
		fmt.Sprintf("Focus time   %s", formatHours(s.TotalFocusHours)),
		fmt.Sprintf("Tasks        %d/%d completed", s.CompletedTasks, s.TotalTasks),
		fmt.Sprintf("Subjects     %d/%d completed", s.CompletedSubjects, s.TotalSubjects),
	}
	if s.TotalFocusMinutes > 0 {
		lines = append(lines, fmt.Sprintf("Planned      %dm", s.TotalFocusMinutes))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderSeries(series analytics.FocusSeries) string {
	var b strings.Builder
	peak := 0.0
	width := 0
	for i, v := range series.Values {
		if v > peak {
			peak = v
		}
		if w := len(series.Labels[i]); w > width {
			width = w
		}
	}
	for i, label := range series.Labels {
		v := series.Values[i]
		fmt.Fprintf(&b, "%-*s %6s %s\n", width, label, formatHours(v), bar(v, peak))
	}
	if series.Skipped > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d session(s) with unreadable dates ignored", series.Skipped)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderSubjects(rows []analytics.SubjectPerformance) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No subjects yet") + "\n"
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-20s %6s %3d sessions  %d/%d tasks\n",
			r.Subject, formatHours(r.Hours), r.Sessions, r.CompletedTasks, r.Tasks)
	}
	return b.String()
}

func renderProgress(items []analytics.SubjectProgress) string {
	var b strings.Builder
	for _, p := range items {
		line := fmt.Sprintf("%-20s %3.0f%%  %d/%d", p.Name, p.ProgressPercent, p.Completed, p.Total)
		switch {
		case p.Done:
			line = doneStyle.Render(line + "  done")
		case p.Overdue > 0:
			line += overdueStyle.Render(fmt.Sprintf("  %d overdue", p.Overdue))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// writeReport renders the full report as text
func writeReport(w io.Writer, report analytics.Report) error {
	var b strings.Builder

	title := fmt.Sprintf("Study statistics (%d days, %s)", report.Window.Days(), report.Group)
	if report.Group == analytics.GroupSubject {
		title = "Study statistics (by subject)"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(renderSummary(report.Summary) + "\n\n")

	b.WriteString(headerStyle.Render("Focus hours") + "\n")
	b.WriteString(renderSeries(report.Series) + "\n")

	b.WriteString(headerStyle.Render("Subjects") + "\n")
	b.WriteString(renderSubjects(report.Subjects))

	if len(report.Active) > 0 {
		b.WriteString("\n" + headerStyle.Render("In progress") + "\n")
		b.WriteString(renderProgress(report.Active))
	}
	if len(report.Completed) > 0 {
		b.WriteString("\n" + headerStyle.Render("Completed") + "\n")
		b.WriteString(renderProgress(report.Completed))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func describeSubject(s domain.Subject) string {
	line := fmt.Sprintf("%s  %s", mutedStyle.Render(s.ID), s.Name)
	if s.UseForTimer {
		line += "  [timer]"
	}
	if s.Description != "" {
		line += mutedStyle.Render("  " + s.Description)
	}
	return line
}

func describeTask(t domain.Task, now time.Time) string {
	mark := "[ ]"
	if t.Completed {
		mark = doneStyle.Render("[x]")
	}
	line := fmt.Sprintf("%s %s  %s", mark, mutedStyle.Render(t.ID), t.Title)
	if t.Deadline != "" {
		due := "due " + strings.TrimSpace(t.Deadline+" "+t.Time)
		if t.IsOverdue(now) {
			due = overdueStyle.Render(due + " (overdue)")
		}
		line += "  " + due
	}
	if t.DurationMinutes != nil {
		line += fmt.Sprintf("  ~%dm", t.EstimateMinutes())
	}
	return line
}

func describeSession(s domain.Session) string {
	return fmt.Sprintf("%s  %s  %-20s %s",
		s.Date, mutedStyle.Render(s.Timestamp.Format("15:04")), s.Subject,
		domain.FormatClock(s.TotalSeconds()))
}
