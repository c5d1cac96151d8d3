package analytics

import (
	"time"

	"study-tracker/internal/domain"
)

// SubjectPerformance is one row of the per-subject table.
type SubjectPerformance struct {
	SubjectID      string  `json:"subjectId" yaml:"subjectId"`
	Subject        string  `json:"subject" yaml:"subject"`
	Hours          float64 `json:"hours" yaml:"hours"`
	Sessions       int     `json:"sessions" yaml:"sessions"`
	Tasks          int     `json:"tasks" yaml:"tasks"`
	CompletedTasks int     `json:"completedTasks" yaml:"completedTasks"`
}

// ComputeSubjectPerformance returns one row per subject, in subject order.
// Session totals come from the name join; task counts come from the tasks
// keyed by subject ID.
func ComputeSubjectPerformance(sessions []domain.Session, subjects []domain.Subject, tasksBySubject map[string][]domain.Task) []SubjectPerformance {
	agg := AggregateBySubject(sessions, subjects, nil)

	rows := make([]SubjectPerformance, len(subjects))
	for i, s := range subjects {
		c := CompletionOf(tasksBySubject[s.ID])
		rows[i] = SubjectPerformance{
			SubjectID:      s.ID,
			Subject:        s.Name,
			Hours:          agg.Totals[i].Hours,
			Sessions:       agg.Totals[i].Sessions,
			Tasks:          c.Total,
			CompletedTasks: c.Completed,
		}
	}
	return rows
}

// TaskOverview is the completed/pending split across all subjects.
type TaskOverview struct {
	Completed int `json:"completed" yaml:"completed"`
	Pending   int `json:"pending" yaml:"pending"`
}

// Total returns Completed + Pending.
func (o TaskOverview) Total() int {
	return o.Completed + o.Pending
}

// ComputeTaskOverview counts the tasks of the listed subjects. Pending is
// everything not completed. Tasks keyed by an unlisted subject are ignored,
// matching ComputeDashboardSummary.
func ComputeTaskOverview(subjects []domain.Subject, tasksBySubject map[string][]domain.Task) TaskOverview {
	var o TaskOverview
	for _, s := range subjects {
		c := CompletionOf(tasksBySubject[s.ID])
		o.Completed += c.Completed
		o.Pending += c.Total - c.Completed
	}
	return o
}

// Summary backs the dashboard header cards.
type Summary struct {
	TotalSubjects     int `json:"totalSubjects" yaml:"totalSubjects"`
	CompletedSubjects int `json:"completedSubjects" yaml:"completedSubjects"`
	TotalTasks        int `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks    int `json:"completedTasks" yaml:"completedTasks"`
	// TotalFocusMinutes sums the planning estimates of all tasks.
	TotalFocusMinutes int `json:"totalFocusMinutes" yaml:"totalFocusMinutes"`
	TotalSessions     int `json:"totalSessions" yaml:"totalSessions"`
	// TotalFocusHours sums the recorded time of all sessions.
	TotalFocusHours float64 `json:"totalFocusHours" yaml:"totalFocusHours"`
}

// ComputeDashboardSummary totals tasks per subject so that the completed
// and total task counts always equal the sums of the per-subject rows.
func ComputeDashboardSummary(subjects []domain.Subject, tasksBySubject map[string][]domain.Task, sessions []domain.Session) Summary {
	sum := Summary{
		TotalSubjects: len(subjects),
		TotalSessions: len(sessions),
	}

	for _, s := range subjects {
		tasks := tasksBySubject[s.ID]
		c := CompletionOf(tasks)
		sum.TotalTasks += c.Total
		sum.CompletedTasks += c.Completed
		if c.IsDone() {
			sum.CompletedSubjects++
		}
		for _, t := range tasks {
			sum.TotalFocusMinutes += t.EstimateMinutes()
		}
	}

	for _, s := range sessions {
		sum.TotalFocusHours += s.Hours()
	}

	return sum
}

// Snapshot is everything the composer reads, loaded in one refresh.
type Snapshot struct {
	Subjects []domain.Subject
	// Tasks is keyed by subject ID.
	Tasks    map[string][]domain.Task
	Sessions []domain.Session
}

// Report bundles every statistics view derived from one Snapshot.
type Report struct {
	GeneratedAt time.Time            `json:"generatedAt" yaml:"generatedAt"`
	Window      Window               `json:"window" yaml:"window"`
	Group       GroupMode            `json:"group" yaml:"group"`
	Series      FocusSeries          `json:"series" yaml:"series"`
	Subjects    []SubjectPerformance `json:"subjects" yaml:"subjects"`
	Tasks       TaskOverview         `json:"tasks" yaml:"tasks"`
	Summary     Summary              `json:"summary" yaml:"summary"`
	Active      []SubjectProgress    `json:"active" yaml:"active"`
	Completed   []SubjectProgress    `json:"completed" yaml:"completed"`
}

// Compose derives a full Report from a snapshot. GeneratedAt is opts.Today.
func Compose(snap Snapshot, window Window, group GroupMode, opts Options) Report {
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}

	var series FocusSeries
	if group == GroupSubject {
		series = ComputeSubjectSeries(snap.Sessions, snap.Subjects)
	} else {
		series = ComputeFocusSeries(snap.Sessions, window, group, opts)
	}

	active, completed := ClassifySubjects(snap.Subjects, snap.Tasks, opts.Today)

	return Report{
		GeneratedAt: opts.Today,
		Window:      window,
		Group:       group,
		Series:      series,
		Subjects:    ComputeSubjectPerformance(snap.Sessions, snap.Subjects, snap.Tasks),
		Tasks:       ComputeTaskOverview(snap.Subjects, snap.Tasks),
		Summary:     ComputeDashboardSummary(snap.Subjects, snap.Tasks, snap.Sessions),
		Active:      active,
		Completed:   completed,
	}
}
