package analytics

import (
	"time"

	"study-tracker/internal/domain"
)

// TaskCompletion summarizes the tasks of one subject.
type TaskCompletion struct {
	Completed       int     `json:"completed" yaml:"completed"`
	Total           int     `json:"total" yaml:"total"`
	ProgressPercent float64 `json:"progressPercent" yaml:"progressPercent"`
}

// CompletionOf counts completed tasks. ProgressPercent is 0 for no tasks.
func CompletionOf(tasks []domain.Task) TaskCompletion {
	c := TaskCompletion{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	if c.Total > 0 {
		c.ProgressPercent = float64(c.Completed) / float64(c.Total) * 100
	}
	return c
}

// IsDone reports whether there is at least one task and all are completed.
func (c TaskCompletion) IsDone() bool {
	return c.Total > 0 && c.Completed == c.Total
}

// IsSubjectCompleted reports whether a subject with these tasks is fully
// completed. An empty task list is never completed.
func IsSubjectCompleted(tasks []domain.Task) bool {
	return CompletionOf(tasks).IsDone()
}

// CountOverdue counts open tasks whose deadline is before now.
func CountOverdue(tasks []domain.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.IsOverdue(now) {
			n++
		}
	}
	return n
}

// SubjectProgress is the completion state of a single subject.
type SubjectProgress struct {
	SubjectID string `json:"subjectId" yaml:"subjectId"`
	Name      string `json:"name" yaml:"name"`

	TaskCompletion `yaml:",inline"`

	Overdue int  `json:"overdue" yaml:"overdue"`
	Done    bool `json:"done" yaml:"done"`
}

// ProgressOf builds the progress row for one subject.
func ProgressOf(subject domain.Subject, tasks []domain.Task, now time.Time) SubjectProgress {
	c := CompletionOf(tasks)
	p := SubjectProgress{
		SubjectID:      subject.ID,
		Name:           subject.Name,
		TaskCompletion: c,
		Done:           c.IsDone(),
	}
	if !now.IsZero() {
		p.Overdue = CountOverdue(tasks, now)
	}
	return p
}

// ClassifySubjects splits subjects into active and fully completed ones,
// preserving input order within each group.
func ClassifySubjects(subjects []domain.Subject, tasksBySubject map[string][]domain.Task, now time.Time) (active, completed []SubjectProgress) {
	active = []SubjectProgress{}
	completed = []SubjectProgress{}
	for _, s := range subjects {
		p := ProgressOf(s, tasksBySubject[s.ID], now)
		if p.Done {
			completed = append(completed, p)
		} else {
			active = append(active, p)
		}
	}
	return active, completed
}
