package analytics

import (
	"time"

	"study-tracker/internal/domain"
)

// FocusSeries is a chart-ready list of buckets. Labels, Values and Keys are
// index aligned and never reordered after construction.
type FocusSeries struct {
	Labels []string  `json:"labels" yaml:"labels"`
	Values []float64 `json:"values" yaml:"values"`
	Keys   []string  `json:"keys" yaml:"keys"`
	// Skipped counts sessions whose date could not be parsed.
	Skipped int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Len returns the number of buckets.
func (f FocusSeries) Len() int {
	return len(f.Values)
}

// Total returns the sum of all bucket values.
func (f FocusSeries) Total() float64 {
	var total float64
	for _, v := range f.Values {
		total += v
	}
	return total
}

// ComputeFocusSeries buckets session hours over the trailing window ending at
// opts.Today. Every bucket is present even when no session falls into it.
// Sessions outside the window are ignored. GroupSubject is not a time
// grouping; it is treated as daily here, use ComputeSubjectSeries instead.
func ComputeFocusSeries(sessions []domain.Session, window Window, group GroupMode, opts Options) FocusSeries {
	if group != GroupWeekly {
		group = GroupDaily
	}
	b := buildBuckets(window, group, opts)

	series := FocusSeries{
		Labels: b.labels,
		Values: make([]float64, len(b.keys)),
		Keys:   b.keys,
	}

	loc := opts.Today.Location()
	if opts.Today.IsZero() {
		loc = time.Local
	}

	for _, s := range sessions {
		if _, ok := s.Day(loc); !ok {
			series.Skipped++
			continue
		}
		idx, ok := b.index[s.Date]
		if !ok {
			continue
		}
		series.Values[idx] += s.Hours()
	}

	return series
}

// ComputeSubjectSeries emits one bucket per subject holding its all-time
// hours, in subject order.
func ComputeSubjectSeries(sessions []domain.Session, subjects []domain.Subject) FocusSeries {
	agg := AggregateBySubject(sessions, subjects, nil)

	series := FocusSeries{
		Labels: make([]string, len(subjects)),
		Values: make([]float64, len(subjects)),
		Keys:   make([]string, len(subjects)),
	}
	for i, subject := range subjects {
		series.Labels[i] = subject.Name
		series.Keys[i] = subject.ID
		series.Values[i] = agg.Totals[i].Hours
	}
	return series
}
