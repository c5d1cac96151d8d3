package analytics

import (
	"study-tracker/internal/domain"
)

// SubjectResolver maps a session's subject label to an index into the
// subject list it was built from.
type SubjectResolver interface {
	Resolve(label string) (int, bool)
}

type nameResolver map[string]int

// NewNameResolver matches labels to subjects by exact name. When names
// repeat, the first subject in input order wins.
func NewNameResolver(subjects []domain.Subject) SubjectResolver {
	r := make(nameResolver, len(subjects))
	for i, s := range subjects {
		if _, exists := r[s.Name]; !exists {
			r[s.Name] = i
		}
	}
	return r
}

func (r nameResolver) Resolve(label string) (int, bool) {
	idx, ok := r[label]
	return idx, ok
}

// SubjectTotals is the all-time focus time attributed to one subject.
type SubjectTotals struct {
	Hours    float64 `json:"hours" yaml:"hours"`
	Sessions int     `json:"sessions" yaml:"sessions"`
}

// SubjectAggregate holds per-subject totals aligned with the subject list,
// plus totals for labels that matched no subject.
type SubjectAggregate struct {
	Totals    []SubjectTotals
	Unmatched map[string]SubjectTotals
}

// AggregateBySubject sums session hours and counts per subject. A nil
// resolver uses NewNameResolver. Unmatched sessions never reach Totals.
func AggregateBySubject(sessions []domain.Session, subjects []domain.Subject, resolver SubjectResolver) SubjectAggregate {
	if resolver == nil {
		resolver = NewNameResolver(subjects)
	}

	agg := SubjectAggregate{
		Totals:    make([]SubjectTotals, len(subjects)),
		Unmatched: make(map[string]SubjectTotals),
	}

	for _, s := range sessions {
		idx, ok := resolver.Resolve(s.Subject)
		if !ok || idx < 0 || idx >= len(subjects) {
			u := agg.Unmatched[s.Subject]
			u.Hours += s.Hours()
			u.Sessions++
			agg.Unmatched[s.Subject] = u
			continue
		}
		agg.Totals[idx].Hours += s.Hours()
		agg.Totals[idx].Sessions++
	}

	return agg
}
