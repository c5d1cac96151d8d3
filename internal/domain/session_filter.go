package domain

// SessionFilter narrows a session listing. Date bounds are inclusive
// DateLayout strings; nil fields do not filter. Limit <= 0 returns all rows.
type SessionFilter struct {
	From    *string
	To      *string
	Subject *string
	Limit   int
}

// DateRange returns a filter for sessions dated between from and to inclusive.
func DateRange(from, to string) SessionFilter {
	return SessionFilter{From: &from, To: &to}
}

// Latest returns a filter for the newest n sessions.
func Latest(n int) SessionFilter {
	return SessionFilter{Limit: n}
}

// Matches reports whether a session passes the filter's field predicates.
// Limit is applied by the store, not here.
func (f SessionFilter) Matches(s Session) bool {
	if f.From != nil && s.Date < *f.From {
		return false
	}
	if f.To != nil && s.Date > *f.To {
		return false
	}
	if f.Subject != nil && s.Subject != *f.Subject {
		return false
	}
	return true
}
