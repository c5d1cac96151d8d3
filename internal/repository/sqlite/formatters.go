package sqlite

import (
	"database/sql"
	"time"
)

// timestampLayout is fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimeForDB formats t in UTC with a fixed-width RFC3339 layout
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimeFromDB parses a stored timestamp
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// parseStoredTime parses a stored timestamp, yielding the zero time for
// values that do not parse
func parseStoredTime(s string) time.Time {
	t, err := ParseTimeFromDB(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString stores empty strings as NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt stores a nil pointer as NULL
func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
