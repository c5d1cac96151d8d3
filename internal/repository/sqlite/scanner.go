package sqlite

import (
	"study-tracker/internal/domain"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

const (
	subjectColumns = `id, name, description, use_for_timer, created_at`
	taskColumns    = `id, subject_id, title, description, deadline, deadline_time, completed, status, duration_minutes, created_at`
	sessionColumns = `id, subject, duration_minutes, duration_seconds, date, timestamp`
)

// ScanSubject scans a single subject row
func ScanSubject(scanner Scanner) (*domain.Subject, error) {
	var row subjectRow
	if err := scanner.Scan(&row.ID, &row.Name, &row.Description, &row.UseForTimer, &row.CreatedAt); err != nil {
		return nil, err
	}
	subject := row.toDomain()
	return &subject, nil
}

// ScanTask scans a single task row, folding the status column into Completed
func ScanTask(scanner Scanner) (*domain.Task, error) {
	var row taskRow
	err := scanner.Scan(
		&row.ID,
		&row.SubjectID,
		&row.Title,
		&row.Description,
		&row.Deadline,
		&row.Time,
		&row.Completed,
		&row.Status,
		&row.DurationMinutes,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	task := row.toDomain()
	return &task, nil
}

// ScanSession scans a single session row
func ScanSession(scanner Scanner) (*domain.Session, error) {
	var row sessionRow
	err := scanner.Scan(
		&row.ID,
		&row.Subject,
		&row.DurationMinutes,
		&row.DurationSeconds,
		&row.Date,
		&row.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	session := row.toDomain()
	return &session, nil
}

// ScanAll drains rows with scan. The result is empty, never nil.
func ScanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	results := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// values dereferences scanned rows
func values[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}
