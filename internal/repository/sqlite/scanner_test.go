package sqlite

import (
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/domain"
)

// fakeRows replays canned rows through the Rows interface
type fakeRows struct {
	data [][]any
	pos  int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.data) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.pos-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *bool:
			*p = row[i].(bool)
		case *sql.NullString:
			*p = row[i].(sql.NullString)
		case *sql.NullInt64:
			*p = row[i].(sql.NullInt64)
		default:
			return stderrors.New("unsupported destination")
		}
	}
	return nil
}

func (f *fakeRows) Err() error { return f.err }

func TestScanTask_FoldsStatus(t *testing.T) {
	created := FormatTimeForDB(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rows := &fakeRows{data: [][]any{
		{"t1", "s1", "Read", "", sql.NullString{}, sql.NullString{}, false, "completed", sql.NullInt64{}, created},
		{"t2", "s1", "Write", "", sql.NullString{String: "2024-02-01", Valid: true}, sql.NullString{}, false, "pending", sql.NullInt64{Int64: 20, Valid: true}, created},
	}}

	tasks, err := ScanAll(rows, ScanTask)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[1].Completed)
	assert.Equal(t, "2024-02-01", tasks[1].Deadline)
	assert.Equal(t, 20, tasks[1].EstimateMinutes())
}

func TestScanSession_BadTimestampKeepsRow(t *testing.T) {
	rows := &fakeRows{data: [][]any{
		{"s1", "Math", 25, 0, "2024-01-10", "yesterday"},
		{"s2", "Math", 10, 30, "2024-01-11", "2024-01-11T09:00:00.000000000Z"},
	}}

	sessions, err := ScanAll(rows, ScanSession)

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].Timestamp.IsZero())
	assert.Equal(t, 25, sessions[0].DurationMinutes)
	assert.Equal(t, "2024-01-10", sessions[0].Date)
	assert.False(t, sessions[1].Timestamp.IsZero())
}

func TestScanAll_EmptyIsNotNil(t *testing.T) {
	subjects, err := ScanAll(&fakeRows{}, ScanSubject)

	require.NoError(t, err)
	assert.NotNil(t, subjects)
	assert.Empty(t, values(subjects))
}

func TestScanAll_RowsError(t *testing.T) {
	_, err := ScanAll(&fakeRows{err: stderrors.New("cursor broke")}, ScanSession)

	assert.EqualError(t, err, "cursor broke")
}

func TestValues(t *testing.T) {
	a, b := domain.Subject{Name: "a"}, domain.Subject{Name: "b"}

	assert.Equal(t, []domain.Subject{a, b}, values([]*domain.Subject{&a, &b}))
}
