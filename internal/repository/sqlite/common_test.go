package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"study-tracker/internal/errors"
)

type mockResult struct {
	rowsAffected int64
	rowsErr      error
}

func (mr *mockResult) LastInsertId() (int64, error) { return 0, nil }

func (mr *mockResult) RowsAffected() (int64, error) { return mr.rowsAffected, mr.rowsErr }

func TestHandleDatabaseError(t *testing.T) {
	err := HandleDatabaseError("list tasks", stderrors.New("disk full"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
	assert.Contains(t, err.Error(), "list tasks")
	assert.Contains(t, err.Error(), "disk full")

	err = HandleDatabaseError("list tasks", fmt.Errorf("wrapped: %w", context.DeadlineExceeded))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
}

func TestHandleNoRowsError(t *testing.T) {
	err := HandleNoRowsError(sql.ErrNoRows, "subject", "42")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	other := stderrors.New("other")
	assert.Same(t, other, HandleNoRowsError(other, "subject", "42"))
}

func TestValidateRowsAffected(t *testing.T) {
	assert.NoError(t, ValidateRowsAffected(&mockResult{rowsAffected: 1}, "task", "1"))

	err := ValidateRowsAffected(&mockResult{}, "task", "1")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	err = ValidateRowsAffected(&mockResult{rowsErr: stderrors.New("boom")}, "task", "1")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
}
