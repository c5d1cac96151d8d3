package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/domain"
)

func TestTaskValidator_ValidateTitle(t *testing.T) {
	tv := NewTaskValidator(nil)

	assert.NoError(t, tv.ValidateTitle("Read chapter 4"))
	assert.Error(t, tv.ValidateTitle(""))
}

func TestTaskValidator_ValidateSchedule(t *testing.T) {
	tv := NewTaskValidator(nil)
	negative := -5
	estimate := 30

	tests := []struct {
		name     string
		deadline string
		clock    string
		estimate *int
		fields   []string
	}{
		{"nothing set", "", "", nil, nil},
		{"full schedule", "2024-03-01", "18:00", &estimate, nil},
		{"bad deadline", "March 1", "", nil, []string{"deadline"}},
		{"bad clock", "2024-03-01", "6pm", nil, []string{"time"}},
		{"clock without deadline", "", "18:00", nil, []string{"time"}},
		{"negative estimate", "", "", &negative, []string{"duration"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tv.ValidateSchedule(tt.deadline, tt.clock, tt.estimate)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			for _, f := range tt.fields {
				assert.NotEmpty(t, ve.GetFieldErrors(f), f)
			}
		})
	}
}

func TestTaskValidator_ValidateTask(t *testing.T) {
	tv := NewTaskValidator(nil)

	assert.NoError(t, tv.ValidateTask(domain.Task{SubjectID: "s1", Title: "Essay", Deadline: "2024-05-01"}))

	err := tv.ValidateTask(domain.Task{Deadline: "soon"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.GetFieldErrors("subject_id"))
	assert.NotEmpty(t, ve.GetFieldErrors("title"))
	assert.NotEmpty(t, ve.GetFieldErrors("deadline"))
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	tv := NewTaskValidator(nil)

	assert.NoError(t, tv.ValidateTaskID("t1"))
	assert.Error(t, tv.ValidateTaskID(" "))
}
