package validation

import (
	"study-tracker/internal/domain"
)

// TaskValidator provides validation for task operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator around v
func NewTaskValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{validator: v}
}

// ValidateTitle checks that a task title is present and within limits
func (tv *TaskValidator) ValidateTitle(title string) error {
	ve := NewValidationError()
	tv.validator.checkText(ve, "title", title, tv.validator.limits.TitleMaxLength, true)
	return ve.OrNil()
}

// ValidateSchedule checks the optional deadline date, time of day and estimate.
// A time of day without a deadline date is rejected.
func (tv *TaskValidator) ValidateSchedule(deadline, clock string, estimate *int) error {
	ve := NewValidationError()

	if deadline != "" && !tv.validator.IsValidDate(deadline) {
		ve.AddInvalidFormatError("deadline", deadline, "YYYY-MM-DD")
	}
	if clock != "" {
		if !tv.validator.IsValidClock(clock) {
			ve.AddInvalidFormatError("time", clock, "HH:MM")
		} else if deadline == "" {
			ve.AddInvalidValueError("time", clock, "needs a deadline date")
		}
	}
	if estimate != nil && *estimate < 0 {
		ve.AddInvalidRangeError("duration", *estimate, "must not be negative")
	}

	return ve.OrNil()
}

// ValidateTask validates a task before it is stored
func (tv *TaskValidator) ValidateTask(t domain.Task) error {
	ve := NewValidationError()

	if !tv.validator.IsValidID(t.SubjectID) {
		ve.AddRequiredError("subject_id")
	}
	tv.validator.checkText(ve, "title", t.Title, tv.validator.limits.TitleMaxLength, true)
	tv.validator.checkText(ve, "description", t.Description, tv.validator.limits.DescriptionMaxLength, false)
	ve.Merge(tv.ValidateSchedule(t.Deadline, t.Time, t.DurationMinutes))

	return ve.OrNil()
}

// ValidateTaskID validates a task identifier
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if !tv.validator.IsValidID(id) {
		ve := NewValidationError()
		ve.AddRequiredError("task_id")
		return ve
	}
	return nil
}
