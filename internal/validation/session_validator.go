package validation

import (
	"fmt"

	"study-tracker/internal/domain"
)

// SessionValidator validates focus sessions before they are logged
type SessionValidator struct {
	validator *Validator
}

// NewSessionValidator creates a session validator around v
func NewSessionValidator(v *Validator) *SessionValidator {
	if v == nil {
		v = NewValidator()
	}
	return &SessionValidator{validator: v}
}

// ValidateDuration checks the minute and second fields of a session.
// A zero total is not an error here; callers skip such sessions.
func (sv *SessionValidator) ValidateDuration(minutes, seconds int) error {
	ve := NewValidationError()

	if minutes < 0 {
		ve.AddInvalidRangeError("minutes", minutes, "must not be negative")
	}
	if seconds < 0 || seconds > 59 {
		ve.AddInvalidRangeError("seconds", seconds, "must be between 0 and 59")
	}
	if limit := sv.validator.maxSessionMinutes; limit > 0 && domain.ToSeconds(minutes, seconds) > limit*60 {
		ve.AddInvalidRangeError("duration", domain.FormatClock(domain.ToSeconds(minutes, seconds)), fmt.Sprintf("must not exceed %d minutes", limit))
	}

	return ve.OrNil()
}

// ValidateSession validates a session record
func (sv *SessionValidator) ValidateSession(s domain.Session) error {
	ve := NewValidationError()

	sv.validator.checkText(ve, "subject", s.Subject, sv.validator.limits.NameMaxLength, true)
	ve.Merge(sv.ValidateDuration(s.DurationMinutes, s.DurationSeconds))
	if !sv.validator.IsValidDate(s.Date) {
		ve.AddInvalidFormatError("date", s.Date, "YYYY-MM-DD")
	}

	return ve.OrNil()
}

// ValidateDateRange validates the bounds of a session listing
func (sv *SessionValidator) ValidateDateRange(from, to string) error {
	ve := NewValidationError()

	if from != "" && !sv.validator.IsValidDate(from) {
		ve.AddInvalidFormatError("from", from, "YYYY-MM-DD")
	}
	if to != "" && !sv.validator.IsValidDate(to) {
		ve.AddInvalidFormatError("to", to, "YYYY-MM-DD")
	}
	if !ve.HasErrors() && !sv.validator.IsValidDateRange(from, to) {
		ve.AddInvalidRangeError("from", from, "must not be after to")
	}

	return ve.OrNil()
}
