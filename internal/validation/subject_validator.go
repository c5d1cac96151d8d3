package validation

import (
	"study-tracker/internal/domain"
)

// SubjectValidator validates subject input
type SubjectValidator struct {
	validator *Validator
}

// NewSubjectValidator creates a subject validator around v
func NewSubjectValidator(v *Validator) *SubjectValidator {
	if v == nil {
		v = NewValidator()
	}
	return &SubjectValidator{validator: v}
}

// ValidateName checks that a subject name is present and within limits
func (sv *SubjectValidator) ValidateName(name string) error {
	ve := NewValidationError()
	sv.validator.checkText(ve, "name", name, sv.validator.limits.NameMaxLength, true)
	return ve.OrNil()
}

// ValidateSubject validates a subject before it is stored
func (sv *SubjectValidator) ValidateSubject(s domain.Subject) error {
	ve := NewValidationError()
	sv.validator.checkText(ve, "name", s.Name, sv.validator.limits.NameMaxLength, true)
	sv.validator.checkText(ve, "description", s.Description, sv.validator.limits.DescriptionMaxLength, false)
	return ve.OrNil()
}

// ValidateSubjectID validates a subject identifier
func (sv *SubjectValidator) ValidateSubjectID(id string) error {
	if !sv.validator.IsValidID(id) {
		ve := NewValidationError()
		ve.AddRequiredError("subject_id")
		return ve
	}
	return nil
}
