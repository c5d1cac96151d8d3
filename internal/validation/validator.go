package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"study-tracker/internal/config"
	"study-tracker/internal/domain"
)

// Validator provides the checks shared by the entity validators
type Validator struct {
	limits config.ValidationConfig
	// maxSessionMinutes caps a single logged session
	maxSessionMinutes int
}

// NewValidator creates a validator with the default limits
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a validator using the configured limits
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Validator{
		limits:            cfg.Validation,
		maxSessionMinutes: cfg.Session.MaxMinutes,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinLength compares the trimmed rune count of s against limit
func (v *Validator) IsWithinLength(s string, limit int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= limit
}

// HasControlCharacters reports newlines, tabs and other control runes
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidDate checks for a YYYY-MM-DD calendar date
func (v *Validator) IsValidDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

// IsValidClock checks for an HH:MM time of day
func (v *Validator) IsValidClock(s string) bool {
	_, err := time.Parse(domain.ClockLayout, s)
	return err == nil
}

// IsValidDateRange accepts open ranges and from <= to
func (v *Validator) IsValidDateRange(from, to string) bool {
	if from == "" || to == "" {
		return true
	}
	return from <= to
}

// IsValidID checks for a non-blank identifier
func (v *Validator) IsValidID(id string) bool {
	return strings.TrimSpace(id) != ""
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) checkText(ve *ValidationError, field, value string, limit int, required bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			ve.AddRequiredError(field)
		}
		return
	}
	if !v.IsWithinLength(trimmed, limit) {
		ve.AddInvalidLengthError(field, trimmed, limit)
	}
	if v.HasControlCharacters(trimmed) {
		ve.AddInvalidValueError(field, trimmed, "must not contain control characters")
	}
}
