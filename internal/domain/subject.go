package domain

import (
	"strings"
	"time"
)

// Subject is a named area of study owned by a user. Sessions refer to it by
// Name; tasks refer to it by ID.
type Subject struct {
	ID          string
	Name        string
	Description string
	UseForTimer bool
	CreatedAt   time.Time
}

// NewSubject creates a Subject with a trimmed name.
func NewSubject(name, description string) Subject {
	return Subject{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}

// IsValid checks if the subject has a usable name.
func (s Subject) IsValid() bool {
	return strings.TrimSpace(s.Name) != ""
}

func (s Subject) String() string {
	return s.Name
}
