package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSubject(t *testing.T) {
	s := NewSubject("  Math ", " algebra ")
	assert.Equal(t, "Math", s.Name)
	assert.Equal(t, "algebra", s.Description)
	assert.Equal(t, "Math", s.String())
}

func TestSubject_IsValid(t *testing.T) {
	assert.True(t, Subject{Name: "Physics"}.IsValid())
	assert.False(t, Subject{Name: " "}.IsValid())
}
