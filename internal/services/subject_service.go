package services

import (
	"context"
	"strings"

	"study-tracker/internal/domain"
	"study-tracker/internal/errors"
	"study-tracker/internal/repository"
	"study-tracker/internal/validation"
)

// subjectServiceImpl implements the SubjectService interface
type subjectServiceImpl struct {
	*base
	validator *validation.SubjectValidator
}

// CreateSubject validates and stores a new subject
func (s *subjectServiceImpl) CreateSubject(ctx context.Context, name, description string, useForTimer bool) (*domain.Subject, error) {
	subject := domain.NewSubject(name, description)
	subject.UseForTimer = useForTimer
	subject.CreatedAt = s.now()

	if err := s.validator.ValidateSubject(subject); err != nil {
		return nil, errors.NewValidationError("invalid subject", err)
	}

	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	id, err := s.store.CreateSubject(ctx, s.userID, subject)
	if err != nil {
		return nil, err
	}
	subject.ID = id

	s.logger.Info("subject created", "id", id, "name", subject.Name)
	s.changes.Notify()
	return &subject, nil
}

// GetSubject retrieves a subject by its ID
func (s *subjectServiceImpl) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	if err := s.validator.ValidateSubjectID(id); err != nil {
		return nil, errors.NewValidationError("invalid subject ID", err)
	}

	ctx, cancel := s.readContext(ctx)
	defer cancel()

	subject, err := s.store.GetSubject(ctx, s.userID, id)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListSubjects returns every subject, newest first
func (s *subjectServiceImpl) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()
	return s.store.ListSubjects(ctx, s.userID)
}

// UpdateSubject applies a partial update and returns the stored result
func (s *subjectServiceImpl) UpdateSubject(ctx context.Context, id string, update repository.SubjectUpdate) (*domain.Subject, error) {
	if err := s.validator.ValidateSubjectID(id); err != nil {
		return nil, errors.NewValidationError("invalid subject ID", err)
	}
	if update.IsEmpty() {
		return nil, errors.NewInvalidInputError("update", "", "nothing to change")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := s.validator.ValidateName(name); err != nil {
			return nil, errors.NewValidationError("invalid subject name", err)
		}
		update.Name = &name
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		update.Description = &description
	}

	writeCtx, cancel := s.writeContext(ctx)
	err := s.store.UpdateSubject(writeCtx, s.userID, id, update)
	cancel()
	if err != nil {
		return nil, err
	}

	s.changes.Notify()
	return s.GetSubject(ctx, id)
}

// DeleteSubject removes a subject together with its tasks. Sessions logged
// under the subject's name are kept.
func (s *subjectServiceImpl) DeleteSubject(ctx context.Context, id string) error {
	if err := s.validator.ValidateSubjectID(id); err != nil {
		return errors.NewValidationError("invalid subject ID", err)
	}

	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	if err := s.store.DeleteSubject(ctx, s.userID, id); err != nil {
		return err
	}

	s.logger.Info("subject deleted", "id", id)
	s.changes.Notify()
	return nil
}
