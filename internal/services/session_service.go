package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"study-tracker/internal/domain"
	"study-tracker/internal/errors"
	"study-tracker/internal/validation"
)

// sessionServiceImpl implements the SessionService interface
type sessionServiceImpl struct {
	*base
	validator *validation.SessionValidator
}

func (s *sessionServiceImpl) subjectOrDefault(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject != "" {
		return subject
	}
	if s.cfg.Session.DefaultSubject != "" {
		return s.cfg.Session.DefaultSubject
	}
	return domain.DefaultSessionSubject
}

// LogCompleted records a finished countdown of totalSeconds ending at at
func (s *sessionServiceImpl) LogCompleted(ctx context.Context, subject string, totalSeconds int, at time.Time) (*domain.Session, error) {
	if totalSeconds <= 0 {
		s.logger.Debug("skipping empty session", "seconds", totalSeconds)
		return nil, nil
	}
	if at.IsZero() {
		at = s.now()
	}

	session := domain.NewSession(s.subjectOrDefault(subject), totalSeconds, at.In(s.loc))
	return s.save(ctx, session)
}

// Log records an explicitly entered session
func (s *sessionServiceImpl) Log(ctx context.Context, input SessionInput) (*domain.Session, error) {
	if err := s.validator.ValidateDuration(input.Minutes, input.Seconds); err != nil {
		return nil, errors.NewValidationError("invalid session duration", err)
	}
	if domain.ToSeconds(input.Minutes, input.Seconds) == 0 {
		return nil, errors.NewInvalidInputError("duration", "00:00", "must be greater than zero")
	}

	at := input.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.In(s.loc)

	session := domain.Session{
		Subject:         s.subjectOrDefault(input.Subject),
		DurationMinutes: input.Minutes,
		DurationSeconds: input.Seconds,
		Date:            at.Format(domain.DateLayout),
		Timestamp:       at,
	}
	if input.Date != "" {
		session.Date = input.Date
	}
	return s.save(ctx, session)
}

func (s *sessionServiceImpl) save(ctx context.Context, session domain.Session) (*domain.Session, error) {
	if err := s.validator.ValidateSession(session); err != nil {
		return nil, errors.NewValidationError("invalid session", err)
	}

	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	id, err := s.store.CreateSession(writeCtx, s.userID, session)
	if err != nil {
		_ = s.notifier.Notify("Session not saved", errors.GetUserMessage(err))
		return nil, err
	}
	session.ID = id

	clock := domain.FormatClock(session.TotalSeconds())
	s.logger.Info("session logged", "id", id, "subject", session.Subject, "duration", clock)
	s.changes.Notify()
	_ = s.notifier.Notify("Session saved", fmt.Sprintf("%s of %s logged", clock, session.Subject))
	return &session, nil
}

// ListSessions returns the sessions matching filter, newest first
func (s *sessionServiceImpl) ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	var from, to string
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}
	if err := s.validator.ValidateDateRange(from, to); err != nil {
		return nil, errors.NewValidationError("invalid date range", err)
	}
	if filter.Limit < 0 {
		return nil, errors.NewInvalidInputError("limit", filter.Limit, "must not be negative")
	}

	ctx, cancel := s.readContext(ctx)
	defer cancel()
	return s.store.ListSessions(ctx, s.userID, filter)
}
