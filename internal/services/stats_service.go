package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"study-tracker/internal/analytics"
	"study-tracker/internal/domain"
)

// statsServiceImpl implements the StatsService interface
type statsServiceImpl struct {
	*base
}

// LoadSnapshot fetches subjects and sessions concurrently, then every
// subject's tasks with bounded parallelism.
func (s *statsServiceImpl) LoadSnapshot(ctx context.Context) (analytics.Snapshot, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	var (
		subjects []domain.Subject
		sessions []domain.Session
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subjects, err = s.store.ListSubjects(gctx, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.store.ListSessions(gctx, s.userID, domain.SessionFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.Snapshot{}, err
	}

	lists := make([][]domain.Task, len(subjects))
	tg, tctx := errgroup.WithContext(ctx)
	if n := s.cfg.Stats.FetchConcurrency; n > 0 {
		tg.SetLimit(n)
	}
	for i, subject := range subjects {
		i, subject := i, subject
		tg.Go(func() error {
			tasks, err := s.store.ListTasks(tctx, s.userID, subject.ID)
			if err != nil {
				return err
			}
			lists[i] = tasks
			return nil
		})
	}
	if err := tg.Wait(); err != nil {
		return analytics.Snapshot{}, err
	}

	tasks := make(map[string][]domain.Task, len(subjects))
	for i, subject := range subjects {
		tasks[subject.ID] = lists[i]
	}

	s.logger.Debug("snapshot loaded", "subjects", len(subjects), "sessions", len(sessions))
	return analytics.Snapshot{Subjects: subjects, Tasks: tasks, Sessions: sessions}, nil
}

// Options returns the analytics options for now
func (s *statsServiceImpl) Options() analytics.Options {
	return analytics.Options{
		Today:     s.today(),
		WeekStart: s.cfg.WeekStartDay(),
	}
}

// Report loads a snapshot and composes the full report
func (s *statsServiceImpl) Report(ctx context.Context, window analytics.Window, group analytics.GroupMode) (analytics.Report, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return analytics.Report{}, err
	}
	return analytics.Compose(snap, window, group, s.Options()), nil
}

// SubjectProgress splits subjects into active and completed
func (s *statsServiceImpl) SubjectProgress(ctx context.Context) (active, completed []analytics.SubjectProgress, err error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	active, completed = analytics.ClassifySubjects(snap.Subjects, snap.Tasks, s.today())
	return active, completed, nil
}
