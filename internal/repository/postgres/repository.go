package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"study-tracker/internal/domain"
	"study-tracker/internal/errors"
	"study-tracker/internal/logging"
	"study-tracker/internal/repository"
)

const (
	subjectColumns = `id, name, description, use_for_timer, created_at`
	taskColumns    = `id, subject_id, title, description, COALESCE(deadline, ''), COALESCE(deadline_time, ''), completed, status, duration_minutes, created_at`
	sessionColumns = `id, subject, duration_minutes, duration_seconds, date, timestamp`
)

// Repository implements repository.Store on a pgx pool
type Repository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
	now    func() time.Time
}

var _ repository.Store = (*Repository)(nil)

// New wraps an open pool. The repository owns the pool and closes it.
func New(pool *pgxpool.Pool, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Repository{pool: pool, logger: logger, now: time.Now}
}

// Open connects to databaseURL and returns a ready repository.
func Open(ctx context.Context, databaseURL string, logger logging.Logger) (*Repository, error) {
	pool, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, errors.NewUnavailableError("postgres", err)
	}
	return New(pool, logger), nil
}

// Close closes the pool
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func dbError(operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, err.Error())
	}
	return errors.NewDatabaseError(operation, err)
}

func affected(tag pgconn.CommandTag, entity, id string) error {
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError(entity, id)
	}
	return nil
}

func scanSubject(row pgx.Row) (domain.Subject, error) {
	var s domain.Subject
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.UseForTimer, &s.CreatedAt)
	return s, err
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		t        domain.Task
		status   string
		estimate *int32
	)
	err := row.Scan(&t.ID, &t.SubjectID, &t.Title, &t.Description, &t.Deadline, &t.Time,
		&t.Completed, &status, &estimate, &t.CreatedAt)
	if err != nil {
		return t, err
	}
	t.Completed = domain.IsCompleted(t.Completed, status)
	if estimate != nil {
		n := int(*estimate)
		t.DurationMinutes = &n
	}
	return t, nil
}

func scanSession(row pgx.Row) (domain.Session, error) {
	var s domain.Session
	err := row.Scan(&s.ID, &s.Subject, &s.DurationMinutes, &s.DurationSeconds, &s.Date, &s.Timestamp)
	return s, err
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListSubjects returns the user's subjects, newest first
func (r *Repository) ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, dbError("list subjects", err)
	}
	subjects, err := collect(rows, scanSubject)
	if err != nil {
		return nil, dbError("scan subjects", err)
	}
	return subjects, nil
}

// GetSubject retrieves a subject by ID
func (r *Repository) GetSubject(ctx context.Context, userID, subjectID string) (domain.Subject, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE user_id = $1 AND id = $2`, userID, subjectID)
	s, err := scanSubject(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return domain.Subject{}, errors.NewNotFoundError("subject", subjectID)
	}
	if err != nil {
		return domain.Subject{}, dbError("get subject", err)
	}
	return s, nil
}

// CreateSubject inserts a subject and returns its new ID
func (r *Repository) CreateSubject(ctx context.Context, userID string, subject domain.Subject) (string, error) {
	id := uuid.NewString()
	created := subject.CreatedAt
	if created.IsZero() {
		created = r.now()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO subjects (id, user_id, name, description, use_for_timer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, userID, subject.Name, subject.Description, subject.UseForTimer, created)
	if err != nil {
		return "", dbError("create subject", err)
	}
	r.logger.Debug("subject created", "id", id, "name", subject.Name)
	return id, nil
}

// setClause accumulates "col = $n" fragments with positional arguments
type setClause struct {
	parts []string
	args  []any
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

// where appends conditions for the trailing arguments and returns the SQL
func (s *setClause) where(table string, conditions map[string]any, order []string) string {
	var preds []string
	for _, col := range order {
		s.args = append(s.args, conditions[col])
		preds = append(preds, fmt.Sprintf("%s = $%d", col, len(s.args)))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(s.parts, ", "), strings.Join(preds, " AND "))
}

// UpdateSubject applies a partial update
func (r *Repository) UpdateSubject(ctx context.Context, userID, subjectID string, update repository.SubjectUpdate) error {
	var set setClause
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Description != nil {
		set.add("description", *update.Description)
	}
	if update.UseForTimer != nil {
		set.add("use_for_timer", *update.UseForTimer)
	}
	if len(set.parts) == 0 {
		_, err := r.GetSubject(ctx, userID, subjectID)
		return err
	}

	query := set.where("subjects", map[string]any{"user_id": userID, "id": subjectID}, []string{"user_id", "id"})
	tag, err := r.pool.Exec(ctx, query, set.args...)
	if err != nil {
		return dbError("update subject", err)
	}
	return affected(tag, "subject", subjectID)
}

// DeleteSubject deletes the subject and its tasks in one transaction
func (r *Repository) DeleteSubject(ctx context.Context, userID, subjectID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1 AND subject_id = $2`, userID, subjectID); err != nil {
			return dbError("delete subject tasks", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM subjects WHERE user_id = $1 AND id = $2`, userID, subjectID)
		if err != nil {
			return dbError("delete subject", err)
		}
		return affected(tag, "subject", subjectID)
	})
}

// ListTasks returns the tasks of one subject, newest first
func (r *Repository) ListTasks(ctx context.Context, userID, subjectID string) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND subject_id = $2
		ORDER BY created_at DESC, id DESC`, userID, subjectID)
	if err != nil {
		return nil, dbError("list tasks", err)
	}
	tasks, err := collect(rows, scanTask)
	if err != nil {
		return nil, dbError("scan tasks", err)
	}
	return tasks, nil
}

// CreateTask inserts a task under an existing subject
func (r *Repository) CreateTask(ctx context.Context, userID string, task domain.Task) (string, error) {
	if _, err := r.GetSubject(ctx, userID, task.SubjectID); err != nil {
		return "", err
	}

	id := uuid.NewString()
	created := task.CreatedAt
	if created.IsZero() {
		created = r.now()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, user_id, subject_id, title, description, deadline, deadline_time,
			completed, status, duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11)`,
		id, userID, task.SubjectID, task.Title, task.Description, task.Deadline, task.Time,
		task.Completed, task.Status(), task.DurationMinutes, created)
	if err != nil {
		return "", dbError("create task", err)
	}
	return id, nil
}

// UpdateTask applies a partial update, writing status together with completed
func (r *Repository) UpdateTask(ctx context.Context, userID, subjectID, taskID string, update repository.TaskUpdate) error {
	var set setClause
	if update.Title != nil {
		set.add("title", *update.Title)
	}
	if update.Description != nil {
		set.add("description", *update.Description)
	}
	if update.Deadline != nil {
		set.add("deadline", nullIfEmpty(*update.Deadline))
	}
	if update.Time != nil {
		set.add("deadline_time", nullIfEmpty(*update.Time))
	}
	if update.Completed != nil {
		set.add("completed", *update.Completed)
		set.add("status", domain.StatusFor(*update.Completed))
	}
	if update.DurationMinutes != nil {
		set.add("duration_minutes", *update.DurationMinutes)
	}
	if len(set.parts) == 0 {
		return nil
	}

	query := set.where("tasks",
		map[string]any{"user_id": userID, "subject_id": subjectID, "id": taskID},
		[]string{"user_id", "subject_id", "id"})
	tag, err := r.pool.Exec(ctx, query, set.args...)
	if err != nil {
		return dbError("update task", err)
	}
	return affected(tag, "task", taskID)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// DeleteTask deletes a task by ID
func (r *Repository) DeleteTask(ctx context.Context, userID, subjectID, taskID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE user_id = $1 AND subject_id = $2 AND id = $3`, userID, subjectID, taskID)
	if err != nil {
		return dbError("delete task", err)
	}
	return affected(tag, "task", taskID)
}

// sessionQuery builds the listing query for filter
func sessionQuery(userID string, filter domain.SessionFilter) (string, []any) {
	args := []any{userID}
	conditions := []string{"user_id = $1"}

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	if filter.Subject != nil {
		args = append(args, *filter.Subject)
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)))
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY timestamp DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}

// ListSessions returns the user's sessions matching filter, newest first
func (r *Repository) ListSessions(ctx context.Context, userID string, filter domain.SessionFilter) ([]domain.Session, error) {
	query, args := sessionQuery(userID, filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list sessions", err)
	}
	sessions, err := collect(rows, scanSession)
	if err != nil {
		return nil, dbError("scan sessions", err)
	}
	return sessions, nil
}

// CreateSession appends a session to the log
func (r *Repository) CreateSession(ctx context.Context, userID string, session domain.Session) (string, error) {
	id := uuid.NewString()
	ts := session.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, subject, duration_minutes, duration_seconds, date, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, userID, session.Subject, session.DurationMinutes, session.DurationSeconds, session.Date, ts)
	if err != nil {
		return "", dbError("create session", err)
	}
	r.logger.Debug("session logged", "id", id, "subject", session.Subject)
	return id, nil
}
