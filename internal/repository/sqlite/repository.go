// Package sqlite implements repository.Store on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"study-tracker/internal/domain"
	"study-tracker/internal/errors"
	"study-tracker/internal/logging"
	"study-tracker/internal/repository"
	"study-tracker/internal/repository/sqlite/migrations"
)

// Options tunes a Repository. Zero values pick defaults.
type Options struct {
	Logger logging.Logger
	Clock  func() time.Time
	NewID  func() string
}

// Repository implements repository.Store
type Repository struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

var _ repository.Store = (*Repository)(nil)

// New opens the database at dbPath (":memory:" for a throwaway store) and
// applies pending migrations.
func New(dbPath string, opts Options) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	r := &Repository{
		db:     db,
		logger: opts.Logger,
		now:    opts.Clock,
		newID:  opts.NewID,
	}
	if r.logger == nil {
		r.logger = logging.Nop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	return r, nil
}

func dsn(dbPath string) string {
	if dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		return dbPath
	}
	return "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// withTx runs fn in a transaction, committing only when fn succeeds
func (r *Repository) withTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError(operation, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("rollback failed", "operation", operation, "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return HandleDatabaseError(operation, err)
	}
	return nil
}

// ListSubjects returns the user's subjects, newest first
func (r *Repository) ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	query := `
	SELECT ` + subjectColumns + `
	FROM subjects
	WHERE user_id = ?
	ORDER BY created_at DESC, rowid DESC`

	rows, err := QueryMultiple(ctx, r.db, query, ScanSubject, "subjects", userID)
	if err != nil {
		return nil, err
	}
	subjects := values(rows)
	for _, s := range subjects {
		r.warnUnreadableTime("subject", s.ID, s.CreatedAt)
	}
	return subjects, nil
}

// GetSubject retrieves a subject by ID
func (r *Repository) GetSubject(ctx context.Context, userID, subjectID string) (domain.Subject, error) {
	query := `
	SELECT ` + subjectColumns + `
	FROM subjects
	WHERE user_id = ? AND id = ?`

	subject, err := QuerySingle(ctx, r.db, query, ScanSubject, "subject", subjectID, userID, subjectID)
	if err != nil {
		return domain.Subject{}, err
	}
	return *subject, nil
}

// CreateSubject inserts a subject and returns its new ID
func (r *Repository) CreateSubject(ctx context.Context, userID string, subject domain.Subject) (string, error) {
	id := r.newID()
	created := subject.CreatedAt
	if created.IsZero() {
		created = r.now()
	}

	query := `
	INSERT INTO subjects (id, user_id, name, description, use_for_timer, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	err := Execute(ctx, r.db, "create subject", query,
		id, userID, subject.Name, subject.Description, boolToInt(subject.UseForTimer), FormatTimeForDB(created))
	if err != nil {
		return "", err
	}

	r.logger.Debug("subject created", "id", id, "name", subject.Name)
	return id, nil
}

// UpdateSubject applies a partial update
func (r *Repository) UpdateSubject(ctx context.Context, userID, subjectID string, update repository.SubjectUpdate) error {
	var sets []string
	var args []any
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.UseForTimer != nil {
		sets = append(sets, "use_for_timer = ?")
		args = append(args, boolToInt(*update.UseForTimer))
	}
	if len(sets) == 0 {
		_, err := r.GetSubject(ctx, userID, subjectID)
		return err
	}

	query := `UPDATE subjects SET ` + strings.Join(sets, ", ") + ` WHERE user_id = ? AND id = ?`
	args = append(args, userID, subjectID)

	return ExecuteWithRowsAffected(ctx, r.db, query, "subject", subjectID, args...)
}

// DeleteSubject deletes the subject and its tasks in one transaction
func (r *Repository) DeleteSubject(ctx context.Context, userID, subjectID string) error {
	return r.withTx(ctx, "delete subject", func(tx *sql.Tx) error {
		err := Execute(ctx, tx, "delete subject tasks",
			`DELETE FROM tasks WHERE user_id = ? AND subject_id = ?`, userID, subjectID)
		if err != nil {
			return err
		}

		return ExecuteWithRowsAffected(ctx, tx,
			`DELETE FROM subjects WHERE user_id = ? AND id = ?`, "subject", subjectID, userID, subjectID)
	})
}

// ListTasks returns the tasks of one subject, newest first
func (r *Repository) ListTasks(ctx context.Context, userID, subjectID string) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = ? AND subject_id = ?
	ORDER BY created_at DESC, rowid DESC`

	rows, err := QueryMultiple(ctx, r.db, query, ScanTask, "tasks", userID, subjectID)
	if err != nil {
		return nil, err
	}
	tasks := values(rows)
	for _, t := range tasks {
		r.warnUnreadableTime("task", t.ID, t.CreatedAt)
	}
	return tasks, nil
}

// CreateTask inserts a task under an existing subject
func (r *Repository) CreateTask(ctx context.Context, userID string, task domain.Task) (string, error) {
	if _, err := r.GetSubject(ctx, userID, task.SubjectID); err != nil {
		return "", err
	}

	id := r.newID()
	created := task.CreatedAt
	if created.IsZero() {
		created = r.now()
	}

	query := `
	INSERT INTO tasks (id, user_id, subject_id, title, description, deadline, deadline_time,
		completed, status, duration_minutes, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err := Execute(ctx, r.db, "create task", query,
		id, userID, task.SubjectID, task.Title, task.Description,
		nullString(task.Deadline), nullString(task.Time),
		boolToInt(task.Completed), task.Status(), nullInt(task.DurationMinutes),
		FormatTimeForDB(created))
	if err != nil {
		return "", err
	}

	r.logger.Debug("task created", "id", id, "subject", task.SubjectID)
	return id, nil
}

// UpdateTask applies a partial update. Completion writes both the flag and
// the legacy status column.
func (r *Repository) UpdateTask(ctx context.Context, userID, subjectID, taskID string, update repository.TaskUpdate) error {
	var sets []string
	var args []any
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, nullString(*update.Deadline))
	}
	if update.Time != nil {
		sets = append(sets, "deadline_time = ?")
		args = append(args, nullString(*update.Time))
	}
	if update.Completed != nil {
		sets = append(sets, "completed = ?", "status = ?")
		args = append(args, boolToInt(*update.Completed), domain.StatusFor(*update.Completed))
	}
	if update.DurationMinutes != nil {
		sets = append(sets, "duration_minutes = ?")
		args = append(args, *update.DurationMinutes)
	}
	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE user_id = ? AND subject_id = ? AND id = ?`
	args = append(args, userID, subjectID, taskID)

	return ExecuteWithRowsAffected(ctx, r.db, query, "task", taskID, args...)
}

// DeleteTask deletes a task by ID
func (r *Repository) DeleteTask(ctx context.Context, userID, subjectID, taskID string) error {
	query := `DELETE FROM tasks WHERE user_id = ? AND subject_id = ? AND id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", taskID, userID, subjectID, taskID)
}

// ListSessions returns the user's sessions matching filter, newest first
func (r *Repository) ListSessions(ctx context.Context, userID string, filter domain.SessionFilter) ([]domain.Session, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.To)
	}
	if filter.Subject != nil {
		conditions = append(conditions, "subject = ?")
		args = append(args, *filter.Subject)
	}

	query := `
	SELECT ` + sessionColumns + `
	FROM sessions
	WHERE ` + strings.Join(conditions, " AND ") + `
	ORDER BY timestamp DESC, rowid DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := QueryMultiple(ctx, r.db, query, ScanSession, "sessions", args...)
	if err != nil {
		return nil, err
	}
	sessions := values(rows)
	for _, ss := range sessions {
		r.warnUnreadableTime("session", ss.ID, ss.Timestamp)
	}
	return sessions, nil
}

// warnUnreadableTime logs rows whose stored timestamp could not be parsed.
// Such rows are still returned with a zero time.
func (r *Repository) warnUnreadableTime(kind, id string, t time.Time) {
	if t.IsZero() {
		r.logger.Warn("unreadable timestamp, using zero time", "kind", kind, "id", id)
	}
}

// CreateSession appends a session to the log
func (r *Repository) CreateSession(ctx context.Context, userID string, session domain.Session) (string, error) {
	id := r.newID()
	ts := session.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}

	query := `
	INSERT INTO sessions (id, user_id, subject, duration_minutes, duration_seconds, date, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	err := Execute(ctx, r.db, "create session", query,
		id, userID, session.Subject, session.DurationMinutes, session.DurationSeconds, session.Date, FormatTimeForDB(ts))
	if err != nil {
		return "", err
	}

	r.logger.Debug("session logged", "id", id, "subject", session.Subject, "date", session.Date)
	return id, nil
}
