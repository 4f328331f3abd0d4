package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tasktrack/applications/access"
	"tasktrack/applications/apperr"
	"tasktrack/applications/task"
	"tasktrack/applications/user"
	"tasktrack/config"

	sq "github.com/Masterminds/squirrel"
)

// SQLStore keeps users and tasks in one relational database. It serves the
// user, task and login use cases.
type SQLStore struct {
	db      *sql.DB
	dialect string
	sb      sq.StatementBuilderType
	log     *slog.Logger
}

var (
	_ user.Store       = (*SQLStore)(nil)
	_ task.Store       = (*SQLStore)(nil)
	_ task.OwnerLookup = (*SQLStore)(nil)
)

func New(db *sql.DB, dialect string, log *slog.Logger) *SQLStore {
	var format sq.PlaceholderFormat = sq.Question
	if dialect == config.DriverPostgres {
		format = sq.Dollar
	}
	return &SQLStore{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(format),
		log:     log,
	}
}

// insert runs q and returns the generated id. Postgres has no LastInsertId,
// so it reads the id back through RETURNING.
func (s *SQLStore) insert(ctx context.Context, q sq.InsertBuilder) (int64, error) {
	if s.dialect == config.DriverPostgres {
		query, args, err := q.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLStore) exec(ctx context.Context, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return s.db.ExecContext(ctx, query, args...)
}

// --- Users ---

func (s *SQLStore) CreateUser(ctx context.Context, email, passwordHash string, role access.Role, createdAt time.Time) (int64, error) {
	q := s.sb.Insert("users").
		Columns("email", "password_hash", "role", "created_at").
		Values(email, passwordHash, string(role), createdAt)

	id, err := s.insert(ctx, q)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("store: create user %s: %w", email, apperr.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("store: create user: %w", err)
	}
	s.log.Debug(fmt.Sprintf("[store] Inserted user %d (%s).", id, email))
	return id, nil
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := s.sb.Select("id", "email", "password_hash", "role", "created_at").
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build find user: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: find user by email: %w", err)
	}
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	query, args, err := s.sb.Select("id", "email", "password_hash", "role", "created_at").
		From("users").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build list users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	out := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iter users: %w", err)
	}
	return out, nil
}

// DeleteUser removes the user row only. Deleting a missing id is not an
// error, and the user's tasks are left behind.
func (s *SQLStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, s.sb.Delete("users").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("store: delete user: %w", err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		s.log.Debug(fmt.Sprintf("[store] Delete of user %d matched no rows.", id))
	}
	return nil
}

// --- Tasks ---

// taskSelect joins each task with its owner. Tasks whose owner was deleted
// drop out of every read.
func (s *SQLStore) taskSelect() sq.SelectBuilder {
	return s.sb.Select(
		"t.id", "t.title", "t.description", "t.status", "t.user_id",
		"t.created_at", "t.updated_at", "u.email",
	).
		From("tasks t").
		Join("users u ON u.id = t.user_id")
}

func (s *SQLStore) ListTasks(ctx context.Context, f task.Filter) ([]*task.Task, error) {
	q := s.taskSelect().OrderBy("t.created_at DESC", "t.id DESC")
	if f.OwnerEmail != "" {
		q = q.Where(sq.Eq{"u.email": f.OwnerEmail})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build list tasks: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iter tasks: %w", err)
	}
	return out, nil
}

func (s *SQLStore) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	query, args, err := s.taskSelect().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build get task: %w", err)
	}

	t, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	return t, nil
}

func (s *SQLStore) CreateTask(ctx context.Context, t task.NewTask) (int64, error) {
	q := s.sb.Insert("tasks").
		Columns("title", "description", "status", "user_id", "created_at").
		Values(t.Title, t.Description, t.Status, t.OwnerID, t.CreatedAt)

	id, err := s.insert(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("store: create task: %w", err)
	}
	s.log.Debug(fmt.Sprintf("[store] Inserted task %d for user %d.", id, t.OwnerID))
	return id, nil
}

func (s *SQLStore) UpdateTask(ctx context.Context, id int64, title, description, status string, updatedAt time.Time) error {
	q := s.sb.Update("tasks").
		Set("title", title).
		Set("description", description).
		Set("status", status).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	res, err := s.exec(ctx, q)
	if err != nil {
		return fmt.Errorf("store: update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected (update task): %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteTask is idempotent: a missing id is not an error.
func (s *SQLStore) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx, s.sb.Delete("tasks").Where(sq.Eq{"id": id})); err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u    user.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = access.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		t         task.Task
		updatedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID,
		&t.CreatedAt, &updatedAt, &t.OwnerEmail)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	if updatedAt.Valid {
		ts := updatedAt.Time.UTC()
		t.UpdatedAt = &ts
	}
	return &t, nil
}
