package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// CreateTask inserts a task and fills in its generated id.
func (r *SQLiteRepo) CreateTask(ctx context.Context, t *domain.Task) error {
	title, err := r.codec.Encode(t.Title)
	if err != nil {
		return fmt.Errorf("encode title: %w", err)
	}
	desc, err := r.codec.Encode(t.Description)
	if err != nil {
		return fmt.Errorf("encode description: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, title, description, status)
		VALUES (?, ?, ?, ?)`,
		t.Owner, title, desc, int(t.Status),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// ListTasks returns the owner's tasks, optionally restricted to open ones.
// Order follows insertion and carries no semantic meaning.
func (r *SQLiteRepo) ListTasks(ctx context.Context, owner int64, openOnly bool) ([]domain.Task, error) {
	q := `SELECT id, user_id, title, description, status FROM tasks WHERE user_id = ?`
	args := []any{owner}
	if openOnly {
		q += ` AND status = ?`
		args = append(args, int(domain.StatusOpen))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *t)
	}
	return res, rows.Err()
}

// GetTask returns a task by id or ErrNotFound.
func (r *SQLiteRepo) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, status FROM tasks WHERE id = ?`, id)
	t, err := r.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// RenameTask updates a task's title.
func (r *SQLiteRepo) RenameTask(ctx context.Context, id int64, title string) error {
	enc, err := r.codec.Encode(title)
	if err != nil {
		return fmt.Errorf("encode title: %w", err)
	}
	return r.updateTask(ctx, id, `UPDATE tasks SET title = ? WHERE id = ?`, enc)
}

// SetTaskStatus sets a task's open/done status.
func (r *SQLiteRepo) SetTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) error {
	return r.updateTask(ctx, id, `UPDATE tasks SET status = ? WHERE id = ?`, int(status))
}

// DeleteDoneTasks bulk-deletes completed tasks and reports how many went.
func (r *SQLiteRepo) DeleteDoneTasks(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE status = ?`, int(domain.StatusDone))
	if err != nil {
		return 0, fmt.Errorf("delete done tasks: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepo) updateTask(ctx context.Context, id int64, q string, v any) error {
	res, err := r.db.ExecContext(ctx, q, v, id)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepo) scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t      domain.Task
		title  string
		desc   string
		status int
	)
	if err := row.Scan(&t.ID, &t.Owner, &title, &desc, &status); err != nil {
		return nil, err
	}
	var err error
	if t.Title, err = r.codec.Decode(title); err != nil {
		return nil, fmt.Errorf("decode title: %w", err)
	}
	if t.Description, err = r.codec.Decode(desc); err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}
