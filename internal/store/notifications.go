package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// CreateNotification inserts an active notification and fills in its id.
func (r *SQLiteRepo) CreateNotification(ctx context.Context, n *domain.Notification) error {
	name, err := r.codec.Encode(n.Name)
	if err != nil {
		return fmt.Errorf("encode name: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, name, fire_date, fire_time, active)
		VALUES (?, ?, ?, ?, 1)`,
		n.Owner, name, n.FireDate, n.FireTime,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = id
	n.Active = true
	return nil
}

// ListNotifications returns the owner's active notifications.
func (r *SQLiteRepo) ListNotifications(ctx context.Context, owner int64) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, fire_date, fire_time, active
		FROM notifications WHERE user_id = ? AND active = 1`,
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectNotifications(rows)
}

// GetNotification returns a notification by id or ErrNotFound.
func (r *SQLiteRepo) GetNotification(ctx context.Context, id int64) (*domain.Notification, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, fire_date, fire_time, active
		FROM notifications WHERE id = ?`, id)
	n, err := r.scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

// RescheduleNotification moves a notification to a new date and time.
func (r *SQLiteRepo) RescheduleNotification(ctx context.Context, id int64, date, clock string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET fire_date = ?, fire_time = ? WHERE id = ?`,
		date, clock, id,
	)
	if err != nil {
		return fmt.Errorf("reschedule notification: %w", err)
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

// DueNotifications returns active notifications scheduled for exactly the
// given date and minute. Order is unspecified.
func (r *SQLiteRepo) DueNotifications(ctx context.Context, date, clock string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, fire_date, fire_time, active
		FROM notifications
		WHERE fire_date = ? AND fire_time = ? AND active = 1`,
		date, clock,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectNotifications(rows)
}

// DeactivateNotification flips active to false. The transition is monotonic:
// nothing in the system ever sets it back.
func (r *SQLiteRepo) DeactivateNotification(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate notification: %w", err)
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

// DeleteInactiveNotifications bulk-deletes fired and cancelled notifications.
func (r *SQLiteRepo) DeleteInactiveNotifications(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE active = 0`)
	if err != nil {
		return 0, fmt.Errorf("delete inactive notifications: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepo) collectNotifications(rows *sql.Rows) ([]domain.Notification, error) {
	var res []domain.Notification
	for rows.Next() {
		n, err := r.scanNotification(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *n)
	}
	return res, rows.Err()
}

func (r *SQLiteRepo) scanNotification(row rowScanner) (*domain.Notification, error) {
	var (
		n      domain.Notification
		name   string
		active int
	)
	if err := row.Scan(&n.ID, &n.Owner, &name, &n.FireDate, &n.FireTime, &active); err != nil {
		return nil, err
	}
	var err error
	if n.Name, err = r.codec.Decode(name); err != nil {
		return nil, fmt.Errorf("decode name: %w", err)
	}
	n.Active = active != 0
	return &n, nil
}
