package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// GetSettings returns the owner's settings row, creating the defaults row on
// first access. The insert is ON CONFLICT DO NOTHING against the primary
// key, so concurrent first reads for the same owner produce exactly one row
// and every caller re-reads whatever won.
func (r *SQLiteRepo) GetSettings(ctx context.Context, owner int64) (*domain.UserSettings, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, description_optional, reminder_enabled, reminder_time)
		VALUES (?, 0, 0, NULL)
		ON CONFLICT(user_id) DO NOTHING`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("init settings: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, description_optional, reminder_enabled, reminder_time
		FROM user_settings WHERE user_id = ?`,
		owner,
	)

	var (
		s        domain.UserSettings
		descOpt  int
		remindOn int
		clock    sql.NullString
	)
	if err := row.Scan(&s.Owner, &descOpt, &remindOn, &clock); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s.DescriptionOptional = descOpt != 0
	s.ReminderEnabled = remindOn != 0
	s.ReminderTime = clock.String
	return &s, nil
}

// SetDescriptionOptional persists the description-prompt toggle.
func (r *SQLiteRepo) SetDescriptionOptional(ctx context.Context, owner int64, v bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_settings SET description_optional = ? WHERE user_id = ?`,
		boolToInt(v), owner,
	)
	return err
}

// SetReminderEnabled persists the daily reminder toggle.
func (r *SQLiteRepo) SetReminderEnabled(ctx context.Context, owner int64, v bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_settings SET reminder_enabled = ? WHERE user_id = ?`,
		boolToInt(v), owner,
	)
	return err
}

// SetReminderTime persists the daily reminder wall-clock time. The store
// does not validate the format; callers normalize via domain.ParseClock.
func (r *SQLiteRepo) SetReminderTime(ctx context.Context, owner int64, clock string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_settings SET reminder_time = ? WHERE user_id = ?`,
		clock, owner,
	)
	return err
}

// ListReminderOwners returns owners whose daily reminder is enabled and set
// to exactly the given wall-clock minute. Order is unspecified.
func (r *SQLiteRepo) ListReminderOwners(ctx context.Context, clock string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM user_settings
		WHERE reminder_enabled = 1 AND reminder_time = ?`,
		clock,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

// CountDanglingReminders counts rows with the reminder enabled but no time
// set. Such rows never match a scan; the daily loop reports them so a
// misbehaving front-end is visible instead of silent.
func (r *SQLiteRepo) CountDanglingReminders(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_settings
		WHERE reminder_enabled = 1 AND (reminder_time IS NULL OR reminder_time = '')`,
	).Scan(&n)
	return n, err
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
