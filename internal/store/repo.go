package store

import (
	"context"
	"errors"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// ErrNotFound is returned when a task, notification or settings row does not
// exist. Callers decide the user-facing reaction; it is never used for
// control flow inside the schedulers.
var ErrNotFound = errors.New("not found")

// Repo defines the storage operations the bot and the schedulers share.
// Every call is a single SQL statement and therefore its own implicit
// transaction: writes commit before returning, reads observe the latest
// committed state. There are no cross-call transactions.
type Repo interface {
	// Tasks.
	CreateTask(ctx context.Context, t *domain.Task) error
	ListTasks(ctx context.Context, owner int64, openOnly bool) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	RenameTask(ctx context.Context, id int64, title string) error
	SetTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) error
	DeleteDoneTasks(ctx context.Context) (int64, error)

	// Per-user settings. GetSettings creates a defaults row on first read.
	GetSettings(ctx context.Context, owner int64) (*domain.UserSettings, error)
	SetDescriptionOptional(ctx context.Context, owner int64, v bool) error
	SetReminderEnabled(ctx context.Context, owner int64, v bool) error
	SetReminderTime(ctx context.Context, owner int64, clock string) error
	ListReminderOwners(ctx context.Context, clock string) ([]int64, error)
	CountDanglingReminders(ctx context.Context) (int64, error)

	// One-shot notifications.
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, owner int64) ([]domain.Notification, error)
	GetNotification(ctx context.Context, id int64) (*domain.Notification, error)
	RescheduleNotification(ctx context.Context, id int64, date, clock string) error
	DueNotifications(ctx context.Context, date, clock string) ([]domain.Notification, error)
	DeactivateNotification(ctx context.Context, id int64) error
	DeleteInactiveNotifications(ctx context.Context) (int64, error)

	Close() error
}
