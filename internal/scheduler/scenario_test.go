package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
	"github.com/graevsky/todo-notify-tg-bot/internal/store"
)

// Full pass over the real store: task lifecycle through the sweeper, and a
// one-shot notification through the notifier and the sweeper.
func TestScenario_TaskAndNotificationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "tasks.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer repo.Close()

	// Task: created open, completed, swept.
	task := domain.Task{Owner: 42, Title: "Buy milk"}
	if err := repo.CreateTask(ctx, &task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	open, err := repo.ListTasks(ctx, 42, true)
	if err != nil || len(open) != 1 || open[0].Title != "Buy milk" {
		t.Fatalf("open tasks = %+v (err %v), want the one created", open, err)
	}

	if err := repo.SetTaskStatus(ctx, task.ID, domain.StatusDone); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	sweeper := NewSweeper(repo, zap.NewNop())
	sweeper.Sweep(ctx)

	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("swept task still readable, err = %v", err)
	}

	// Notification: fires at its exact minute, flips inactive, gets swept.
	ntf := domain.Notification{Owner: 42, Name: "Call mom", FireDate: "25.12.2024", FireTime: "09:00"}
	if err := repo.CreateNotification(ctx, &ntf); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	sender := &fakeSender{}
	notifier := NewNotifier(repo, zap.NewNop(), sender, time.UTC, time.Minute)
	fire := time.Date(2024, time.December, 25, 9, 0, 0, 0, time.UTC)
	notifier.tick(ctx, fire)

	if len(sender.sent) != 1 || sender.sent[0].text != "Reminder: Call mom" || sender.sent[0].chatID != 42 {
		t.Fatalf("unexpected delivery: %+v", sender.sent)
	}
	got, err := repo.GetNotification(ctx, ntf.ID)
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if got.Active {
		t.Fatal("fired notification must be inactive")
	}

	sweeper.Sweep(ctx)
	if _, err := repo.GetNotification(ctx, ntf.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("swept notification still readable, err = %v", err)
	}
}

// The sweeper must never touch open tasks or active notifications.
func TestSweeper_LeavesLiveRowsAlone(t *testing.T) {
	ctx := context.Background()
	repo, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "tasks.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer repo.Close()

	task := domain.Task{Owner: 1, Title: "Still open"}
	if err := repo.CreateTask(ctx, &task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	ntf := domain.Notification{Owner: 1, Name: "Still pending", FireDate: "01.01.2030", FireTime: "12:00"}
	if err := repo.CreateNotification(ctx, &ntf); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	sweeper := NewSweeper(repo, zap.NewNop())
	sweeper.Sweep(ctx)
	sweeper.Sweep(ctx) // repeated sweeps of a clean set are no-ops

	if _, err := repo.GetTask(ctx, task.ID); err != nil {
		t.Fatalf("open task swept: %v", err)
	}
	if _, err := repo.GetNotification(ctx, ntf.ID); err != nil {
		t.Fatalf("active notification swept: %v", err)
	}
}
