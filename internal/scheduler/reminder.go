// Package scheduler hosts the background loops: the daily reminder digest,
// the one-shot notifier and the retention sweeper. Each loop polls the store
// on its own cadence and pushes matches through the Sender; the loops are
// independent and share nothing but the repository.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// Sender is the minimal outbound capability the loops need. The telegram
// router implements it; sends may fail transiently.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// ReminderStore is the slice of the repository the daily reminder scan reads.
type ReminderStore interface {
	ListReminderOwners(ctx context.Context, clock string) ([]int64, error)
	ListTasks(ctx context.Context, owner int64, openOnly bool) ([]domain.Task, error)
	CountDanglingReminders(ctx context.Context) (int64, error)
}

// Reminder scans once per minute for users whose configured daily reminder
// time equals the current minute and sends them their open-task digest.
type Reminder struct {
	store    ReminderStore
	log      *zap.Logger
	sender   Sender
	loc      *time.Location
	interval time.Duration
}

func NewReminder(store ReminderStore, log *zap.Logger, sender Sender, loc *time.Location, interval time.Duration) *Reminder {
	return &Reminder{store: store, log: log, sender: sender, loc: loc, interval: interval}
}

// Run ticks until ctx is cancelled. Iterations are strictly sequential: a
// slow tick delays the next one, it never overlaps it.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("reminder loop stopping")
			return
		case <-ticker.C:
			r.tick(ctx, time.Now())
		}
	}
}

// tick performs one scan for the minute containing now. A store failure
// aborts this tick only; the loop retries on its normal cadence.
func (r *Reminder) tick(ctx context.Context, now time.Time) {
	clock := now.In(r.loc).Format(domain.ClockLayout)

	owners, err := r.store.ListReminderOwners(ctx, clock)
	if err != nil {
		r.log.Error("list reminder owners failed", zap.Error(err), zap.String("clock", clock))
		return
	}

	for _, owner := range owners {
		if err := r.remindOne(ctx, owner); err != nil {
			// Isolate per-owner failures; the rest of the scan proceeds.
			r.log.Error("daily reminder failed", zap.Error(err), zap.Int64("chatID", owner))
		}
	}

	if dangling, err := r.store.CountDanglingReminders(ctx); err == nil && dangling > 0 {
		r.log.Warn("reminders enabled without a time set", zap.Int64("count", dangling))
	}
}

func (r *Reminder) remindOne(ctx context.Context, owner int64) error {
	tasks, err := r.store.ListTasks(ctx, owner, true)
	if err != nil {
		return fmt.Errorf("list open tasks: %w", err)
	}
	if len(tasks) == 0 {
		// Matched but nothing to report; intentionally silent.
		return nil
	}
	return r.sender.SendMessage(owner, DigestText(tasks))
}

// DigestText renders the daily digest: a header plus one line per task with
// its done marker.
func DigestText(tasks []domain.Task) string {
	var b strings.Builder
	b.WriteString("Your tasks for today:")
	for _, t := range tasks {
		marker := "❌"
		if t.Status == domain.StatusDone {
			marker = "✅"
		}
		b.WriteString("\n")
		b.WriteString(t.Title)
		b.WriteString(" ")
		b.WriteString(marker)
	}
	return b.String()
}
