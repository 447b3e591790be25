package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/graevsky/todo-notify-tg-bot/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return New(repo)
}

func TestGet_Defaults(t *testing.T) {
	svc := newService(t)
	s, err := svc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.DescriptionOptional || s.ReminderEnabled || s.ReminderTime != "" {
		t.Fatalf("defaults wrong: %+v", s)
	}
}

func TestToggleDescription_RoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.ToggleDescription(ctx, 1)
	if err != nil || first != true {
		t.Fatalf("first toggle = %v (err %v), want true", first, err)
	}
	second, err := svc.ToggleDescription(ctx, 1)
	if err != nil || second != false {
		t.Fatalf("second toggle = %v (err %v), want false", second, err)
	}
}

func TestToggleReminder_RoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.ToggleReminder(ctx, 1)
	if err != nil || first != true {
		t.Fatalf("first toggle = %v (err %v), want true", first, err)
	}
	second, err := svc.ToggleReminder(ctx, 1)
	if err != nil || second != false {
		t.Fatalf("second toggle = %v (err %v), want false", second, err)
	}
}

func TestSetReminderTime(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.SetReminderTime(ctx, 1, "09:30"); err != nil {
		t.Fatalf("set time: %v", err)
	}
	s, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.ReminderTime != "09:30" {
		t.Fatalf("time = %q, want 09:30", s.ReminderTime)
	}
}
