package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// --- fakes ---

type fakeSender struct {
	sent    []sentMsg
	failFor map[int64]bool
}

type sentMsg struct {
	chatID int64
	text   string
}

func (s *fakeSender) SendMessage(chatID int64, text string) error {
	if s.failFor[chatID] {
		return errors.New("transport down")
	}
	s.sent = append(s.sent, sentMsg{chatID: chatID, text: text})
	return nil
}

type fakeReminderStore struct {
	settings []domain.UserSettings
	tasks    map[int64][]domain.Task
}

func (f *fakeReminderStore) ListReminderOwners(_ context.Context, clock string) ([]int64, error) {
	var owners []int64
	for _, s := range f.settings {
		if s.ReminderEnabled && s.ReminderTime == clock {
			owners = append(owners, s.Owner)
		}
	}
	return owners, nil
}

func (f *fakeReminderStore) ListTasks(_ context.Context, owner int64, openOnly bool) ([]domain.Task, error) {
	var res []domain.Task
	for _, t := range f.tasks[owner] {
		if openOnly && t.Status != domain.StatusOpen {
			continue
		}
		res = append(res, t)
	}
	return res, nil
}

func (f *fakeReminderStore) CountDanglingReminders(context.Context) (int64, error) {
	var n int64
	for _, s := range f.settings {
		if s.ReminderEnabled && s.ReminderTime == "" {
			n++
		}
	}
	return n, nil
}

type fakeNotifierStore struct {
	ntfs []domain.Notification
}

func (f *fakeNotifierStore) DueNotifications(_ context.Context, date, clock string) ([]domain.Notification, error) {
	var res []domain.Notification
	for _, n := range f.ntfs {
		if n.Active && n.FireDate == date && n.FireTime == clock {
			res = append(res, n)
		}
	}
	return res, nil
}

func (f *fakeNotifierStore) DeactivateNotification(_ context.Context, id int64) error {
	for i := range f.ntfs {
		if f.ntfs[i].ID == id {
			f.ntfs[i].Active = false
			return nil
		}
	}
	return fmt.Errorf("notification %d not found", id)
}

func at(clock string) time.Time {
	t, err := time.Parse("02.01.2006 15:04", "25.12.2024 "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

// --- daily reminder ---

func TestReminderTick_MatchesConfiguredMinuteOnly(t *testing.T) {
	st := &fakeReminderStore{
		settings: []domain.UserSettings{
			{Owner: 1, ReminderEnabled: true, ReminderTime: "09:00"},
			{Owner: 2, ReminderEnabled: false, ReminderTime: "09:00"},
			{Owner: 3, ReminderEnabled: true, ReminderTime: "10:00"},
		},
		tasks: map[int64][]domain.Task{
			1: {{ID: 1, Owner: 1, Title: "Buy milk", Status: domain.StatusOpen}},
			2: {{ID: 2, Owner: 2, Title: "Hidden", Status: domain.StatusOpen}},
			3: {{ID: 3, Owner: 3, Title: "Later", Status: domain.StatusOpen}},
		},
	}
	sender := &fakeSender{}
	r := NewReminder(st, zap.NewNop(), sender, time.UTC, time.Minute)

	r.tick(context.Background(), at("09:00"))

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.chatID != 1 {
		t.Fatalf("delivered to %d, want 1", got.chatID)
	}
	if !strings.Contains(got.text, "Buy milk ❌") {
		t.Fatalf("digest missing task line: %q", got.text)
	}
}

func TestReminderTick_SkipsOwnerWithoutOpenTasks(t *testing.T) {
	st := &fakeReminderStore{
		settings: []domain.UserSettings{
			{Owner: 1, ReminderEnabled: true, ReminderTime: "09:00"},
		},
		tasks: map[int64][]domain.Task{
			1: {{ID: 1, Owner: 1, Title: "Done already", Status: domain.StatusDone}},
		},
	}
	sender := &fakeSender{}
	r := NewReminder(st, zap.NewNop(), sender, time.UTC, time.Minute)

	r.tick(context.Background(), at("09:00"))

	if len(sender.sent) != 0 {
		t.Fatalf("sent %d messages, want 0", len(sender.sent))
	}
}

func TestReminderTick_IsolatesDeliveryFailures(t *testing.T) {
	st := &fakeReminderStore{
		settings: []domain.UserSettings{
			{Owner: 1, ReminderEnabled: true, ReminderTime: "09:00"},
			{Owner: 2, ReminderEnabled: true, ReminderTime: "09:00"},
		},
		tasks: map[int64][]domain.Task{
			1: {{ID: 1, Owner: 1, Title: "First", Status: domain.StatusOpen}},
			2: {{ID: 2, Owner: 2, Title: "Second", Status: domain.StatusOpen}},
		},
	}
	sender := &fakeSender{failFor: map[int64]bool{1: true}}
	r := NewReminder(st, zap.NewNop(), sender, time.UTC, time.Minute)

	r.tick(context.Background(), at("09:00"))

	if len(sender.sent) != 1 || sender.sent[0].chatID != 2 {
		t.Fatalf("second owner must still receive its digest, sent: %+v", sender.sent)
	}
}

func TestReminderTick_EnabledWithoutTimeNeverMatches(t *testing.T) {
	st := &fakeReminderStore{
		settings: []domain.UserSettings{
			{Owner: 1, ReminderEnabled: true, ReminderTime: ""},
		},
		tasks: map[int64][]domain.Task{
			1: {{ID: 1, Owner: 1, Title: "Orphan", Status: domain.StatusOpen}},
		},
	}
	sender := &fakeSender{}
	r := NewReminder(st, zap.NewNop(), sender, time.UTC, time.Minute)

	// Scan a full day of minutes; a time-less row must never fire.
	for h := 0; h < 24; h++ {
		r.tick(context.Background(), at(fmt.Sprintf("%02d:00", h)))
	}
	if len(sender.sent) != 0 {
		t.Fatalf("time-less reminder fired: %+v", sender.sent)
	}
}

// --- one-shot notifier ---

func TestNotifierTick_FiresOnceAndDeactivates(t *testing.T) {
	st := &fakeNotifierStore{
		ntfs: []domain.Notification{
			{ID: 7, Owner: 42, Name: "Call mom", FireDate: "25.12.2024", FireTime: "09:00", Active: true},
		},
	}
	sender := &fakeSender{}
	n := NewNotifier(st, zap.NewNop(), sender, time.UTC, time.Minute)

	n.tick(context.Background(), at("09:00"))

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.sent[0].chatID != 42 || sender.sent[0].text != "Reminder: Call mom" {
		t.Fatalf("unexpected delivery: %+v", sender.sent[0])
	}
	if st.ntfs[0].Active {
		t.Fatal("notification must be deactivated after delivery")
	}

	// Re-entry at the same minute must not re-deliver.
	n.tick(context.Background(), at("09:00"))
	if len(sender.sent) != 1 {
		t.Fatalf("re-entry re-delivered: %d messages", len(sender.sent))
	}
}

func TestNotifierTick_WrongMinuteOrDateNoMatch(t *testing.T) {
	st := &fakeNotifierStore{
		ntfs: []domain.Notification{
			{ID: 1, Owner: 42, Name: "Call mom", FireDate: "25.12.2024", FireTime: "09:00", Active: true},
		},
	}
	sender := &fakeSender{}
	n := NewNotifier(st, zap.NewNop(), sender, time.UTC, time.Minute)

	n.tick(context.Background(), at("08:59"))
	n.tick(context.Background(), at("09:01"))
	otherDay := time.Date(2024, time.December, 26, 9, 0, 0, 0, time.UTC)
	n.tick(context.Background(), otherDay)

	if len(sender.sent) != 0 {
		t.Fatalf("matched outside the scheduled minute: %+v", sender.sent)
	}
	if !st.ntfs[0].Active {
		t.Fatal("unfired notification must stay active")
	}
}

func TestNotifierTick_KeepsActiveOnSendFailure(t *testing.T) {
	st := &fakeNotifierStore{
		ntfs: []domain.Notification{
			{ID: 1, Owner: 42, Name: "Call mom", FireDate: "25.12.2024", FireTime: "09:00", Active: true},
		},
	}
	sender := &fakeSender{failFor: map[int64]bool{42: true}}
	n := NewNotifier(st, zap.NewNop(), sender, time.UTC, time.Minute)

	n.tick(context.Background(), at("09:00"))

	if !st.ntfs[0].Active {
		t.Fatal("failed delivery must not deactivate the notification")
	}

	// Transport recovers within the same minute: the retry delivers and
	// deactivates.
	sender.failFor = nil
	n.tick(context.Background(), at("09:00"))
	if len(sender.sent) != 1 || st.ntfs[0].Active {
		t.Fatalf("retry did not deliver exactly once: sent=%d active=%v", len(sender.sent), st.ntfs[0].Active)
	}
}

func TestNotifierTick_SeparateMessagesPerMatch(t *testing.T) {
	st := &fakeNotifierStore{
		ntfs: []domain.Notification{
			{ID: 1, Owner: 42, Name: "First", FireDate: "25.12.2024", FireTime: "09:00", Active: true},
			{ID: 2, Owner: 42, Name: "Second", FireDate: "25.12.2024", FireTime: "09:00", Active: true},
		},
	}
	sender := &fakeSender{}
	n := NewNotifier(st, zap.NewNop(), sender, time.UTC, time.Minute)

	n.tick(context.Background(), at("09:00"))

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sender.sent))
	}
}

func TestDigestText(t *testing.T) {
	tasks := []domain.Task{
		{Title: "Buy milk", Status: domain.StatusOpen},
		{Title: "Ship parcel", Status: domain.StatusDone},
	}
	got := DigestText(tasks)
	want := "Your tasks for today:\nBuy milk ❌\nShip parcel ✅"
	if got != want {
		t.Fatalf("DigestText = %q, want %q", got, want)
	}
}
