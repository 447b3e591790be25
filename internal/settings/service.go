// Package settings implements the per-user settings resolver: lazy creation
// of a defaults row on first access plus the toggle operations the menu
// exposes.
//
// Toggles are read-then-write over two independent statements, not one
// atomic unit. Two devices toggling the same owner at the same instant can
// lose one update. With a single human behind each owner id that race is
// accepted; do not build on these toggles anywhere stronger guarantees are
// needed.
package settings

import (
	"context"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// Store is the slice of the repository the resolver needs.
type Store interface {
	GetSettings(ctx context.Context, owner int64) (*domain.UserSettings, error)
	SetDescriptionOptional(ctx context.Context, owner int64, v bool) error
	SetReminderEnabled(ctx context.Context, owner int64, v bool) error
	SetReminderTime(ctx context.Context, owner int64, clock string) error
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Get returns the owner's settings, materializing defaults on first access.
func (s *Service) Get(ctx context.Context, owner int64) (*domain.UserSettings, error) {
	return s.store.GetSettings(ctx, owner)
}

// ToggleDescription flips the description-prompt flag and returns the new value.
func (s *Service) ToggleDescription(ctx context.Context, owner int64) (bool, error) {
	cur, err := s.store.GetSettings(ctx, owner)
	if err != nil {
		return false, err
	}
	next := !cur.DescriptionOptional
	if err := s.store.SetDescriptionOptional(ctx, owner, next); err != nil {
		return false, err
	}
	return next, nil
}

// ToggleReminder flips the daily reminder flag and returns the new value.
// Turning the reminder on does not set a time; until the front-end collects
// one, the daily scan simply never matches the owner.
func (s *Service) ToggleReminder(ctx context.Context, owner int64) (bool, error) {
	cur, err := s.store.GetSettings(ctx, owner)
	if err != nil {
		return false, err
	}
	next := !cur.ReminderEnabled
	if err := s.store.SetReminderEnabled(ctx, owner, next); err != nil {
		return false, err
	}
	return next, nil
}

// SetReminderTime stores the daily reminder time. The clock string must
// already be validated and normalized (domain.ParseClock); the resolver and
// the store trust it.
func (s *Service) SetReminderTime(ctx context.Context, owner int64, clock string) error {
	if _, err := s.store.GetSettings(ctx, owner); err != nil {
		return err
	}
	return s.store.SetReminderTime(ctx, owner, clock)
}
