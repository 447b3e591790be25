package domain

// Notification is a one-shot reminder scheduled for an exact date and minute.
// Active flips to false exactly once: either when the notifier fires it or
// when the user cancels it. It is never reactivated.
type Notification struct {
	ID       int64
	Owner    int64
	Name     string
	FireDate string // DateLayout, e.g. "25.12.2024"
	FireTime string // ClockLayout, e.g. "09:00"
	Active   bool
}
