package domain

// UserSettings is the per-user configuration row, materialized lazily with
// all-false defaults on the first read for an owner.
//
// ReminderTime is a ClockLayout string or empty. The daily reminder scan
// matches only rows with ReminderEnabled and a set time, so an enabled row
// without a time is a defined no-match, not an error.
type UserSettings struct {
	Owner               int64
	DescriptionOptional bool   // task creation skips the description prompt
	ReminderEnabled     bool   // daily open-task digest on/off
	ReminderTime        string // "HH:MM", empty when unset
}
