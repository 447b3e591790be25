package domain

// TaskStatus is the lifecycle state of a task. A task toggles freely
// between open and done until the retention sweeper removes it.
type TaskStatus int

const (
	StatusOpen TaskStatus = 0
	StatusDone TaskStatus = 1
)

// Toggle returns the opposite status.
func (s TaskStatus) Toggle() TaskStatus {
	if s == StatusOpen {
		return StatusDone
	}
	return StatusOpen
}

// Task is a single to-do item owned by one user.
type Task struct {
	ID          int64
	Owner       int64 // telegram chat id
	Title       string
	Description string
	Status      TaskStatus
}
