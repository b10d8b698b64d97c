package notify

import "time"

// Notification is one scheduled user-facing message.
type Notification struct {
	ID    string
	Title string
	Body  string
}

// Presentation controls how a fired notification is delivered.
type Presentation struct {
	Banner bool
	Sound  bool
}

// Notifier schedules non-repeating notifications by id. Scheduling the
// same id again replaces the pending one.
type Notifier interface {
	Schedule(n Notification, after time.Duration) error
	Cancel(id string)
	CancelAll()
}
