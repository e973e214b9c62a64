package models

import "time"

// DateLayout is the wire format for due dates (date only, no time of day).
const DateLayout = "2006-01-02"

// Status is a task's completion state
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggle flips between pending and completed
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Valid reports whether s is one of the two known statuses
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// User is the authenticated account as returned by the profile endpoint
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task represents a single task. DueDate is a date-only ISO string
// ("2006-01-02") or empty when the task has no due date.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      Status `json:"status"`
	UserID      int64  `json:"userId"`
}

// FormatDate renders t in the wire date format
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a wire-format due date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// IsPastDate reports whether due is strictly before today, comparing
// calendar days only. Empty and malformed dates are never past.
func IsPastDate(due string, now time.Time) bool {
	d, err := ParseDate(due)
	if err != nil {
		return false
	}
	return d.Format(DateLayout) < now.Format(DateLayout)
}
