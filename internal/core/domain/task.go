package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskTitleEmpty    = errors.New("task title cannot be empty")
	ErrTaskAlreadyDone   = errors.New("task is already completed")
	ErrTaskNotDone       = errors.New("task is not completed")
	ErrTaskInvalidUserID = errors.New("invalid user id")
)

// Task is a one-off to-do. DueDate is a pure calendar date (stored at
// midnight UTC, interpreted by its year/month/day only); CompletedAt is a
// real instant.
type Task struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	Priority    int        `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func NewTask(userID, title, notes string, priority int, dueDate *time.Time) (*Task, error) {
	if userID == "" {
		return nil, ErrTaskInvalidUserID
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrTaskTitleEmpty
	}

	now := time.Now().UTC()

	task := &Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Notes:     strings.TrimSpace(notes),
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if dueDate != nil {
		d := normalizeDueDate(*dueDate)
		task.DueDate = &d
	}
	return task, nil
}

// normalizeDueDate strips the time of day: a due date is a calendar concept,
// not an instant, so it never shifts when read in another timezone.
func normalizeDueDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dueLocalDate reads the due date's calendar components directly, without a
// zone conversion that would move it across midnight.
func (t *Task) dueLocalDate() LocalDate {
	y, m, d := t.DueDate.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

func (t *Task) Complete(at time.Time) error {
	if t.CompletedAt != nil {
		return ErrTaskAlreadyDone
	}
	done := at.UTC()
	t.CompletedAt = &done
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *Task) Reopen() error {
	if t.CompletedAt == nil {
		return ErrTaskNotDone
	}
	t.CompletedAt = nil
	t.UpdatedAt = time.Now().UTC()
	return nil
}
