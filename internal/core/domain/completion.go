package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")
	ErrCompletionConflict = errors.New("completion version conflict")
	ErrUnauthorized       = errors.New("unauthorized access to resource")
)

// Completion records that a trackable thing happened at one UTC instant.
// The payload is immutable once created apart from notes and value; deletion
// is a soft delete owned by the habit domain.
type Completion struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
	Value      int       `json:"value" db:"value"`
	Notes      string    `json:"notes" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewCompletion(habitID, userID string, occurredAt time.Time, value int) (*Completion, error) {
	if occurredAt.IsZero() {
		return nil, ErrNaiveInstant
	}

	now := time.Now().UTC()

	return &Completion{
		HabitID:    habitID,
		UserID:     userID,
		OccurredAt: occurredAt.UTC(),
		Value:      value,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if c.Value < 0 {
		return errors.New("value cannot be negative")
	}
	if c.OccurredAt.IsZero() {
		return ErrNaiveInstant
	}
	return nil
}
