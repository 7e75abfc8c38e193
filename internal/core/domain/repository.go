package domain

import (
	"context"
	"errors"
)

var ErrHabitNotFound = errors.New("habit not found")

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits associated with a specific user,
	// archived ones included.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit from the system.
	Delete(ctx context.Context, id string) error

	// ListActiveIDs returns the ids of every non-archived habit, for the
	// nightly streak refresh sweep.
	ListActiveIDs(ctx context.Context) ([]string, error)

	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}
