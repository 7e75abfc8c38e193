package domain

import (
	"context"
)

// CompletionRepository is the event source the analytics core depends on.
// Listings carry no ordering guarantee; the streak and progress code sorts
// and buckets internally.
type CompletionRepository interface {
	// Create persists a new completion.
	Create(ctx context.Context, completion *Completion) error

	// GetByID retrieves a single active (non-deleted) completion.
	GetByID(ctx context.Context, id string) (*Completion, error)

	// Update modifies notes/value on an existing completion.
	// Implementations must handle optimistic locking (version check).
	Update(ctx context.Context, completion *Completion) error

	// Delete performs a soft delete. userID guards against deleting
	// someone else's record.
	Delete(ctx context.Context, id string, userID string) error

	// ListByHabitID returns the full completion history of one habit.
	ListByHabitID(ctx context.Context, habitID string) ([]*Completion, error)

	// ListByHabitIDInWindow restricts the history to a UTC window,
	// occurred_at >= start AND occurred_at < end.
	ListByHabitIDInWindow(ctx context.Context, habitID string, w Window) ([]*Completion, error)

	// ListByUserIDInWindow returns all of a user's completions across
	// habits inside a UTC window.
	ListByUserIDInWindow(ctx context.Context, userID string, w Window) ([]Completion, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByUserID(ctx context.Context, userID string) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string, userID string) error
}

type MetricRepository interface {
	CreateMetric(ctx context.Context, metric *Metric) error
	GetMetricByID(ctx context.Context, id string) (*Metric, error)
	ListMetricsByUserID(ctx context.Context, userID string) ([]*Metric, error)
	DeleteMetric(ctx context.Context, id string, userID string) error

	AddSample(ctx context.Context, sample *MetricSample) error
	ListSamplesInWindow(ctx context.Context, metricID string, w Window) ([]*MetricSample, error)
}
