package services

import (
	"context"
	"time"

	"github.com/daybook-app/daybook/internal/core/domain"
)

type TaskService struct {
	repo domain.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo domain.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

type CreateTaskInput struct {
	UserID   string
	Title    string
	Notes    string
	Priority int
	DueDate  *time.Time
}

type UpdateTaskInput struct {
	ID       string
	UserID   string
	Title    string
	Notes    string
	Priority int
	DueDate  *time.Time
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.UserID, input.Title, input.Notes, input.Priority, input.DueDate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return task, nil
}

func (s *TaskService) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	replacement, err := domain.NewTask(input.UserID, input.Title, input.Notes, input.Priority, input.DueDate)
	if err != nil {
		return nil, err
	}

	task.Title = replacement.Title
	task.Notes = replacement.Notes
	task.Priority = replacement.Priority
	task.DueDate = replacement.DueDate
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Complete(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := task.Complete(s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Reopen(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := task.Reopen(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}
