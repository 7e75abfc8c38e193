package services

import (
	"context"
	"time"

	"github.com/daybook-app/daybook/internal/core/domain"
	"github.com/daybook-app/daybook/internal/core/workers"
)

type CompletionService struct {
	repo      domain.CompletionRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
}

func NewCompletionService(repo domain.CompletionRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *CompletionService {
	return &CompletionService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type LogCompletionInput struct {
	HabitID    string
	UserID     string
	OccurredAt time.Time
	Value      int
	Notes      string
}

type UpdateCompletionInput struct {
	ID      string
	UserID  string
	Value   int
	Notes   string
	Version int
}

func (s *CompletionService) Log(ctx context.Context, input LogCompletionInput) (*domain.Completion, error) {
	completion, err := domain.NewCompletion(input.HabitID, input.UserID, input.OccurredAt, input.Value)
	if err != nil {
		return nil, err
	}
	completion.Notes = input.Notes

	if err := completion.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.GetByID(ctx, completion.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != completion.UserID {
		return nil, domain.ErrUnauthorized
	}
	if habit.ArchivedAt != nil {
		return nil, domain.ErrHabitArchived
	}

	if err := s.repo.Create(ctx, completion); err != nil {
		return nil, err
	}

	s.worker.Enqueue(completion.HabitID)

	return completion, nil
}

func (s *CompletionService) Update(ctx context.Context, input UpdateCompletionInput) (*domain.Completion, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, domain.ErrCompletionConflict
	}

	existing.Value = input.Value
	existing.Notes = input.Notes
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(existing.HabitID)

	return existing, nil
}

func (s *CompletionService) GetByID(ctx context.Context, id string, userID string) (*domain.Completion, error) {
	completion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if completion.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return completion, nil
}

func (s *CompletionService) ListByHabitID(ctx context.Context, habitID, userID string) ([]*domain.Completion, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return s.repo.ListByHabitID(ctx, habitID)
}

func (s *CompletionService) Delete(ctx context.Context, id string, userID string) error {
	completion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if completion.UserID != userID {
		return domain.ErrUnauthorized
	}

	habitID := completion.HabitID

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(habitID)

	return nil
}
