package workers

import (
	"context"
	"log"
	"time"

	"github.com/daybook-app/daybook/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type CompletionRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes streak counters in the background whenever a
// completion changes. Streaks are derived data; losing a job only delays the
// next recompute, so the queue drops on overflow instead of blocking the
// request path.
type StreakWorker struct {
	habitRepo      HabitRepository
	completionRepo CompletionRepository
	userRepo       UserRepository
	jobs           chan StreakJob
}

func NewStreakWorker(hRepo HabitRepository, cRepo CompletionRepository, uRepo UserRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo:      hRepo,
		completionRepo: cRepo,
		userRepo:       uRepo,
		jobs:           make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker error fetching habit %s: %v", job.HabitID, err)
		return
	}

	user, err := w.userRepo.GetByID(ctx, habit.UserID)
	if err != nil {
		log.Printf("Worker error fetching owner of habit %s: %v", job.HabitID, err)
		return
	}

	// Streak days are the owner's local calendar days, so a stale timezone
	// must fail the job rather than fall back to UTC.
	loc, err := user.Location()
	if err != nil {
		log.Printf("Worker error resolving timezone for user %s: %v", user.ID, err)
		return
	}

	completions, err := w.completionRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker error fetching completions for %s: %v", job.HabitID, err)
		return
	}

	instants := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		instants = append(instants, c.OccurredAt)
	}

	current, longest := domain.Streaks(instants, loc, time.Now())

	if habit.CurrentStreak != current || habit.LongestStreak != longest {
		if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, current, longest); err != nil {
			log.Printf("Worker failed to update streaks for %s: %v", job.HabitID, err)
		} else {
			log.Printf("Streaks updated for %s: current=%d, longest=%d", habit.Title, current, longest)
		}
	}
}
