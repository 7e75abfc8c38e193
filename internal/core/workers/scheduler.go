package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

type HabitLister interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

// StreakScheduler sweeps every active habit through the streak worker once a
// day. Streaks decay by time passing, not only by new completions: a habit
// with no entry since yesterday must drop to zero even if nobody logs in.
type StreakScheduler struct {
	habits HabitLister
	worker *StreakWorker
	cron   *cron.Cron
	spec   string
}

func NewStreakScheduler(habits HabitLister, worker *StreakWorker, spec string) *StreakScheduler {
	if spec == "" {
		spec = "30 0 * * *"
	}
	return &StreakScheduler{
		habits: habits,
		worker: worker,
		cron:   cron.New(),
		spec:   spec,
	}
}

func (s *StreakScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("streak scheduler: invalid cron spec %q: %w", s.spec, err)
	}

	s.cron.Start()
	log.Printf("Streak scheduler started (spec %q)", s.spec)
	return nil
}

func (s *StreakScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("Streak scheduler stopped")
}

func (s *StreakScheduler) sweep(ctx context.Context) {
	ids, err := s.habits.ListActiveIDs(ctx)
	if err != nil {
		log.Printf("Streak scheduler failed to list habits: %v", err)
		return
	}

	log.Printf("Streak scheduler sweeping %d habits", len(ids))
	for _, id := range ids {
		s.worker.Enqueue(id)
	}
}
