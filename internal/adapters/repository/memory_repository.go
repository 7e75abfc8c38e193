package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/daybook-app/daybook/internal/core/domain"
)

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].SortOrder < habits[j].SortOrder
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryHabitRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, h := range r.store {
		if h.ArchivedAt == nil {
			ids = append(ids, h.ID)
		}
	}
	return ids, nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	habit.CurrentStreak = current
	habit.LongestStreak = longest
	return nil
}

type quotaKey struct {
	resource string
	day      string
}

// InMemoryQuotaRepository mirrors the Postgres counter semantics for tests:
// the mutex stands in for the database's statement-level atomicity, so the
// check-and-increment is still a single indivisible step.
type InMemoryQuotaRepository struct {
	counters map[quotaKey]*domain.QuotaCounter

	mu sync.Mutex
}

func NewInMemoryQuotaRepository() *InMemoryQuotaRepository {
	return &InMemoryQuotaRepository{
		counters: make(map[quotaKey]*domain.QuotaCounter),
	}
}

func (r *InMemoryQuotaRepository) key(resource string, day time.Time) quotaKey {
	return quotaKey{resource: resource, day: day.Format("2006-01-02")}
}

func (r *InMemoryQuotaRepository) Reserve(ctx context.Context, resource string, day time.Time, limit int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	counter, ok := r.counters[r.key(resource, day)]
	if !ok {
		counter = &domain.QuotaCounter{
			ResourceName: resource,
			Day:          day,
			Count:        1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		r.counters[r.key(resource, day)] = counter
		return 1, true, nil
	}

	if counter.Count >= limit {
		return 0, false, nil
	}

	counter.Count++
	counter.UpdatedAt = now
	return counter.Count, true, nil
}

func (r *InMemoryQuotaRepository) Release(ctx context.Context, resource string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter, ok := r.counters[r.key(resource, day)]
	if !ok {
		return nil
	}
	if counter.Count > 0 {
		counter.Count--
	}
	counter.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryQuotaRepository) Get(ctx context.Context, resource string, day time.Time) (*domain.QuotaCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter, ok := r.counters[r.key(resource, day)]
	if !ok {
		return nil, domain.ErrQuotaCounterNotFound
	}
	copied := *counter
	return &copied, nil
}
