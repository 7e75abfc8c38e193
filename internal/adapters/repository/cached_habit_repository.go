package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daybook-app/daybook/internal/core/domain"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

const habitListTTL = 30 * time.Minute

// CachedHabitRepository is a cache-aside layer over another HabitRepository.
// Only the per-user list is cached; every write path invalidates it,
// including streak updates from the background worker. Cache failures are
// logged and ignored, the database stays the source of truth.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	cache *redis.Client
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:  next,
		cache: cache,
	}
}

func listKey(userID string) string {
	return "habits:list:" + userID
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, listKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] invalidate %s: %v", listKey(userID), err)
	}
}

// invalidateByHabitID resolves the owner first; writes addressed by habit id
// alone (worker updates, deletes) still have to drop the owner's list.
func (r *CachedHabitRepository) invalidateByHabitID(ctx context.Context, id string) {
	habit, err := r.next.GetByID(ctx, id)
	if err != nil || habit == nil {
		return
	}
	r.invalidate(ctx, habit.UserID)
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	key := listKey(userID)

	raw, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var habits []*domain.Habit
		if jsonErr := json.Unmarshal(raw, &habits); jsonErr == nil {
			return habits, nil
		}
		log.Printf("[CACHE] corrupted entry at %s, dropping it", key)
		r.cache.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		log.Printf("[CACHE] read %s: %v", key, err)
	}

	habits, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(habits); err == nil {
		if setErr := r.cache.Set(ctx, key, data, habitListTTL).Err(); setErr != nil {
			log.Printf("[CACHE] write %s: %v", key, setErr)
		}
	}

	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	return r.next.ListActiveIDs(ctx)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	// Resolve the owner before the row is gone.
	r.invalidateByHabitID(ctx, id)
	return r.next.Delete(ctx, id)
}

func (r *CachedHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	if err := r.next.UpdateStreaks(ctx, id, current, longest); err != nil {
		return err
	}
	r.invalidateByHabitID(ctx, id)
	return nil
}
