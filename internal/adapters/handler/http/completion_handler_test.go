package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/daybook-app/daybook/internal/adapters/handler/http"
	"github.com/daybook-app/daybook/internal/adapters/repository"
	"github.com/daybook-app/daybook/internal/core/domain"
	"github.com/daybook-app/daybook/internal/core/services"
	"github.com/daybook-app/daybook/internal/core/workers"
)

type memCompletionRepo struct {
	store map[string]*domain.Completion
}

func newMemCompletionRepo() *memCompletionRepo {
	return &memCompletionRepo{store: make(map[string]*domain.Completion)}
}

func (m *memCompletionRepo) Create(ctx context.Context, c *domain.Completion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.store[c.ID] = c
	return nil
}

func (m *memCompletionRepo) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	c, ok := m.store[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrCompletionNotFound
	}
	return c, nil
}

func (m *memCompletionRepo) Update(ctx context.Context, c *domain.Completion) error {
	if _, ok := m.store[c.ID]; !ok {
		return domain.ErrCompletionNotFound
	}
	c.Version++
	m.store[c.ID] = c
	return nil
}

func (m *memCompletionRepo) Delete(ctx context.Context, id string, userID string) error {
	c, ok := m.store[id]
	if !ok || c.UserID != userID {
		return domain.ErrCompletionNotFound
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	return nil
}

func (m *memCompletionRepo) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	var list []*domain.Completion
	for _, c := range m.store {
		if c.HabitID == habitID && c.DeletedAt == nil {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *memCompletionRepo) ListByHabitIDInWindow(ctx context.Context, habitID string, w domain.Window) ([]*domain.Completion, error) {
	var list []*domain.Completion
	for _, c := range m.store {
		if c.HabitID == habitID && c.DeletedAt == nil && w.Contains(c.OccurredAt) {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *memCompletionRepo) ListByUserIDInWindow(ctx context.Context, userID string, w domain.Window) ([]domain.Completion, error) {
	var list []domain.Completion
	for _, c := range m.store {
		if c.UserID == userID && c.DeletedAt == nil && w.Contains(c.OccurredAt) {
			list = append(list, *c)
		}
	}
	return list, nil
}

type memUserRepo struct{}

func (memUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }
func (memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Timezone: "UTC"}, nil
}
func (memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (memUserRepo) Update(ctx context.Context, u *domain.User) error { return nil }

func setupCompletionRouter(t *testing.T) (*gin.Engine, *repository.InMemoryHabitRepository, *memCompletionRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	habitRepo := repository.NewInMemoryHabitRepository()
	completionRepo := newMemCompletionRepo()
	worker := workers.NewStreakWorker(habitRepo, completionRepo, memUserRepo{})
	handler := adapterHTTP.NewCompletionHandler(
		services.NewCompletionService(completionRepo, habitRepo, worker))

	r := gin.New()
	group := r.Group("/api/v1")
	group.Use(testAuth())
	handler.RegisterRoutes(group)
	return r, habitRepo, completionRepo
}

func seedHabit(t *testing.T, repo *repository.InMemoryHabitRepository, userID string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, "Hydrate", "", "", "", "glasses", 2)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), h))
	return h
}

func TestCompletionHandler_Log(t *testing.T) {
	t.Run("Success: 201 Created", func(t *testing.T) {
		router, habitRepo, _ := setupCompletionRouter(t)
		h := seedHabit(t, habitRepo, "user-1")

		body := `{"habit_id": "` + h.ID + `", "occurred_at": "2025-09-29T08:30:00Z", "value": 2}`
		req, _ := http.NewRequest("POST", "/api/v1/completions", bytes.NewBufferString(body))
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"version":1`)
	})

	t.Run("Fail: 400 for an offset-less timestamp", func(t *testing.T) {
		router, habitRepo, _ := setupCompletionRouter(t)
		h := seedHabit(t, habitRepo, "user-1")

		body := `{"habit_id": "` + h.ID + `", "occurred_at": "2025-09-29T08:30:00"}`
		req, _ := http.NewRequest("POST", "/api/v1/completions", bytes.NewBufferString(body))
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "offset")
	})

	t.Run("Fail: 409 for an archived habit", func(t *testing.T) {
		router, habitRepo, _ := setupCompletionRouter(t)
		h := seedHabit(t, habitRepo, "user-1")
		h.Archive()

		body := `{"habit_id": "` + h.ID + `", "occurred_at": "2025-09-29T08:30:00Z"}`
		req, _ := http.NewRequest("POST", "/api/v1/completions", bytes.NewBufferString(body))
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Fail: 403 for someone else's habit", func(t *testing.T) {
		router, habitRepo, _ := setupCompletionRouter(t)
		h := seedHabit(t, habitRepo, "user-1")

		body := `{"habit_id": "` + h.ID + `", "occurred_at": "2025-09-29T08:30:00Z"}`
		req, _ := http.NewRequest("POST", "/api/v1/completions", bytes.NewBufferString(body))
		req.Header.Set("X-User-ID", "user-2")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCompletionHandler_Update(t *testing.T) {
	t.Run("Fail: 409 on stale version", func(t *testing.T) {
		router, habitRepo, completionRepo := setupCompletionRouter(t)
		h := seedHabit(t, habitRepo, "user-1")

		existing, err := domain.NewCompletion(h.ID, "user-1", time.Now().UTC(), 1)
		require.NoError(t, err)
		existing.Version = 3
		require.NoError(t, completionRepo.Create(context.Background(), existing))

		body := `{"value": 5, "version": 2}`
		req, _ := http.NewRequest("PUT", "/api/v1/completions/"+existing.ID, bytes.NewBufferString(body))
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "version conflict")
	})
}

func TestCompletionHandler_Delete(t *testing.T) {
	t.Run("Success: 204 and record is gone", func(t *testing.T) {
		router, habitRepo, completionRepo := setupCompletionRouter(t)
		h := seedHabit(t, habitRepo, "user-1")

		existing, err := domain.NewCompletion(h.ID, "user-1", time.Now().UTC(), 1)
		require.NoError(t, err)
		require.NoError(t, completionRepo.Create(context.Background(), existing))

		req, _ := http.NewRequest("DELETE", "/api/v1/completions/"+existing.ID, nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		_, err = completionRepo.GetByID(context.Background(), existing.ID)
		assert.ErrorIs(t, err, domain.ErrCompletionNotFound)
	})
}
