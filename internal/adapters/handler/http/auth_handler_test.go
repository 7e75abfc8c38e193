package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/daybook-app/daybook/internal/adapters/handler/http"
	"github.com/daybook-app/daybook/internal/core/domain"
	"github.com/daybook-app/daybook/internal/core/services"
)

type mapUserRepo struct {
	mu    sync.Mutex
	store map[string]*domain.User
}

func newMapUserRepo() *mapUserRepo {
	return &mapUserRepo{store: make(map[string]*domain.User)}
}

func (m *mapUserRepo) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.store[u.ID] = u
	return nil
}

func (m *mapUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mapUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mapUserRepo) Update(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.store[u.ID] = u
	return nil
}

func setupAuthRouter() (*gin.Engine, *mapUserRepo) {
	gin.SetMode(gin.TestMode)

	repo := newMapUserRepo()
	authService := services.NewAuthService(repo)
	tokenService := services.NewTokenService("test-secret", "daybook-test", time.Hour, repo)
	handler := adapterHTTP.NewAuthHandler(authService, tokenService)

	r := gin.New()
	public := r.Group("/api/v1")
	handler.RegisterRoutes(public)

	protected := r.Group("/api/v1")
	protected.Use(testAuth())
	handler.RegisterProtectedRoutes(protected)
	return r, repo
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success: 201 with lowercased email", func(t *testing.T) {
		router, _ := setupAuthRouter()

		w := postJSON(router, "/api/v1/auth/register",
			`{"email": "Anna@Example.com", "password": "supersecret", "timezone": "Europe/Rome"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"anna@example.com"`)
		assert.Contains(t, w.Body.String(), `"timezone":"Europe/Rome"`)
		assert.NotContains(t, w.Body.String(), "supersecret")
	})

	t.Run("Fail: 409 duplicate email", func(t *testing.T) {
		router, _ := setupAuthRouter()

		first := postJSON(router, "/api/v1/auth/register",
			`{"email": "anna@example.com", "password": "supersecret"}`)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(router, "/api/v1/auth/register",
			`{"email": "anna@example.com", "password": "othersecret"}`)

		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("Fail: 400 unknown timezone", func(t *testing.T) {
		router, _ := setupAuthRouter()

		w := postJSON(router, "/api/v1/auth/register",
			`{"email": "anna@example.com", "password": "supersecret", "timezone": "Atlantis/Lost_City"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "timezone")
	})

	t.Run("Fail: 400 short password rejected by binding", func(t *testing.T) {
		router, _ := setupAuthRouter()

		w := postJSON(router, "/api/v1/auth/register",
			`{"email": "anna@example.com", "password": "short"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	register := func(t *testing.T, router *gin.Engine) {
		t.Helper()
		w := postJSON(router, "/api/v1/auth/register",
			`{"email": "anna@example.com", "password": "supersecret"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("Success: 200 with a usable token", func(t *testing.T) {
		router, _ := setupAuthRouter()
		register(t, router)

		w := postJSON(router, "/api/v1/auth/login",
			`{"email": "anna@example.com", "password": "supersecret"}`)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "anna@example.com", resp.User.Email)
	})

	t.Run("Fail: 401 wrong password", func(t *testing.T) {
		router, _ := setupAuthRouter()
		register(t, router)

		w := postJSON(router, "/api/v1/auth/login",
			`{"email": "anna@example.com", "password": "wrongsecret"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("Fail: 401 unknown email looks identical to wrong password", func(t *testing.T) {
		router, _ := setupAuthRouter()

		w := postJSON(router, "/api/v1/auth/login",
			`{"email": "ghost@example.com", "password": "whatever1"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})
}

func TestAuthHandler_UpdateTimezone(t *testing.T) {
	t.Run("Success: 200 and persisted", func(t *testing.T) {
		router, repo := setupAuthRouter()

		u, err := domain.NewUser("", "anna@example.com", "UTC")
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), u))

		body := `{"timezone": "America/New_York"}`
		req, _ := http.NewRequest("PUT", "/api/v1/me/timezone", bytes.NewBufferString(body))
		req.Header.Set("X-User-ID", u.ID)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		stored, _ := repo.GetByID(context.Background(), u.ID)
		assert.Equal(t, "America/New_York", stored.Timezone)
	})

	t.Run("Fail: 422 unknown zone leaves user untouched", func(t *testing.T) {
		router, repo := setupAuthRouter()

		u, err := domain.NewUser("", "anna@example.com", "Europe/Rome")
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), u))

		body := `{"timezone": "Narnia/Wardrobe"}`
		req, _ := http.NewRequest("PUT", "/api/v1/me/timezone", bytes.NewBufferString(body))
		req.Header.Set("X-User-ID", u.ID)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		stored, _ := repo.GetByID(context.Background(), u.ID)
		assert.Equal(t, "Europe/Rome", stored.Timezone)
	})
}
