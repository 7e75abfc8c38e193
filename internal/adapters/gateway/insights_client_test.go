package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/adapters/gateway"
	"github.com/daybook-app/daybook/internal/adapters/repository"
	"github.com/daybook-app/daybook/internal/core/services"
)

func newQuota(limit int) *services.QuotaService {
	return services.NewQuotaService(repository.NewInMemoryQuotaRepository(), limit, time.UTC)
}

func TestInsightsClient_WeeklySummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Posts stats and keeps the quota slot", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "/v1/summaries", r.URL.Path)
			w.Write([]byte(`{"summary":"Strong week","suggestions":["keep hydrating"]}`))
		}))
		defer server.Close()

		quota := newQuota(5)
		client := gateway.NewInsightsClient(server.URL, "test-key", quota)

		insight, err := client.WeeklySummary(ctx, "u1", map[string]int{"days": 3})

		require.NoError(t, err)
		assert.Equal(t, "Strong week", insight.Summary)
		assert.Equal(t, []string{"keep hydrating"}, insight.Suggestions)
		assert.Equal(t, "Bearer test-key", gotAuth)

		usage, err := quota.Usage(ctx, gateway.QuotaResource)
		require.NoError(t, err)
		assert.Equal(t, 1, usage.Count, "a billable call keeps its slot")
	})

	t.Run("Quota: Exhausted budget refuses before any network call", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		client := gateway.NewInsightsClient(server.URL, "k", newQuota(0))

		_, err := client.WeeklySummary(ctx, "u1", nil)

		assert.ErrorIs(t, err, gateway.ErrInsightsQuotaExhausted)
		assert.False(t, called)
	})

	t.Run("Failure: Downstream error releases the slot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		quota := newQuota(5)
		client := gateway.NewInsightsClient(server.URL, "k", quota)

		_, err := client.WeeklySummary(ctx, "u1", nil)
		require.Error(t, err)

		usage, err := quota.Usage(ctx, gateway.QuotaResource)
		require.NoError(t, err)
		assert.Equal(t, 0, usage.Count, "failed call must give its slot back")
	})

	t.Run("Failure: Malformed response releases the slot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		quota := newQuota(5)
		client := gateway.NewInsightsClient(server.URL, "k", quota)

		_, err := client.WeeklySummary(ctx, "u1", nil)
		require.Error(t, err)

		usage, err := quota.Usage(ctx, gateway.QuotaResource)
		require.NoError(t, err)
		assert.Equal(t, 0, usage.Count)
	})

	t.Run("Quota: Limit 1 allows a retry after a failure", func(t *testing.T) {
		failFirst := true
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if failFirst {
				failFirst = false
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"summary":"ok","suggestions":[]}`))
		}))
		defer server.Close()

		client := gateway.NewInsightsClient(server.URL, "k", newQuota(1))

		_, err := client.WeeklySummary(ctx, "u1", nil)
		require.Error(t, err)

		insight, err := client.WeeklySummary(ctx, "u1", nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", insight.Summary)
	})
}
