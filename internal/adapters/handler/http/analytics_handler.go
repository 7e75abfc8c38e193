package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/internal/adapters/gateway"
	"github.com/daybook-app/daybook/internal/adapters/handler/http/middleware"
	"github.com/daybook-app/daybook/internal/core/services"
)

type AnalyticsHandler struct {
	svc      *services.AnalyticsService
	insights *gateway.InsightsClient
}

// NewAnalyticsHandler accepts a nil insights client; the summary endpoint
// then reports the feature as unavailable instead of panicking.
func NewAnalyticsHandler(svc *services.AnalyticsService, insights *gateway.InsightsClient) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, insights: insights}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklyStats)
	r.GET("/stats/today", h.GetTodayProgress)
	r.GET("/habits/:id/streak", h.GetStreak)
	r.GET("/habits/:id/completions/recent", h.GetRecentCompletions)
	r.GET("/insights/weekly", h.GetWeeklyInsight)
}

func (h *AnalyticsHandler) GetWeeklyStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetTodayProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	progress, err := h.svc.GetTodayTaskProgress(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *AnalyticsHandler) GetStreak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	report, err := h.svc.GetStreak(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetRecentCompletions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = parsed
	}

	completions, err := h.svc.GetRecentCompletions(c.Request.Context(), userID, c.Param("id"), days)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, completions)
}

func (h *AnalyticsHandler) GetWeeklyInsight(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if h.insights == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insights are not configured"})
		return
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	insight, err := h.insights.WeeklySummary(c.Request.Context(), userID, stats)
	if err != nil {
		if errors.Is(err, gateway.ErrInsightsQuotaExhausted) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "daily insights budget exhausted, try again tomorrow",
			})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, insight)
}
