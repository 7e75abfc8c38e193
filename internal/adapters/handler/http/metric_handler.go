package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/daybook-app/daybook/internal/adapters/handler/http/middleware"
	"github.com/daybook-app/daybook/internal/core/domain"
	"github.com/daybook-app/daybook/internal/core/services"
)

type MetricHandler struct {
	svc *services.MetricService
}

func NewMetricHandler(svc *services.MetricService) *MetricHandler {
	return &MetricHandler{
		svc: svc,
	}
}

type createMetricRequest struct {
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit"`
}

type recordSampleRequest struct {
	Value      string `json:"value" binding:"required"` // decimal string, e.g. "72.3"
	RecordedAt string `json:"recorded_at" binding:"required"`
}

func (h *MetricHandler) RegisterRoutes(router *gin.RouterGroup) {
	metrics := router.Group("/metrics")
	{
		metrics.POST("", h.Create)
		metrics.GET("", h.List)
		metrics.POST("/:id/samples", h.RecordSample)
		metrics.GET("/:id/samples", h.ListSamples)
		metrics.DELETE("/:id", h.Delete)
	}
}

func (h *MetricHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metric, err := h.svc.Create(c.Request.Context(), services.CreateMetricInput{
		UserID: userID,
		Name:   req.Name,
		Unit:   req.Unit,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, metric)
}

func (h *MetricHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	metrics, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *MetricHandler) RecordSample(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req recordSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decimal value"})
		return
	}

	recordedAt, err := domain.ParseInstant(req.RecordedAt)
	if err != nil {
		handleError(c, err)
		return
	}

	sample, err := h.svc.RecordSample(c.Request.Context(), services.RecordSampleInput{
		MetricID:   c.Param("id"),
		UserID:     userID,
		Value:      value,
		RecordedAt: recordedAt,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sample)
}

func (h *MetricHandler) ListSamples(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = parsed
	}

	samples, err := h.svc.ListRecentSamples(c.Request.Context(), c.Param("id"), userID, days)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, samples)
}

func (h *MetricHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
