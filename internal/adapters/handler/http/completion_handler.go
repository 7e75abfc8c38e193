package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/internal/adapters/handler/http/middleware"
	"github.com/daybook-app/daybook/internal/core/domain"
	"github.com/daybook-app/daybook/internal/core/services"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

func NewCompletionHandler(svc *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		svc: svc,
	}
}

type logCompletionRequest struct {
	HabitID    string `json:"habit_id" binding:"required"`
	OccurredAt string `json:"occurred_at" binding:"required"`
	Value      int    `json:"value"`
	Notes      string `json:"notes"`
}

type updateCompletionRequest struct {
	Value   int    `json:"value"`
	Notes   string `json:"notes"`
	Version int    `json:"version" binding:"required"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	completions := router.Group("/completions")
	{
		completions.POST("", h.Log)
		completions.GET("", h.ListByHabit)
		completions.PUT("/:id", h.Update)
		completions.DELETE("/:id", h.Delete)
	}
}

func (h *CompletionHandler) Log(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req logCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	// Parsed by hand rather than bound as time.Time so that an offset-less
	// timestamp is rejected instead of silently read as UTC.
	occurredAt, err := domain.ParseInstant(req.OccurredAt)
	if err != nil {
		handleError(c, err)
		return
	}

	input := services.LogCompletionInput{
		HabitID:    req.HabitID,
		UserID:     userID,
		OccurredAt: occurredAt,
		Value:      req.Value,
		Notes:      req.Notes,
	}

	completion, err := h.svc.Log(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, completion)
}

func (h *CompletionHandler) ListByHabit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habitID := c.Query("habit_id")
	if habitID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit_id query parameter required"})
		return
	}

	completions, err := h.svc.ListByHabitID(c.Request.Context(), habitID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, completions)
}

func (h *CompletionHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.UpdateCompletionInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Value:   req.Value,
		Notes:   req.Notes,
		Version: req.Version,
	}

	completion, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, completion)
}

func (h *CompletionHandler) Delete(c *gin.Context) {
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
