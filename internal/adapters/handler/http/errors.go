package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/internal/core/domain"
)

// handleError maps domain errors to HTTP statuses. Timezone and window
// errors are the caller's input/configuration, not our fault, so they get
// 4xx; anything unrecognized is logged and hidden behind a 500.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrHabitNotFound) ||
		errors.Is(err, domain.ErrCompletionNotFound) ||
		errors.Is(err, domain.ErrTaskNotFound) ||
		errors.Is(err, domain.ErrMetricNotFound) ||
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrCompletionConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please refresh",
		})

	case errors.Is(err, domain.ErrUnknownTimezone):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown timezone identifier"})

	case errors.Is(err, domain.ErrNaiveInstant):
		c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp must carry an explicit UTC offset"})

	case errors.Is(err, domain.ErrInvalidWindowRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window request"})

	case errors.Is(err, domain.ErrHabitArchived):
		c.JSON(http.StatusConflict, gin.H{"error": "habit is archived"})

	case errors.Is(err, domain.ErrTaskAlreadyDone) || errors.Is(err, domain.ErrTaskNotDone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
