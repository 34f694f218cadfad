package controllers

import (
	"errors"
	"net/http"

	"learnwords/logger"
	"learnwords/middlewares"
	"learnwords/models"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to status codes. Unexpected errors are
// logged and reported without detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Day and word are required"})
	case errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, models.ErrDayNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "No words found for this day."})
	default:
		logger.Error("request failed", "error", err, "path", c.FullPath(), "request_id", middlewares.RequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
