package controllers

import (
	"net/http"
	"strconv"

	"learnwords/middlewares"
	"learnwords/services"
	"learnwords/structs"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	progress *services.ProgressService
}

func NewCourseController(progress *services.ProgressService) *CourseController {
	return &CourseController{progress: progress}
}

// ListDays returns every catalog day in ascending order
func (cc *CourseController) ListDays(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": cc.progress.Courses()})
}

// GetDay returns the word list for one day. A non-numeric day is simply not
// in the catalog.
func (cc *CourseController) GetDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No words found for this day."})
		return
	}

	words, err := cc.progress.CourseWords(day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "words": words})
}

// MarkWord records a mark-as-read event for the caller
func (cc *CourseController) MarkWord(c *gin.Context) {
	var req structs.MarkWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	progress, err := cc.progress.RecordWordRead(c.Request.Context(), middlewares.UserID(c), req.Day, req.Word)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Word marked as read", "progress": progress})
}
