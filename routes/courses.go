package routes

import (
	"learnwords/controllers"

	"github.com/gin-gonic/gin"
)

// SetupCourseRoutes sets up catalog browsing and mark-as-read. markLimit runs
// only in front of the mark endpoint.
func SetupCourseRoutes(router *gin.RouterGroup, ctrl *controllers.CourseController, markLimit gin.HandlerFunc) {
	courses := router.Group("/courses")
	{
		courses.GET("", ctrl.ListDays)
		courses.PUT("/mark", markLimit, ctrl.MarkWord)
		courses.GET("/:day", ctrl.GetDay)
	}
}
