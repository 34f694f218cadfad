package routes

import (
	"learnwords/controllers"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up the dashboard and profile endpoints
func SetupUserRoutes(router *gin.RouterGroup, ctrl *controllers.UserController) {
	user := router.Group("/user")
	{
		user.GET("/progress", ctrl.GetProgress)
		user.GET("/profile", ctrl.GetProfile)
		user.PUT("/profile", ctrl.UpdateProfile)
	}
}
