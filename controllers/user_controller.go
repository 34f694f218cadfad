package controllers

import (
	"errors"
	"io"
	"net/http"

	"learnwords/middlewares"
	"learnwords/models"
	"learnwords/services"
	"learnwords/structs"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	progress *services.ProgressService
}

func NewUserController(progress *services.ProgressService) *UserController {
	return &UserController{progress: progress}
}

// GetProgress serves the dashboard view
func (uc *UserController) GetProgress(c *gin.Context) {
	view, err := uc.progress.Dashboard(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": view})
}

// GetProfile serves the profile page view
func (uc *UserController) GetProfile(c *gin.Context) {
	view, err := uc.progress.Profile(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": view})
}

// UpdateProfile changes name and/or profile picture; empty fields are ignored.
// An empty body counts as an empty update.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req structs.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	update := models.ProfileUpdate{Name: req.Name, ProfilePic: req.ProfilePic}
	if err := uc.progress.UpdateProfile(c.Request.Context(), middlewares.UserID(c), update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
