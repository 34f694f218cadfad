package routes

import (
	"net/http"

	"learnwords/controllers"
	"learnwords/internal/ratelimit"
	"learnwords/middlewares"
	"learnwords/services"
	"learnwords/utils"
	"learnwords/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies is everything the HTTP layer needs from main
type Dependencies struct {
	Progress       *services.ProgressService
	Tokens         *utils.TokenManager
	Hub            *websocket.ProgressHub
	MarkLimiter    ratelimit.Limiter // nil disables rate limiting
	AllowedOrigins []string
}

// SetupRouter builds the Gin engine with all routes mounted under /api
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestLogger())

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1"})

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Learn Words Backend Running</h1>"))
	})

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Protected routes (JWT auth)
	auth := api.Group("/")
	auth.Use(middlewares.AuthMiddleware(deps.Tokens))
	{
		SetupCourseRoutes(auth, controllers.NewCourseController(deps.Progress), middlewares.RateLimit(deps.MarkLimiter))
		SetupUserRoutes(auth, controllers.NewUserController(deps.Progress))

		if deps.Hub != nil {
			auth.GET("/ws/progress", websocket.ProgressHandler(deps.Hub, origins))
		}
	}

	return router
}
