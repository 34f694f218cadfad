package websocket

import (
	"net/http"
	"time"

	"learnwords/logger"
	"learnwords/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ProgressHandler upgrades an authenticated request and streams the caller's
// progress events until the client goes away.
func ProgressHandler(hub *ProgressHub, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return func(c *gin.Context) {
		userID := middlewares.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := NewProgressClient(conn, userID)
		if err := hub.Connect(client); err != nil {
			logger.Debug("progress websocket hello failed", "user", userID, "error", err)
			return
		}
		defer hub.Unregister(client)

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		// Only control frames are expected; reading drives ping/pong and close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("progress websocket closed", "user", userID, "error", err)
				}
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}
