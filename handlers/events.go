package handlers

import (
	"io"
	"net/http"
	"time"

	"memberportal/middleware"
	"memberportal/services/session"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepAliveInterval = 25 * time.Second

// SessionEventsHandler streams the caller's session changes as Server-Sent
// Events on GET /api/session/events. The subscription ends with the request.
func SessionEventsHandler(ac session.AuthContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		events, cancel := ac.Subscribe(u.ID)
		defer cancel()

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)

		utils.GetLogger().Debug("Session stream opened", zap.String("userId", u.ID))
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		ctx := c.Request.Context()
		c.Stream(func(io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case ev, ok := <-events:
				if !ok {
					return false
				}
				c.SSEvent(string(ev.Kind), ev)
				return ev.Kind != session.KindSignedOut
			case <-ticker.C:
				c.SSEvent("ping", time.Now().Unix())
				return true
			}
		})
		utils.GetLogger().Debug("Session stream closed", zap.String("userId", u.ID))
	}
}

// HealthHandler reports the last external dependency check.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Mongo {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "checks": status})
}
