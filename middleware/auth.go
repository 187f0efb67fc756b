package middleware

import (
	"net/http"
	"strings"

	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Cookie names read by Authenticate.
const (
	SessionCookie   = "session"
	DemoAdminCookie = "demo_admin"
)

const (
	ctxUser  = "currentUser"
	ctxToken = "sessionToken"
)

// Authenticate resolves the visitor once per request. Any resolution failure
// leaves the request anonymous; it never aborts.
func Authenticate(ac session.AuthContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := session.Credentials{Token: bearerOrCookie(c)}
		if v, err := c.Cookie(DemoAdminCookie); err == nil && v == "1" {
			cred.DemoAdmin = true
		}

		u, err := ac.CurrentUser(c.Request.Context(), cred)
		if err != nil {
			utils.GetLogger().Debug("Session resolution failed, continuing anonymously",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			u = nil
		}
		if u != nil {
			c.Set(ctxUser, u)
			c.Set(ctxToken, cred.Token)
		}
		c.Next()
	}
}

func bearerOrCookie(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

// CurrentUser returns the resolved user or nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// SessionToken returns the token the current user authenticated with.
func SessionToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
			return
		}
		c.Next()
	}
}

// RequireAdmin checks the role on every request; a demoted admin loses access at once.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
			return
		}
		if !u.IsAdmin() {
			utils.JSONError(c, http.StatusForbidden, "Admin access required", "")
			return
		}
		c.Next()
	}
}
