package middleware

import (
	"net/http"

	"memberportal/services/session"

	"github.com/gin-gonic/gin"
)

const ctxGateState = "gateState"

// Gate applies the navigation rules to page routes, redirecting with 302 when
// the visitor may not see the requested page. Must run after Authenticate.
func Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		state := session.StateOf(u)
		role := ""
		if u != nil {
			role = u.Role
		}

		path := c.Request.URL.Path
		d := session.Decide(state, role, path)
		if !d.Allow {
			c.Redirect(http.StatusFound, d.Redirect)
			c.Abort()
			return
		}
		if session.Classify(path) == session.RouteAdmin {
			state, _ = session.Transition(state, session.EventEnterAdmin, u)
		}
		c.Set(ctxGateState, state)
		c.Next()
	}
}

// GateState is the visitor state Gate admitted the request in.
func GateState(c *gin.Context) session.State {
	if v, ok := c.Get(ctxGateState); ok {
		if s, ok := v.(session.State); ok {
			return s
		}
	}
	return session.StateOf(CurrentUser(c))
}
