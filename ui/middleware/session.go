package middleware

import (
	"net/http"

	"corrplot/domain/core"
	"corrplot/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// SessionCookie carries the browser's session id
	SessionCookie = "corrplot_session"

	sessionKey = "corrplot.session"
)

// EnsureSession is middleware that attaches a live session to every request.
// A missing, unknown or expired cookie gets a fresh session and a new cookie.
func EnsureSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookie)
		st := store.Touch(core.SessionID(cookie))

		// refreshed on every request so the browser expiry slides with the TTL
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, st.ID.String(), int(store.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)

		c.Set(sessionKey, st.ID)
		c.Next()
	}
}

// SessionID returns the id EnsureSession attached to the request
func SessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(sessionKey); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return ""
}

// RateLimit rejects requests once limiter runs out of tokens. reject writes
// the response for a refused request.
func RateLimit(limiter *rate.Limiter, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
