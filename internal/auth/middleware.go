package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/petadoption/internal/apperrors"
)

// ContextKeySession is the gin context key holding the request's *Session.
const ContextKeySession = "auth_session"

// Middleware resolves the caller's identity from the session cookie.
type Middleware struct {
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	return &Middleware{sessionManager: sessionManager}
}

// Handler stores the session identity, if any, in the gin context. It never
// rejects a request; use RequireSession or RequireAdmin on protected routes.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessionManager != nil {
			if s := m.sessionManager.GetSession(c.Request); s != nil {
				c.Set(ContextKeySession, s)
			}
		}
		c.Next()
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := GetSession(c).RequireUser(); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous requests with 401 and regular users with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := GetSession(c).RequireAdmin(); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	status, body := apperrors.HTTPResponse(err)
	c.AbortWithStatusJSON(status, body)
}

// GetSession retrieves the identity set by Middleware.Handler, or nil.
func GetSession(c *gin.Context) *Session {
	if v, exists := c.Get(ContextKeySession); exists {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID, or 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	if s := GetSession(c); s != nil {
		return s.UserID
	}
	return 0
}
