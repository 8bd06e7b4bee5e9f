package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"biblioteca/internal/models"
	"biblioteca/internal/service"
)

const (
	// SessionUserKey is the session field holding the logged-in user id.
	SessionUserKey = "user_id"
	// ContextUserKey is the gin context key holding the resolved *models.User.
	ContextUserKey = "currentUser"
)

// ResolveUser loads the session's user once per request and stores the
// typed account in the gin context. Handlers receive the identity from
// there instead of reading ambient session state. A stale session (deleted
// or unknown user) is cleared.
func ResolveUser(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(SessionUserKey).(string)
		if !ok || id == "" {
			c.Next()
			return
		}

		user, err := authService.UserByID(id)
		if err != nil {
			session.Delete(SessionUserKey)
			session.Save()
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireUser redirects unauthenticated requests to the login form. Any
// pending post data is dropped by the redirect.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			session := sessions.Default(c)
			session.AddFlash("Por favor, inicia sesión para acceder a esta página.")
			session.Save()
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity resolved by ResolveUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
