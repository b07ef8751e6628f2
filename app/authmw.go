package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"instrument-inventory/db"
	"instrument-inventory/models"
	"instrument-inventory/session"
)

const AppSessionCookie = "app_session"

// Context keys set by AuthRequired.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

// AuthRequired resolves the session cookie and re-fetches the user from
// the store. The session only carries identity; the role always comes
// from the users table.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUserEmail, u.Email)
		c.Set(CtxUserRole, u.Role)
		c.Next()
	}
}

// AdminOnly gates admin-level operations. Run after AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxUserRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !models.RoleSatisfies(role.(string), models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// SessionUser returns the authenticated identity from the gin context.
func SessionUser(c *gin.Context) (id, email, role string, ok bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", "", "", false
	}
	id, _ = v.(string)
	if e, found := c.Get(CtxUserEmail); found {
		email, _ = e.(string)
	}
	if r, found := c.Get(CtxUserRole); found {
		role, _ = r.(string)
	}
	return id, email, role, id != ""
}
