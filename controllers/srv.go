// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
	"instrument-inventory/db"
	"instrument-inventory/logger"
	"instrument-inventory/session"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      db.NewRepo(a.DB),
		AppSess:   a.AppSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

// fail maps a domain error onto the wire: stable kind + message, never a
// raw store error.
func fail(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindStore {
		logger.Error("store failure", zap.String("path", c.FullPath()), zap.Error(err))
	}
	body := app.H{"kind": ae.Kind, "error": ae.Message}
	if len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	c.JSON(apperr.Status(err), body)
}

// audit appends an activity event for the current session user. Failures
// are logged, not surfaced; the audited operation already succeeded.
func (s *Srv) audit(c *gin.Context, action, description string) {
	uid, email, _, _ := app.SessionUser(c)
	_, err := s.Repo.RecordActivity(c.Request.Context(), db.RecordActivityInput{
		UserID:      uid,
		UserEmail:   email,
		Action:      action,
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		logger.Warn("activity record failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// issueSession creates the redis session, sets the cookie and records the
// login snapshot.
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID, email, ip, ua string) error {
	_ = s.Repo.TouchUserLogin(ctx, userID, ip, ua)
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID, email); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}
