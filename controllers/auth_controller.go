package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("email and password are required", "email", "password"))
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil || !u.CheckPassword(in.Password) {
		// Same answer for unknown email and wrong password.
		fail(c, apperr.Unauthorized("invalid credentials"))
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID, u.Email, c.ClientIP(), c.Request.UserAgent()); err != nil {
		fail(c, apperr.Store("create session", err))
		return
	}

	c.Set(app.CtxUserID, u.ID)
	c.Set(app.CtxUserEmail, u.Email)
	ac.audit(c, "login", "user signed in")

	c.JSON(http.StatusOK, app.H{"user": u})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/session
// Returns the caller's identity with the role freshly read from the store.
func (ac *AuthController) Session(c *gin.Context) {
	uid, _, _, ok := app.SessionUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("unauthorized"))
		return
	}
	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}
