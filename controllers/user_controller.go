package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) List(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "users": res.Users})
}

// GET /api/users/:id
func (uc *UserController) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, apperr.Validation("invalid uuid", "id"))
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// POST /api/users
func (uc *UserController) Create(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}

	u, err := uc.Repo.CreateUser(c.Request.Context(), in.Email, in.Password, in.Role)
	if err != nil {
		fail(c, err)
		return
	}
	uc.audit(c, "user_created", "created user "+u.Email)
	c.JSON(http.StatusCreated, u)
}

// PUT /api/users/:id/role
func (uc *UserController) UpdateRole(c *gin.Context) {
	var in struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}

	u, err := uc.Repo.UpdateUserRole(c.Request.Context(), c.Param("id"), in.Role)
	if err != nil {
		fail(c, err)
		return
	}
	uc.audit(c, "user_role_updated", "set role of "+u.Email+" to "+u.Role)
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id
func (uc *UserController) Delete(c *gin.Context) {
	id := c.Param("id")

	// Deleting yourself would lock the account out of its own session.
	if uid, _, _, ok := app.SessionUser(c); ok && uid == id {
		fail(c, apperr.Validation("cannot delete yourself", "id"))
		return
	}

	target, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	// Revoke every live session of the deleted user.
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)

	uc.audit(c, "user_deleted", "deleted user "+target.Email)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
