package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
	"instrument-inventory/db"
)

type ActivityController struct{ *Srv }

func NewActivityController(s *Srv) *ActivityController {
	return &ActivityController{Srv: s}
}

// GET /api/activity-logs?userId=&action=&limit=
func (lc *ActivityController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := lc.Repo.ListActivity(c.Request.Context(), db.ActivityFilter{
		UserID: c.Query("userId"),
		Action: c.Query("action"),
		Limit:  limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"logs": entries})
}

// POST /api/activity-logs
// Explicit client-side event recording; only action is mandatory.
func (lc *ActivityController) Record(c *gin.Context) {
	uid, email, _, _ := app.SessionUser(c)

	var in struct {
		Action      string `json:"action"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}

	entry, err := lc.Repo.RecordActivity(c.Request.Context(), db.RecordActivityInput{
		UserID:      uid,
		UserEmail:   email,
		Action:      in.Action,
		Description: in.Description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
