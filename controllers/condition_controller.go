// controllers/condition_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
	"instrument-inventory/db"
)

type ConditionController struct{ *Srv }

func NewConditionController(s *Srv) *ConditionController {
	return &ConditionController{Srv: s}
}

// POST /api/instrument-conditions
// A failing instrument update does not fail the report: the response is
// 201 with a warning and a reconciliation event is queued.
func (cc *ConditionController) Report(c *gin.Context) {
	uid, email, _, ok := app.SessionUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("unauthorized"))
		return
	}

	var in struct {
		InstrumentID string `json:"instrumentId"`
		Condition    string `json:"condition"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}
	if in.InstrumentID == "" || in.Condition == "" {
		fail(c, apperr.Validation("instrumentId and condition are required", "instrumentId", "condition"))
		return
	}

	report, warning, err := cc.Repo.ReportCondition(c.Request.Context(), db.ReportConditionInput{
		InstrumentID: in.InstrumentID,
		Condition:    in.Condition,
		Notes:        in.Notes,
		ReportedBy:   uid,
		ReporterMail: email,
	})
	if err != nil {
		fail(c, err)
		return
	}
	cc.audit(c, "condition_reported", "reported condition "+report.Condition)

	body := app.H{"report": report}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusCreated, body)
}

// GET /api/instrument-conditions?instrumentId=
func (cc *ConditionController) List(c *gin.Context) {
	reports, err := cc.Repo.ListConditions(c.Request.Context(), c.Query("instrumentId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"reports": reports})
}
