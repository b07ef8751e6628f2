// controllers/borrow_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
	"instrument-inventory/db"
	"instrument-inventory/models"
)

type BorrowController struct{ *Srv }

func NewBorrowController(s *Srv) *BorrowController { return &BorrowController{Srv: s} }

// GET /api/borrow-requests?status=&instrumentId=
// Employees see their own requests; admins see everything.
func (bc *BorrowController) List(c *gin.Context) {
	uid, _, role, ok := app.SessionUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("unauthorized"))
		return
	}

	f := db.RequestFilter{
		Status:       c.Query("status"),
		InstrumentID: c.Query("instrumentId"),
	}
	if role == models.RoleAdmin {
		f.UserID = c.Query("userId")
	} else {
		f.UserID = uid
	}

	reqs, err := bc.Repo.ListRequests(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// POST /api/borrow-requests
// Always books under the session user; a caller cannot request on behalf
// of someone else.
func (bc *BorrowController) Submit(c *gin.Context) {
	uid, _, _, ok := app.SessionUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("unauthorized"))
		return
	}

	var in struct {
		InstrumentID string     `json:"instrumentId"`
		Quantity     int        `json:"quantity"`
		DueDate      *time.Time `json:"dueDate"`
		Purpose      string     `json:"purpose"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}
	if in.InstrumentID == "" || in.DueDate == nil {
		fail(c, apperr.Validation("instrumentId and dueDate are required", "instrumentId", "dueDate"))
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	user, err := bc.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}

	req, err := bc.Repo.SubmitRequest(c.Request.Context(), user, db.SubmitRequestInput{
		InstrumentID: in.InstrumentID,
		Quantity:     in.Quantity,
		DueDate:      *in.DueDate,
		Purpose:      in.Purpose,
	})
	if err != nil {
		fail(c, err)
		return
	}
	bc.audit(c, "borrow_requested", fmt.Sprintf("requested %d x %s", req.Quantity, req.InstrumentName))
	c.JSON(http.StatusCreated, req)
}

// POST /api/borrow-requests/:id/approve
func (bc *BorrowController) Approve(c *gin.Context) {
	req, err := bc.Repo.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	bc.audit(c, "borrow_approved", "approved request for "+req.InstrumentName)
	c.JSON(http.StatusOK, req)
}

// POST /api/borrow-requests/:id/deny
func (bc *BorrowController) Deny(c *gin.Context) {
	req, err := bc.Repo.Deny(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	bc.audit(c, "borrow_denied", "denied request for "+req.InstrumentName)
	c.JSON(http.StatusOK, req)
}

// POST /api/borrow-requests/:id/return
// Allowed for the request owner or an admin; an employee cannot return
// another user's loan.
func (bc *BorrowController) Return(c *gin.Context) {
	uid, _, role, ok := app.SessionUser(c)
	if !ok {
		fail(c, apperr.Unauthorized("unauthorized"))
		return
	}

	req, err := bc.Repo.FindRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if role != models.RoleAdmin && req.UserID != uid {
		fail(c, apperr.Forbidden("not your borrow request"))
		return
	}

	returned, err := bc.Repo.Return(c.Request.Context(), req.ID)
	if err != nil {
		fail(c, err)
		return
	}
	bc.audit(c, "borrow_returned", "returned "+returned.InstrumentName)
	c.JSON(http.StatusOK, returned)
}

// POST /api/borrow-requests/bulk-approve
// Partial-failure semantics: every id gets an outcome.
func (bc *BorrowController) BulkApprove(c *gin.Context) {
	var in struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || len(in.IDs) == 0 {
		fail(c, apperr.Validation("ids are required", "ids"))
		return
	}

	result := bc.Repo.BulkApprove(c.Request.Context(), in.IDs)
	bc.audit(c, "borrow_bulk_approved",
		fmt.Sprintf("bulk approve: %d approved, %d failed", len(result.Approved), len(result.Failed)))
	c.JSON(http.StatusOK, result)
}

// POST /api/borrow-requests/sweep-overdue
// Manual trigger for the periodic sweep.
func (bc *BorrowController) SweepOverdue(c *gin.Context) {
	swept, err := bc.Repo.SweepOverdue(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if len(swept) > 0 {
		bc.audit(c, "overdue_swept", fmt.Sprintf("%d requests marked overdue", len(swept)))
	}
	c.JSON(http.StatusOK, app.H{"swept": swept})
}
