// controllers/instrument_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
	"instrument-inventory/db"
)

type InstrumentController struct{ *Srv }

func NewInstrumentController(s *Srv) *InstrumentController {
	return &InstrumentController{Srv: s}
}

// GET /api/instruments
func (ic *InstrumentController) List(c *gin.Context) {
	items, err := ic.Repo.ListInstruments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"instruments": items})
}

// GET /api/instruments/:id
func (ic *InstrumentController) Get(c *gin.Context) {
	it, err := ic.Repo.GetInstrument(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"instrument": it})
}

// POST /api/instruments
func (ic *InstrumentController) Create(c *gin.Context) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Quantity    *int   `json:"quantity"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}
	if in.Name == "" || in.Quantity == nil {
		fail(c, apperr.Validation("name and quantity are required", "name", "quantity"))
		return
	}

	it, err := ic.Repo.CreateInstrument(c.Request.Context(), db.CreateInstrumentInput{
		Name:        in.Name,
		Description: in.Description,
		Quantity:    *in.Quantity,
		Category:    in.Category,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ic.audit(c, "instrument_created", "created instrument "+it.Name)
	c.JSON(http.StatusCreated, it)
}

// PUT /api/instruments/:id
// Partial update: absent fields stay as they are.
func (ic *InstrumentController) Update(c *gin.Context) {
	var in struct {
		Name                *string    `json:"name"`
		Description         *string    `json:"description"`
		Quantity            *int       `json:"quantity"`
		Category            *string    `json:"category"`
		Status              *string    `json:"status"`
		Condition           *string    `json:"condition"`
		CalibrationDue      *time.Time `json:"calibrationDue"`
		ClearCalibrationDue bool       `json:"clearCalibrationDue"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}

	it, err := ic.Repo.UpdateInstrument(c.Request.Context(), c.Param("id"), db.UpdateInstrumentInput{
		Name:                in.Name,
		Description:         in.Description,
		Quantity:            in.Quantity,
		Category:            in.Category,
		Status:              in.Status,
		Condition:           in.Condition,
		CalibrationDue:      in.CalibrationDue,
		ClearCalibrationDue: in.ClearCalibrationDue,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ic.audit(c, "instrument_updated", "updated instrument "+it.Name)
	c.JSON(http.StatusOK, it)
}

// DELETE /api/instruments/:id
func (ic *InstrumentController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := ic.Repo.DeleteInstrument(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ic.audit(c, "instrument_deleted", "deleted instrument "+id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
