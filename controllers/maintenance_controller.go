// controllers/maintenance_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"instrument-inventory/app"
	"instrument-inventory/apperr"
	"instrument-inventory/db"
)

type MaintenanceController struct{ *Srv }

func NewMaintenanceController(s *Srv) *MaintenanceController {
	return &MaintenanceController{Srv: s}
}

// GET /api/maintenance-logs?instrumentId=
func (mc *MaintenanceController) List(c *gin.Context) {
	logs, err := mc.Repo.ListMaintenance(c.Request.Context(), c.Query("instrumentId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"logs": logs})
}

// POST /api/maintenance-logs
func (mc *MaintenanceController) Schedule(c *gin.Context) {
	var in struct {
		InstrumentID  string     `json:"instrumentId"`
		ScheduledDate *time.Time `json:"scheduledDate"`
		Technician    string     `json:"technician"`
		Notes         string     `json:"notes"`
		Cost          float64    `json:"cost"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}
	if in.InstrumentID == "" || in.ScheduledDate == nil {
		fail(c, apperr.Validation("instrumentId and scheduledDate are required", "instrumentId", "scheduledDate"))
		return
	}

	log, err := mc.Repo.ScheduleMaintenance(c.Request.Context(), db.ScheduleMaintenanceInput{
		InstrumentID:  in.InstrumentID,
		ScheduledDate: *in.ScheduledDate,
		Technician:    in.Technician,
		Notes:         in.Notes,
		Cost:          in.Cost,
	})
	if err != nil {
		fail(c, err)
		return
	}
	mc.audit(c, "maintenance_scheduled", "scheduled maintenance for "+log.InstrumentName)
	c.JSON(http.StatusCreated, log)
}

// PUT /api/maintenance-logs/:id
// Completing a log restores the instrument to available.
func (mc *MaintenanceController) Update(c *gin.Context) {
	var in struct {
		Status        *string    `json:"status"`
		CompletedDate *time.Time `json:"completedDate"`
		Technician    *string    `json:"technician"`
		Notes         *string    `json:"notes"`
		Cost          *float64   `json:"cost"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}

	log, err := mc.Repo.UpdateMaintenance(c.Request.Context(), c.Param("id"), db.UpdateMaintenanceInput{
		Status:        in.Status,
		CompletedDate: in.CompletedDate,
		Technician:    in.Technician,
		Notes:         in.Notes,
		Cost:          in.Cost,
	})
	if err != nil {
		fail(c, err)
		return
	}
	mc.audit(c, "maintenance_updated", "updated maintenance log for "+log.InstrumentName)
	c.JSON(http.StatusOK, log)
}

// GET /api/calibration-logs?instrumentId=
func (mc *MaintenanceController) ListCalibrations(c *gin.Context) {
	logs, err := mc.Repo.ListCalibrations(c.Request.Context(), c.Query("instrumentId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"logs": logs})
}

// POST /api/calibration-logs
func (mc *MaintenanceController) ScheduleCalibration(c *gin.Context) {
	var in struct {
		InstrumentID        string     `json:"instrumentId"`
		CalibrationDate     *time.Time `json:"calibrationDate"`
		NextCalibrationDate *time.Time `json:"nextCalibrationDate"`
		Technician          string     `json:"technician"`
		CertificateNumber   string     `json:"certificateNumber"`
		Notes               string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}
	if in.InstrumentID == "" || in.CalibrationDate == nil || in.NextCalibrationDate == nil {
		fail(c, apperr.Validation("instrumentId, calibrationDate and nextCalibrationDate are required",
			"instrumentId", "calibrationDate", "nextCalibrationDate"))
		return
	}

	log, err := mc.Repo.ScheduleCalibration(c.Request.Context(), db.ScheduleCalibrationInput{
		InstrumentID:        in.InstrumentID,
		CalibrationDate:     *in.CalibrationDate,
		NextCalibrationDate: *in.NextCalibrationDate,
		Technician:          in.Technician,
		CertificateNumber:   in.CertificateNumber,
		Notes:               in.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	mc.audit(c, "calibration_recorded", "recorded calibration for "+log.InstrumentName)
	c.JSON(http.StatusCreated, log)
}

// PUT /api/calibration-logs/:id
// Changing the next calibration date also moves the instrument's
// calibration_due.
func (mc *MaintenanceController) UpdateCalibration(c *gin.Context) {
	var in struct {
		CalibrationDate     *time.Time `json:"calibrationDate"`
		NextCalibrationDate *time.Time `json:"nextCalibrationDate"`
		Technician          *string    `json:"technician"`
		CertificateNumber   *string    `json:"certificateNumber"`
		Notes               *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body"))
		return
	}

	log, err := mc.Repo.UpdateCalibration(c.Request.Context(), c.Param("id"), db.UpdateCalibrationInput{
		CalibrationDate:     in.CalibrationDate,
		NextCalibrationDate: in.NextCalibrationDate,
		Technician:          in.Technician,
		CertificateNumber:   in.CertificateNumber,
		Notes:               in.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	mc.audit(c, "calibration_updated", "updated calibration log for "+log.InstrumentName)
	c.JSON(http.StatusOK, log)
}
