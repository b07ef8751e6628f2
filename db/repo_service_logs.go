// db/repo_service_logs.go
package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

type ScheduleMaintenanceInput struct {
	InstrumentID  string
	ScheduledDate time.Time
	Technician    string
	Notes         string
	Cost          float64
}

// ScheduleMaintenance creates the log and suspends the instrument in one
// transaction. Checked-out instruments cannot enter maintenance; the two
// states are mutually exclusive.
func (r *Repo) ScheduleMaintenance(ctx context.Context, in ScheduleMaintenanceInput) (*models.MaintenanceLog, error) {
	if in.ScheduledDate.IsZero() {
		return nil, apperr.Validation("scheduled date is required", "scheduledDate")
	}

	var log *models.MaintenanceLog
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Instrument
		if err := tx.First(&it, "id = ?", in.InstrumentID).Error; err != nil {
			return wrapFind(err, "instrument")
		}
		if it.Status == models.StatusCheckedOut {
			return apperr.Conflict("instrument is checked out")
		}

		log = &models.MaintenanceLog{
			ID:             uuid.NewString(),
			InstrumentID:   it.ID,
			InstrumentName: it.Name,
			ScheduledDate:  in.ScheduledDate,
			Technician:     in.Technician,
			Notes:          in.Notes,
			Cost:           in.Cost,
			Status:         models.MaintenanceScheduled,
		}
		if err := tx.Create(log).Error; err != nil {
			return apperr.Store("create maintenance log", err)
		}

		if err := tx.Model(&models.Instrument{}).
			Where("id = ?", it.ID).
			Update("status", models.StatusMaintenance).Error; err != nil {
			return apperr.Store("update instrument status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

type UpdateMaintenanceInput struct {
	Status        *string
	CompletedDate *time.Time
	Technician    *string
	Notes         *string
	Cost          *float64
}

// UpdateMaintenance patches a log; moving it to completed restores the
// owning instrument to available inside the same transaction.
func (r *Repo) UpdateMaintenance(ctx context.Context, logID string, patch UpdateMaintenanceInput) (*models.MaintenanceLog, error) {
	if patch.Status != nil {
		switch *patch.Status {
		case models.MaintenanceScheduled, models.MaintenanceInProgress, models.MaintenanceCompleted:
		default:
			return nil, apperr.Validation("invalid maintenance status", "status")
		}
	}

	var out models.MaintenanceLog
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var log models.MaintenanceLog
		if err := tx.First(&log, "id = ?", logID).Error; err != nil {
			return wrapFind(err, "maintenance log")
		}

		updates := map[string]interface{}{}
		if patch.Technician != nil {
			updates["technician"] = *patch.Technician
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}
		if patch.Cost != nil {
			updates["cost"] = *patch.Cost
		}
		if patch.CompletedDate != nil {
			updates["completed_date"] = *patch.CompletedDate
		}

		completing := patch.Status != nil &&
			*patch.Status == models.MaintenanceCompleted &&
			log.Status != models.MaintenanceCompleted
		if patch.Status != nil {
			updates["status"] = *patch.Status
		}
		if completing && patch.CompletedDate == nil {
			updates["completed_date"] = time.Now().UTC()
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.MaintenanceLog{}).
				Where("id = ?", log.ID).
				Updates(updates).Error; err != nil {
				return apperr.Store("update maintenance log", err)
			}
		}

		if completing {
			// Only flip instruments we suspended; a deleted instrument or a
			// status changed by hand should not be overwritten here.
			if err := tx.Model(&models.Instrument{}).
				Where("id = ? AND status = ?", log.InstrumentID, models.StatusMaintenance).
				Update("status", models.StatusAvailable).Error; err != nil {
				return apperr.Store("update instrument status", err)
			}
		}

		if err := tx.First(&out, "id = ?", log.ID).Error; err != nil {
			return apperr.Store("reload maintenance log", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) CompleteMaintenance(ctx context.Context, logID string, completedDate time.Time, cost *float64) (*models.MaintenanceLog, error) {
	status := models.MaintenanceCompleted
	patch := UpdateMaintenanceInput{Status: &status, Cost: cost}
	if !completedDate.IsZero() {
		patch.CompletedDate = &completedDate
	}
	return r.UpdateMaintenance(ctx, logID, patch)
}

// ListMaintenance returns logs soonest-scheduled-first.
func (r *Repo) ListMaintenance(ctx context.Context, instrumentID string) ([]models.MaintenanceLog, error) {
	q := r.DB.WithContext(ctx).Model(&models.MaintenanceLog{}).Order("scheduled_date ASC")
	if instrumentID != "" {
		q = q.Where("instrument_id = ?", instrumentID)
	}
	var logs []models.MaintenanceLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, apperr.Store("list maintenance logs", err)
	}
	return logs, nil
}

type ScheduleCalibrationInput struct {
	InstrumentID        string
	CalibrationDate     time.Time
	NextCalibrationDate time.Time
	Technician          string
	CertificateNumber   string
	Notes               string
}

// ScheduleCalibration records a calibration and advances the instrument's
// calibration_due in one transaction. No record persists on validation
// failure.
func (r *Repo) ScheduleCalibration(ctx context.Context, in ScheduleCalibrationInput) (*models.CalibrationLog, error) {
	if in.CalibrationDate.IsZero() {
		return nil, apperr.Validation("calibration date is required", "calibrationDate")
	}
	if !in.NextCalibrationDate.After(in.CalibrationDate) {
		return nil, apperr.Validation("next calibration date must be after the calibration date", "nextCalibrationDate")
	}

	var log *models.CalibrationLog
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Instrument
		if err := tx.First(&it, "id = ?", in.InstrumentID).Error; err != nil {
			return wrapFind(err, "instrument")
		}

		log = &models.CalibrationLog{
			ID:                  uuid.NewString(),
			InstrumentID:        it.ID,
			InstrumentName:      it.Name,
			CalibrationDate:     in.CalibrationDate,
			NextCalibrationDate: in.NextCalibrationDate,
			Technician:          in.Technician,
			CertificateNumber:   in.CertificateNumber,
			Notes:               in.Notes,
		}
		if err := tx.Create(log).Error; err != nil {
			return apperr.Store("create calibration log", err)
		}

		if err := tx.Model(&models.Instrument{}).
			Where("id = ?", it.ID).
			Update("calibration_due", in.NextCalibrationDate).Error; err != nil {
			return apperr.Store("update calibration due", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

type UpdateCalibrationInput struct {
	CalibrationDate     *time.Time
	NextCalibrationDate *time.Time
	Technician          *string
	CertificateNumber   *string
	Notes               *string
}

// UpdateCalibration patches a calibration log. Changing either date
// re-validates their ordering against the effective values, and a new
// next date re-syncs the instrument's calibration_due in the same
// transaction.
func (r *Repo) UpdateCalibration(ctx context.Context, logID string, patch UpdateCalibrationInput) (*models.CalibrationLog, error) {
	var out models.CalibrationLog
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var log models.CalibrationLog
		if err := tx.First(&log, "id = ?", logID).Error; err != nil {
			return wrapFind(err, "calibration log")
		}

		if patch.CalibrationDate != nil || patch.NextCalibrationDate != nil {
			calDate := log.CalibrationDate
			nextDate := log.NextCalibrationDate
			if patch.CalibrationDate != nil {
				calDate = *patch.CalibrationDate
			}
			if patch.NextCalibrationDate != nil {
				nextDate = *patch.NextCalibrationDate
			}
			if !nextDate.After(calDate) {
				return apperr.Validation("next calibration date must be after the calibration date", "nextCalibrationDate")
			}
		}

		updates := map[string]interface{}{}
		if patch.CalibrationDate != nil {
			updates["calibration_date"] = *patch.CalibrationDate
		}
		if patch.NextCalibrationDate != nil {
			updates["next_calibration_date"] = *patch.NextCalibrationDate
		}
		if patch.Technician != nil {
			updates["technician"] = *patch.Technician
		}
		if patch.CertificateNumber != nil {
			updates["certificate_number"] = *patch.CertificateNumber
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.CalibrationLog{}).
				Where("id = ?", log.ID).
				Updates(updates).Error; err != nil {
				return apperr.Store("update calibration log", err)
			}
		}

		if patch.NextCalibrationDate != nil {
			if err := tx.Model(&models.Instrument{}).
				Where("id = ?", log.InstrumentID).
				Update("calibration_due", *patch.NextCalibrationDate).Error; err != nil {
				return apperr.Store("update calibration due", err)
			}
		}

		if err := tx.First(&out, "id = ?", log.ID).Error; err != nil {
			return apperr.Store("reload calibration log", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) ListCalibrations(ctx context.Context, instrumentID string) ([]models.CalibrationLog, error) {
	q := r.DB.WithContext(ctx).Model(&models.CalibrationLog{}).Order("calibration_date DESC")
	if instrumentID != "" {
		q = q.Where("instrument_id = ?", instrumentID)
	}
	var logs []models.CalibrationLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, apperr.Store("list calibration logs", err)
	}
	return logs, nil
}
