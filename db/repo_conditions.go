// db/repo_conditions.go
package db

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"instrument-inventory/apperr"
	"instrument-inventory/logger"
	"instrument-inventory/models"
)

type ReportConditionInput struct {
	InstrumentID string
	Condition    string
	Notes        string
	ReportedBy   string
	ReporterMail string
}

// ConditionWarning is returned when the report was stored but the
// instrument's condition field could not be updated.
const ConditionWarning = "report saved, but the instrument condition could not be updated; reconciliation queued"

// ReportCondition stores the report, then updates the owning instrument's
// condition best-effort. The report is the durable primary write: a
// failing secondary write surfaces as a warning plus a reconciliation
// activity event, never as a hard failure.
func (r *Repo) ReportCondition(ctx context.Context, in ReportConditionInput) (*models.ConditionReport, string, error) {
	if !models.ValidCondition(in.Condition) {
		return nil, "", apperr.Validation("invalid condition", "condition")
	}
	if _, err := r.FindInstrumentByID(ctx, in.InstrumentID); err != nil {
		return nil, "", err
	}

	report := models.ConditionReport{
		ID:           uuid.NewString(),
		InstrumentID: in.InstrumentID,
		Condition:    in.Condition,
		Notes:        in.Notes,
		ReportedBy:   in.ReportedBy,
	}
	if err := r.DB.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, "", apperr.Store("create condition report", err)
	}

	err := r.DB.WithContext(ctx).Model(&models.Instrument{}).
		Where("id = ?", in.InstrumentID).
		Update("condition", in.Condition).Error
	if err != nil {
		logger.Warn("instrument condition update failed after report write",
			zap.String("instrumentId", in.InstrumentID),
			zap.String("reportId", report.ID),
			zap.Error(err))
		_, recErr := r.RecordActivity(ctx, RecordActivityInput{
			UserID:      in.ReportedBy,
			UserEmail:   in.ReporterMail,
			Action:      "reconciliation_needed",
			Description: "condition report " + report.ID + " saved but instrument " + in.InstrumentID + " was not updated",
		})
		if recErr != nil {
			logger.Error("failed to queue reconciliation event", zap.Error(recErr))
		}
		return &report, ConditionWarning, nil
	}

	return &report, "", nil
}

func (r *Repo) ListConditions(ctx context.Context, instrumentID string) ([]models.ConditionReport, error) {
	q := r.DB.WithContext(ctx).Model(&models.ConditionReport{}).Order("created_at DESC")
	if instrumentID != "" {
		q = q.Where("instrument_id = ?", instrumentID)
	}
	var reports []models.ConditionReport
	if err := q.Find(&reports).Error; err != nil {
		return nil, apperr.Store("list condition reports", err)
	}
	return reports, nil
}
