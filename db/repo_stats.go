// db/repo_stats.go
package db

import (
	"context"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

type DashboardStats struct {
	Instruments        int64 `json:"instruments"`
	Available          int64 `json:"available"`
	UnderMaintenance   int64 `json:"underMaintenance"`
	PendingRequests    int64 `json:"pendingRequests"`
	ActiveLoans        int64 `json:"activeLoans"`
	OverdueLoans       int64 `json:"overdueLoans"`
	OpenMaintenance    int64 `json:"openMaintenance"`
	CalibrationRecords int64 `json:"calibrationRecords"`
}

func (r *Repo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	db := r.DB.WithContext(ctx)

	counts := []func() error{
		func() error {
			return db.Model(&models.Instrument{}).Count(&s.Instruments).Error
		},
		func() error {
			return db.Model(&models.Instrument{}).
				Where("status = ?", models.StatusAvailable).Count(&s.Available).Error
		},
		func() error {
			return db.Model(&models.Instrument{}).
				Where("status = ?", models.StatusMaintenance).Count(&s.UnderMaintenance).Error
		},
		func() error {
			return db.Model(&models.BorrowRequest{}).
				Where("status = ?", models.RequestPending).Count(&s.PendingRequests).Error
		},
		func() error {
			return db.Model(&models.BorrowRequest{}).
				Where("status IN ?", models.ActiveRequestStatuses).Count(&s.ActiveLoans).Error
		},
		func() error {
			return db.Model(&models.BorrowRequest{}).
				Where("status = ?", models.RequestOverdue).Count(&s.OverdueLoans).Error
		},
		func() error {
			return db.Model(&models.MaintenanceLog{}).
				Where("status <> ?", models.MaintenanceCompleted).Count(&s.OpenMaintenance).Error
		},
		func() error {
			return db.Model(&models.CalibrationLog{}).Count(&s.CalibrationRecords).Error
		},
	}
	for _, count := range counts {
		if err := count(); err != nil {
			return nil, apperr.Store("count dashboard stats", err)
		}
	}
	return &s, nil
}
