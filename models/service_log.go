// models/service_log.go
package models

import "time"

const (
	MaintenanceLogTable = "maintenance_logs"
	CalibrationLogTable = "calibration_logs"
)

// Maintenance log statuses.
const (
	MaintenanceScheduled  = "scheduled"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
)

type MaintenanceLog struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	InstrumentID   string     `gorm:"type:uuid;index;not null" json:"instrumentId"`
	InstrumentName string     `gorm:"size:200;not null" json:"instrumentName"`
	ScheduledDate  time.Time  `gorm:"index;not null" json:"scheduledDate"`
	CompletedDate  *time.Time `json:"completedDate,omitempty"`
	Technician     string     `gorm:"size:200" json:"technician"`
	Notes          string     `gorm:"type:text" json:"notes"`
	Cost           float64    `gorm:"not null;default:0" json:"cost"`
	Status         string     `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (MaintenanceLog) TableName() string { return MaintenanceLogTable }

type CalibrationLog struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	InstrumentID        string    `gorm:"type:uuid;index;not null" json:"instrumentId"`
	InstrumentName      string    `gorm:"size:200;not null" json:"instrumentName"`
	CalibrationDate     time.Time `gorm:"not null" json:"calibrationDate"`
	NextCalibrationDate time.Time `gorm:"not null" json:"nextCalibrationDate"`
	Technician          string    `gorm:"size:200" json:"technician"`
	CertificateNumber   string    `gorm:"size:120" json:"certificateNumber"`
	Notes               string    `gorm:"type:text" json:"notes"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (CalibrationLog) TableName() string { return CalibrationLogTable }
