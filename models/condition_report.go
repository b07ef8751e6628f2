// models/condition_report.go
package models

import "time"

const ConditionReportTable = "condition_reports"

type ConditionReport struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	InstrumentID string    `gorm:"type:uuid;index;not null" json:"instrumentId"`
	Condition    string    `gorm:"size:20;not null" json:"condition"`
	Notes        string    `gorm:"type:text" json:"notes"`
	ReportedBy   string    `gorm:"type:uuid;not null" json:"reportedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (ConditionReport) TableName() string { return ConditionReportTable }
