// models/instrument.go
package models

import "time"

const InstrumentTable = "instruments"

// Instrument statuses.
const (
	StatusAvailable   = "available"
	StatusCheckedOut  = "checked_out"
	StatusMaintenance = "maintenance"
)

// Instrument conditions.
const (
	ConditionGood             = "good"
	ConditionNeedsRepair      = "needs_repair"
	ConditionUnderMaintenance = "under_maintenance"
	ConditionMissing          = "missing"
)

type Instrument struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// Quantity is total owned stock; the available count is always
	// derived from it minus active borrow quantities.
	Quantity       int        `gorm:"not null;default:0" json:"quantity"`
	Category       string     `gorm:"size:120;index" json:"category"`
	Status         string     `gorm:"size:20;not null;default:'available'" json:"status"`
	Condition      string     `gorm:"size:20;not null;default:'good'" json:"condition"`
	CalibrationDue *time.Time `json:"calibrationDue,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Instrument) TableName() string { return InstrumentTable }

func ValidCondition(c string) bool {
	switch c {
	case ConditionGood, ConditionNeedsRepair, ConditionUnderMaintenance, ConditionMissing:
		return true
	}
	return false
}

func ValidInstrumentStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusMaintenance:
		return true
	}
	return false
}
