package models

import "time"

const ActivityLogTable = "activity_logs"

// ActivityLog is append-only: rows are never updated or deleted.
type ActivityLog struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	// UserID is a plain string: system events (e.g. the overdue sweep)
	// have no acting user.
	UserID      string    `gorm:"size:36;index" json:"userId"`
	UserEmail   string    `gorm:"size:255" json:"userEmail"`
	Action      string    `gorm:"size:120;not null" json:"action"`
	Description string    `gorm:"size:500" json:"description"`
	IPAddress   string    `gorm:"size:45" json:"ipAddress"`
	UserAgent   string    `gorm:"size:255" json:"userAgent"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (ActivityLog) TableName() string { return ActivityLogTable }
