// models/borrow_request.go
package models

import "time"

const BorrowRequestTable = "borrow_requests"

// Borrow request statuses. A request in approved or overdue holds stock.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
	RequestReturned = "returned"
	RequestOverdue  = "overdue"
)

// ActiveRequestStatuses are the statuses counted against instrument capacity.
var ActiveRequestStatuses = []string{RequestApproved, RequestOverdue}

// OpenRequestStatuses block instrument deletion.
var OpenRequestStatuses = []string{RequestPending, RequestApproved, RequestOverdue}

type BorrowRequest struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`
	// UserEmail and InstrumentName are snapshots taken at submit time so
	// later renames don't rewrite history.
	UserEmail      string     `gorm:"size:255;not null" json:"userEmail"`
	InstrumentID   string     `gorm:"type:uuid;index;not null" json:"instrumentId"`
	InstrumentName string     `gorm:"size:200;not null" json:"instrumentName"`
	Quantity       int        `gorm:"not null;default:1" json:"quantity"`
	RequestDate    time.Time  `gorm:"not null" json:"requestDate"`
	DueDate        time.Time  `gorm:"index;not null" json:"dueDate"`
	ReturnedAt     *time.Time `json:"returnedAt,omitempty"`
	Purpose        string     `gorm:"size:500" json:"purpose"`
	Status         string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (BorrowRequest) TableName() string { return BorrowRequestTable }
