// db/repo_activity.go
package db

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

type RecordActivityInput struct {
	UserID      string
	UserEmail   string
	Action      string
	Description string
	IPAddress   string
	UserAgent   string
}

// RecordActivity appends an audit event. Only the action is mandatory;
// nothing else is ever mutated.
func (r *Repo) RecordActivity(ctx context.Context, in RecordActivityInput) (*models.ActivityLog, error) {
	if strings.TrimSpace(in.Action) == "" {
		return nil, apperr.Validation("action is required", "action")
	}

	entry := models.ActivityLog{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		UserEmail:   in.UserEmail,
		Action:      in.Action,
		Description: in.Description,
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
	}
	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, apperr.Store("record activity", err)
	}
	return &entry, nil
}

type ActivityFilter struct {
	UserID string
	Action string
	Limit  int
}

func (r *Repo) ListActivity(ctx context.Context, f ActivityFilter) ([]models.ActivityLog, error) {
	q := r.DB.WithContext(ctx).Model(&models.ActivityLog{}).Order("created_at DESC")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	q = q.Limit(f.Limit)

	var entries []models.ActivityLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, apperr.Store("list activity", err)
	}
	return entries, nil
}
