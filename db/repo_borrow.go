// db/repo_borrow.go
package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

type SubmitRequestInput struct {
	InstrumentID string
	Quantity     int
	DueDate      time.Time
	Purpose      string
}

// SubmitRequest creates a pending borrow request for the calling user.
// Capacity and due date are validated up front; instrument name and user
// email are snapshotted from the authoritative rows, never from input.
func (r *Repo) SubmitRequest(ctx context.Context, user *models.User, in SubmitRequestInput) (*models.BorrowRequest, error) {
	if in.Quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1", "quantity")
	}
	if !in.DueDate.After(time.Now()) {
		return nil, apperr.Validation("due date must be in the future", "dueDate")
	}

	var req *models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Instrument
		if err := tx.First(&it, "id = ?", in.InstrumentID).Error; err != nil {
			return wrapFind(err, "instrument")
		}
		if it.Status == models.StatusMaintenance {
			return apperr.Conflict("instrument is under maintenance")
		}

		held, err := activeQuantity(tx, it.ID)
		if err != nil {
			return apperr.Store("sum active quantities", err)
		}
		if in.Quantity > it.Quantity-held {
			return apperr.Validation("requested quantity exceeds available stock", "quantity")
		}

		now := time.Now().UTC()
		req = &models.BorrowRequest{
			ID:             uuid.NewString(),
			UserID:         user.ID,
			UserEmail:      user.Email,
			InstrumentID:   it.ID,
			InstrumentName: it.Name,
			Quantity:       in.Quantity,
			RequestDate:    now,
			DueDate:        in.DueDate,
			Purpose:        in.Purpose,
			Status:         models.RequestPending,
		}
		if err := tx.Create(req).Error; err != nil {
			return apperr.Store("create borrow request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Approve transitions pending -> approved, re-checking capacity inside the
// transaction since competing pending requests can race for the same stock.
// The status-guarded UPDATE turns a lost race into a conflict, not a
// double transition.
func (r *Repo) Approve(ctx context.Context, requestID string) (*models.BorrowRequest, error) {
	var out models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.BorrowRequest
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			return wrapFind(err, "borrow request")
		}
		if req.Status != models.RequestPending {
			return apperr.Conflict("request is not pending")
		}

		var it models.Instrument
		if err := tx.First(&it, "id = ?", req.InstrumentID).Error; err != nil {
			return wrapFind(err, "instrument")
		}
		if it.Status == models.StatusMaintenance {
			return apperr.Conflict("instrument is under maintenance")
		}

		held, err := activeQuantity(tx, it.ID)
		if err != nil {
			return apperr.Store("sum active quantities", err)
		}
		if held+req.Quantity > it.Quantity {
			return apperr.Conflict("approving would exceed instrument capacity")
		}

		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", req.ID, models.RequestPending).
			Update("status", models.RequestApproved)
		if res.Error != nil {
			return apperr.Store("approve request", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("request is not pending")
		}

		// Re-derive the instrument's status: fully booked means checked_out.
		if held+req.Quantity >= it.Quantity {
			if err := tx.Model(&models.Instrument{}).
				Where("id = ?", it.ID).
				Update("status", models.StatusCheckedOut).Error; err != nil {
				return apperr.Store("update instrument status", err)
			}
		}

		if err := tx.First(&out, "id = ?", req.ID).Error; err != nil {
			return apperr.Store("reload request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Deny(ctx context.Context, requestID string) (*models.BorrowRequest, error) {
	res := r.DB.WithContext(ctx).Model(&models.BorrowRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Update("status", models.RequestDenied)
	if res.Error != nil {
		return nil, apperr.Store("deny request", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindRequestByID(ctx, requestID); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("request is not pending")
	}
	return r.FindRequestByID(ctx, requestID)
}

// Return closes an approved or overdue loan and gives the units back.
func (r *Repo) Return(ctx context.Context, requestID string) (*models.BorrowRequest, error) {
	var out models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.BorrowRequest
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			return wrapFind(err, "borrow request")
		}
		if req.Status != models.RequestApproved && req.Status != models.RequestOverdue {
			return apperr.Conflict("request is not an active loan")
		}

		now := time.Now().UTC()
		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status IN ?", req.ID, models.ActiveRequestStatuses).
			Updates(map[string]interface{}{
				"status":      models.RequestReturned,
				"returned_at": now,
			})
		if res.Error != nil {
			return apperr.Store("return request", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("request is not an active loan")
		}

		// The instrument can only have been checked_out while fully booked;
		// returning any units makes it available again.
		if err := tx.Model(&models.Instrument{}).
			Where("id = ? AND status = ?", req.InstrumentID, models.StatusCheckedOut).
			Update("status", models.StatusAvailable).Error; err != nil {
			return apperr.Store("update instrument status", err)
		}

		if err := tx.First(&out, "id = ?", req.ID).Error; err != nil {
			return apperr.Store("reload request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) FindRequestByID(ctx context.Context, id string) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	if err := r.DB.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, wrapFind(err, "borrow request")
	}
	return &req, nil
}

type RequestFilter struct {
	UserID       string
	InstrumentID string
	Status       string
}

func (r *Repo) ListRequests(ctx context.Context, f RequestFilter) ([]models.BorrowRequest, error) {
	q := r.DB.WithContext(ctx).Model(&models.BorrowRequest{}).Order("created_at DESC")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.InstrumentID != "" {
		q = q.Where("instrument_id = ?", f.InstrumentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var reqs []models.BorrowRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, apperr.Store("list borrow requests", err)
	}
	return reqs, nil
}

type BulkApproveFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type BulkApproveResult struct {
	Approved []models.BorrowRequest `json:"approved"`
	Failed   []BulkApproveFailure   `json:"failed"`
}

// BulkApprove applies Approve to each id independently; one failure never
// blocks the others and successes are not rolled back. Requests for the
// same instrument are handled oldest-first so the last units go to the
// earliest request; distinct instruments are processed in parallel.
func (r *Repo) BulkApprove(ctx context.Context, ids []string) BulkApproveResult {
	var (
		mu     sync.Mutex
		result BulkApproveResult
	)
	fail := func(id, reason string) {
		mu.Lock()
		result.Failed = append(result.Failed, BulkApproveFailure{ID: id, Reason: reason})
		mu.Unlock()
	}

	groups := map[string][]*models.BorrowRequest{}
	for _, id := range ids {
		req, err := r.FindRequestByID(ctx, id)
		if err != nil {
			fail(id, apperr.From(err).Message)
			continue
		}
		groups[req.InstrumentID] = append(groups[req.InstrumentID], req)
	}

	var wg sync.WaitGroup
	for _, reqs := range groups {
		wg.Add(1)
		go func(reqs []*models.BorrowRequest) {
			defer wg.Done()
			sort.Slice(reqs, func(i, j int) bool {
				return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
			})
			for _, req := range reqs {
				approved, err := r.Approve(ctx, req.ID)
				if err != nil {
					fail(req.ID, apperr.From(err).Message)
					continue
				}
				mu.Lock()
				result.Approved = append(result.Approved, *approved)
				mu.Unlock()
			}
		}(reqs)
	}
	wg.Wait()
	return result
}

// SweepOverdue flags approved requests whose due date has passed. Only
// rows still in approved transition, so re-running (or racing another
// sweep) is a no-op for rows already swept.
func (r *Repo) SweepOverdue(ctx context.Context) ([]models.BorrowRequest, error) {
	now := time.Now().UTC()

	var candidates []models.BorrowRequest
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND due_date < ?", models.RequestApproved, now).
		Find(&candidates).Error; err != nil {
		return nil, apperr.Store("find overdue requests", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	if err := r.DB.WithContext(ctx).Model(&models.BorrowRequest{}).
		Where("id IN ? AND status = ?", ids, models.RequestApproved).
		Update("status", models.RequestOverdue).Error; err != nil {
		return nil, apperr.Store("mark requests overdue", err)
	}

	var swept []models.BorrowRequest
	if err := r.DB.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, models.RequestOverdue).
		Order("due_date ASC").
		Find(&swept).Error; err != nil {
		return nil, apperr.Store("reload overdue requests", err)
	}
	return swept, nil
}
