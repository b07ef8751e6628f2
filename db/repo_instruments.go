// db/repo_instruments.go
package db

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

type CreateInstrumentInput struct {
	Name        string
	Description string
	Quantity    int
	Category    string
}

func (r *Repo) CreateInstrument(ctx context.Context, in CreateInstrumentInput) (*models.Instrument, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name is required", "name")
	}
	if in.Quantity < 0 {
		return nil, apperr.Validation("quantity must not be negative", "quantity")
	}

	it := models.Instrument{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Status:      models.StatusAvailable,
		Condition:   models.ConditionGood,
	}
	if err := r.DB.WithContext(ctx).Create(&it).Error; err != nil {
		return nil, apperr.Store("create instrument", err)
	}
	return &it, nil
}

func (r *Repo) FindInstrumentByID(ctx context.Context, id string) (*models.Instrument, error) {
	var it models.Instrument
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, wrapFind(err, "instrument")
	}
	return &it, nil
}

func (r *Repo) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	var items []models.Instrument
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, apperr.Store("list instruments", err)
	}
	return items, nil
}

// UpdateInstrumentInput is a true partial patch: nil fields stay untouched.
// ClearCalibrationDue nulls the calibration deadline, which a nil pointer
// alone cannot express.
type UpdateInstrumentInput struct {
	Name                *string
	Description         *string
	Quantity            *int
	Category            *string
	Status              *string
	Condition           *string
	CalibrationDue      *time.Time
	ClearCalibrationDue bool
}

func (r *Repo) UpdateInstrument(ctx context.Context, id string, patch UpdateInstrumentInput) (*models.Instrument, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, apperr.Validation("name must not be empty", "name")
		}
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, apperr.Validation("quantity must not be negative", "quantity")
		}
		updates["quantity"] = *patch.Quantity
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Status != nil {
		if !models.ValidInstrumentStatus(*patch.Status) {
			return nil, apperr.Validation("invalid status", "status")
		}
		updates["status"] = *patch.Status
	}
	if patch.Condition != nil {
		if !models.ValidCondition(*patch.Condition) {
			return nil, apperr.Validation("invalid condition", "condition")
		}
		updates["condition"] = *patch.Condition
	}
	if patch.CalibrationDue != nil {
		updates["calibration_due"] = *patch.CalibrationDue
	} else if patch.ClearCalibrationDue {
		updates["calibration_due"] = nil
	}
	if len(updates) == 0 {
		return r.FindInstrumentByID(ctx, id)
	}

	var out models.Instrument
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Shrinking quantity below the units currently on loan would let
		// active requests exceed capacity.
		if patch.Quantity != nil {
			held, err := activeQuantity(tx, id)
			if err != nil {
				return apperr.Store("sum active quantities", err)
			}
			if *patch.Quantity < held {
				return apperr.Conflict("quantity cannot drop below units on loan")
			}
		}

		res := tx.Model(&models.Instrument{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return apperr.Store("update instrument", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("instrument")
		}
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			return apperr.Store("reload instrument", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) DeleteInstrument(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.BorrowRequest{}).
			Where("instrument_id = ? AND status IN ?", id, models.OpenRequestStatuses).
			Count(&open).Error; err != nil {
			return apperr.Store("count open requests", err)
		}
		if open > 0 {
			return apperr.Conflict("instrument has open borrow requests")
		}

		res := tx.Delete(&models.Instrument{}, "id = ?", id)
		if res.Error != nil {
			return apperr.Store("delete instrument", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("instrument")
		}
		return nil
	})
}

// activeQuantity sums units held by approved and overdue requests.
func activeQuantity(tx *gorm.DB, instrumentID string) (int, error) {
	var held int
	err := tx.Model(&models.BorrowRequest{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("instrument_id = ? AND status IN ?", instrumentID, models.ActiveRequestStatuses).
		Scan(&held).Error
	return held, err
}

// AvailableUnits derives the bookable stock for an instrument.
func (r *Repo) AvailableUnits(ctx context.Context, instrumentID string) (int, error) {
	it, err := r.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return 0, err
	}
	held, err := activeQuantity(r.DB.WithContext(ctx), instrumentID)
	if err != nil {
		return 0, apperr.Store("sum active quantities", err)
	}
	return it.Quantity - held, nil
}

type InstrumentWithAvailability struct {
	models.Instrument
	Available int `json:"available"`
}

func (r *Repo) GetInstrument(ctx context.Context, id string) (*InstrumentWithAvailability, error) {
	it, err := r.FindInstrumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	held, err := activeQuantity(r.DB.WithContext(ctx), id)
	if err != nil {
		return nil, apperr.Store("sum active quantities", err)
	}
	return &InstrumentWithAvailability{Instrument: *it, Available: it.Quantity - held}, nil
}
