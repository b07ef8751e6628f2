package db

import (
	"errors"

	"gorm.io/gorm"

	"instrument-inventory/apperr"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// wrapFind maps a lookup error to the structured taxonomy.
func wrapFind(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return apperr.Store("find "+entity, err)
}
