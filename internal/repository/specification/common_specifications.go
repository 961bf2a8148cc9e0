package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type ByAgencyID struct {
	AgencyID int64
}

func (s ByAgencyID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("agency_id = ?", s.AgencyID)
}
