package specification

import (
	"gorm.io/gorm"
)

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

type ByIdentityID struct {
	IdentityID string
}

func (s ByIdentityID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("identity_id = ?", s.IdentityID)
}
