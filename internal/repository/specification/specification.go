package specification

import "gorm.io/gorm"

// Specification narrows a query. Repositories chain any number of them onto
// the base statement before executing.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
