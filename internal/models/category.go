package models

import (
	"github.com/google/uuid"
)

// Category is assigned to transactions by classification.
//
// Income categories are those rooted in an income top-level category. The
// flag is stored on every category so that direction checks do not need to
// walk the tree.
type Category struct {
	DefaultModel
	HouseholdID uuid.UUID  `json:"householdId" gorm:"type:uuid;uniqueIndex:category_household_name" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	Household   Household  `json:"-"`
	Name        string     `json:"name" gorm:"uniqueIndex:category_household_name" example:"Groceries"`
	ParentID    *uuid.UUID `json:"parentId" gorm:"type:uuid"`
	Income      bool       `json:"income" example:"false"`
}
