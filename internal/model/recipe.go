package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Size variants a menu item can be sold in.
const (
	SizeRegular = "regular"
	SizeMedium  = "medium"
	SizeLarge   = "large"
)

// ValidSize reports whether s is one of the known size variants.
func ValidSize(s string) bool {
	return s == SizeRegular || s == SizeMedium || s == SizeLarge
}

// Recipe maps one (menu item, size) to the quantity of a single ingredient
// consumed per unit sold. An item+size with no recipe rows simply consumes
// nothing; that is valid, not an error.
type Recipe struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MenuItemID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_recipes_item_size"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Size         string          `gorm:"type:varchar(10);not null;default:'regular';index:idx_recipes_item_size"`
	Quantity     decimal.Decimal `gorm:"type:decimal(10,3);not null;default:1"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (Recipe) TableName() string { return "recipes" }
