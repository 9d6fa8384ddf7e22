package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a sellable café product. PriceMedium/PriceLarge are explicit
// per-size overrides; when absent the sale price falls back to BasePrice plus
// the fixed size surcharge (see service.SurchargeMedium/SurchargeLarge).
type MenuItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string          `gorm:"index;not null"`
	NameKm     *string         `gorm:"column:name_km"`
	Category   string          `gorm:"not null;default:'drinks'"`
	BasePrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PriceMedium *decimal.Decimal `gorm:"type:decimal(10,2)"`
	PriceLarge  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	ImageURL   *string
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (MenuItem) TableName() string { return "menu_items" }
