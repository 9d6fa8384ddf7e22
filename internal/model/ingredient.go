package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock status classification for an ingredient.
const (
	StockOK  = "ok"
	StockLow = "low"
	StockOut = "out"
)

// Ingredient is a raw stock item consumed by recipes. Quantity is decimal so
// partial units (0.25 kg, 1.5 l) are representable. Quantity is owned
// exclusively by the stock ledger; nothing else writes it.
type Ingredient struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string          `gorm:"index;not null"`
	NameKm            *string         `gorm:"column:name_km"`
	Unit              string          `gorm:"not null"` // kg, g, l, ml, pcs…
	CostPerUnit       decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	Quantity          decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(12,3);not null;default:10"`
	Active            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Ingredient) TableName() string { return "ingredients" }

// StockStatus derives the ok/low/out classification from the current quantity.
func (i *Ingredient) StockStatus() string {
	return ClassifyStock(i.Quantity, i.LowStockThreshold)
}

// ClassifyStock is the pure classification rule: out when quantity is zero or
// negative, low when at or under the threshold, ok otherwise.
func ClassifyStock(quantity, threshold decimal.Decimal) string {
	switch {
	case !quantity.IsPositive():
		return StockOut
	case quantity.LessThanOrEqual(threshold):
		return StockLow
	default:
		return StockOK
	}
}
