package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock transaction types.
const (
	StockTxIn         = "in"
	StockTxOut        = "out"
	StockTxWaste      = "waste"
	StockTxAdjustment = "adjustment"
)

// Reference types linking a ledger row to its origin.
const (
	StockRefManual = "manual"
	StockRefSale   = "sale"
)

// StockTransaction is one immutable row in the append-only stock ledger.
// Rows are NEVER updated or deleted; corrections append new entries.
//
// Quantity is a signed delta: "in" positive, "out"/"waste" negative.
// "adjustment" stores the difference applied to reach the target absolute
// quantity (target - current), NOT the target itself, so the running sum of
// all deltas for an ingredient always equals currentQuantity - initialQuantity.
type StockTransaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngredientID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          string          `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ReferenceType string          `gorm:"type:varchar(20);not null;default:'manual'"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid"` // order_id when ReferenceType is sale
	Notes         *string
	CreatedBy     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (StockTransaction) TableName() string { return "stock_transactions" }
