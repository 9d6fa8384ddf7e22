package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift states.
const (
	ShiftOpen   = "open"
	ShiftClosed = "closed"
)

// Shift is a cashier's drawer session. Created once on shift start, mutated
// exactly once on close (closing figures computed and frozen), never reopened.
// DiscrepancyUsd keeps its sign: positive is an overage, negative a shortage.
type Shift struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashierID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartTime       time.Time       `gorm:"not null;index"`
	EndTime         *time.Time
	OpeningCashUsd  decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	OpeningCashKhr  decimal.Decimal  `gorm:"type:decimal(12,0);not null;default:0"`
	ClosingCashUsd  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	ClosingCashKhr  *decimal.Decimal `gorm:"type:decimal(12,0)"`
	ExpectedCashUsd *decimal.Decimal `gorm:"type:decimal(10,2)"`
	DiscrepancyUsd  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	TotalSalesUsd   decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	TotalOrders     int              `gorm:"not null;default:0"`
	Status          string           `gorm:"type:varchar(10);not null;default:'open';index"`
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Cashier *User `gorm:"foreignKey:CashierID"`
}

func (Shift) TableName() string { return "shifts" }
