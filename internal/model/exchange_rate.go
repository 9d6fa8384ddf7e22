package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate holds one effective KHR-per-USD rate per calendar date.
// A date's rate may be corrected during that same day, but becomes immutable
// once a later date's rate exists; lookups always walk backwards from today.
type ExchangeRate struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RateDate string          `gorm:"type:date;uniqueIndex;not null"` // YYYY-MM-DD
	UsdToKhr decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SetBy    *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ExchangeRate) TableName() string { return "exchange_rates" }
