package dto

import "github.com/shopspring/decimal"

type SetRateRequest struct {
	UsdToKhr decimal.Decimal `json:"usd_to_khr" validate:"required"`
}

type RateResponse struct {
	RateDate string          `json:"rate_date"`
	UsdToKhr decimal.Decimal `json:"usd_to_khr"`
	SetBy    *string         `json:"set_by,omitempty"`
}
