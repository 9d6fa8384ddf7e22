package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StartShiftRequest struct {
	OpeningCashUsd decimal.Decimal `json:"opening_cash_usd" validate:"min=0"`
	OpeningCashKhr decimal.Decimal `json:"opening_cash_khr" validate:"min=0"`
}

type CloseShiftRequest struct {
	ShiftID        string          `json:"shift_id"         validate:"required,uuid"`
	ClosingCashUsd decimal.Decimal `json:"closing_cash_usd" validate:"min=0"`
	ClosingCashKhr decimal.Decimal `json:"closing_cash_khr" validate:"min=0"`
	Notes          *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ShiftResponse struct {
	ID              string           `json:"id"`
	CashierID       string           `json:"cashier_id"`
	StartTime       string           `json:"start_time"`
	EndTime         *string          `json:"end_time,omitempty"`
	OpeningCashUsd  decimal.Decimal  `json:"opening_cash_usd"`
	OpeningCashKhr  decimal.Decimal  `json:"opening_cash_khr"`
	ClosingCashUsd  *decimal.Decimal `json:"closing_cash_usd,omitempty"`
	ClosingCashKhr  *decimal.Decimal `json:"closing_cash_khr,omitempty"`
	ExpectedCashUsd *decimal.Decimal `json:"expected_cash_usd,omitempty"`
	DiscrepancyUsd  *decimal.Decimal `json:"discrepancy_usd,omitempty"`
	TotalSalesUsd   decimal.Decimal  `json:"total_sales_usd"`
	TotalOrders     int              `json:"total_orders"`
	Status          string           `json:"status"`
	Notes           *string          `json:"notes,omitempty"`
}

// ShiftSummary reports the close computation. DiscrepancyUsd keeps its sign:
// positive overage, negative shortage.
type ShiftSummary struct {
	TotalOrders     int             `json:"total_orders"`
	TotalSalesUsd   decimal.Decimal `json:"total_sales_usd"`
	CashSalesUsd    decimal.Decimal `json:"cash_sales_usd"`
	ExpectedCashUsd decimal.Decimal `json:"expected_cash_usd"`
	ActualCashUsd   decimal.Decimal `json:"actual_cash_usd"`
	DiscrepancyUsd  decimal.Decimal `json:"discrepancy_usd"`
}

type CloseShiftResponse struct {
	Shift   ShiftResponse `json:"shift"`
	Summary ShiftSummary  `json:"summary"`
}
