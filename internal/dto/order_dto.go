package dto

import (
	"khmercafe/internal/currency"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	MenuItemID     string            `json:"menu_item_id" validate:"required,uuid"`
	Size           string            `json:"size"          validate:"omitempty,oneof=regular medium large"`
	Quantity       int               `json:"quantity"      validate:"required,min=1"`
	Discount       decimal.Decimal   `json:"discount"      validate:"min=0"`
	Customizations map[string]string `json:"customizations"`
}

type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaidUsd       decimal.Decimal    `json:"paid_usd"       validate:"min=0"`
	PaidKhr       decimal.Decimal    `json:"paid_khr"       validate:"min=0"`
	PaymentMethod string             `json:"payment_method" validate:"omitempty,oneof=cash khqr card"`
	// ExchangeRate is optional; zero means "use today's configured rate".
	ExchangeRate decimal.Decimal `json:"exchange_rate" validate:"min=0"`
	CustomerID   *string         `json:"customer_id"   validate:"omitempty,uuid"`
	Notes        *string         `json:"notes"`
}

type TransitionOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing ready completed voided"`
}

type OrderFilter struct {
	Status string // single status or comma-separated list
	Date   string // YYYY-MM-DD
	Page   int
	Limit  int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	MenuItemID     string            `json:"menu_item_id"`
	Name           string            `json:"name"`
	Size           string            `json:"size"`
	Quantity       int               `json:"quantity"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	Discount       decimal.Decimal   `json:"discount"`
	Total          decimal.Decimal   `json:"total"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CashierID     *string             `json:"cashier_id,omitempty"`
	CustomerID    *string             `json:"customer_id,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	SubtotalUsd   decimal.Decimal     `json:"subtotal_usd"`
	TotalUsd      decimal.Decimal     `json:"total_usd"`
	PaidUsd       decimal.Decimal     `json:"paid_usd"`
	PaidKhr       decimal.Decimal     `json:"paid_khr"`
	ChangeUsd     decimal.Decimal     `json:"change_usd"`
	ChangeKhr     decimal.Decimal     `json:"change_khr"`
	ExchangeRate  decimal.Decimal     `json:"exchange_rate"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	Notes         *string             `json:"notes,omitempty"`
	CreatedAt     string              `json:"created_at"`
}

type CreateOrderResponse struct {
	Order   OrderResponse     `json:"order"`
	Payment *currency.Payment `json:"payment"`
}

// TransitionResponse is the transition result exposed for the notification
// collaborator: old/new status plus the order and customer references it
// needs to dispatch alerts. The core never delivers anything itself.
type TransitionResponse struct {
	OldStatus string        `json:"old_status"`
	NewStatus string        `json:"new_status"`
	Order     OrderResponse `json:"order"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
