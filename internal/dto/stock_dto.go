package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateIngredientRequest struct {
	Name              string          `json:"name"                validate:"required"`
	NameKm            *string         `json:"name_km"`
	Unit              string          `json:"unit"                validate:"required"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"       validate:"min=0"`
	Quantity          decimal.Decimal `json:"quantity"            validate:"min=0"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold" validate:"min=0"`
}

type UpdateIngredientRequest struct {
	Name              string           `json:"name"`
	NameKm            *string          `json:"name_km"`
	Unit              string           `json:"unit"`
	CostPerUnit       *decimal.Decimal `json:"cost_per_unit"       validate:"omitempty,min=0"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// AdjustStockRequest mutates an ingredient's quantity through the ledger.
// For type "adjustment" Quantity is the target absolute quantity; for every
// other type it is the amount moved in or out.
type AdjustStockRequest struct {
	Type     string          `json:"type"     validate:"required,oneof=in out waste adjustment"`
	Quantity decimal.Decimal `json:"quantity" validate:"min=0"`
	Notes    *string         `json:"notes"`
}

type CreateRecipeRequest struct {
	MenuItemID   string          `json:"menu_item_id"  validate:"required,uuid"`
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Size         string          `json:"size"          validate:"omitempty,oneof=regular medium large"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"required,gt=0"`
}

type StockTransactionFilter struct {
	IngredientID string
	Type         string
	Page         int
	Limit        int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredientResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	NameKm            *string         `json:"name_km,omitempty"`
	Unit              string          `json:"unit"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	StockStatus       string          `json:"stock_status"`
	Active            bool            `json:"active"`
}

type StockTransactionResponse struct {
	ID            string          `json:"id"`
	IngredientID  string          `json:"ingredient_id"`
	Ingredient    string          `json:"ingredient,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type StockTransactionListResponse struct {
	Data  []StockTransactionResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// LowStockAlert is the payload published when a mutation leaves an ingredient
// at or under its threshold.
type LowStockAlert struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Threshold    string `json:"threshold"`
	Status       string `json:"status"`
}

type RecipeResponse struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	IngredientID string          `json:"ingredient_id"`
	Ingredient   string          `json:"ingredient,omitempty"`
	Size         string          `json:"size"`
	Quantity     decimal.Decimal `json:"quantity"`
}
