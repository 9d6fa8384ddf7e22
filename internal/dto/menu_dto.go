package dto

import "github.com/shopspring/decimal"

type CreateMenuItemRequest struct {
	Name        string           `json:"name"       validate:"required"`
	NameKm      *string          `json:"name_km"`
	Category    string           `json:"category"`
	BasePrice   decimal.Decimal  `json:"base_price" validate:"required,gt=0"`
	PriceMedium *decimal.Decimal `json:"price_medium" validate:"omitempty,gt=0"`
	PriceLarge  *decimal.Decimal `json:"price_large"  validate:"omitempty,gt=0"`
	ImageURL    *string          `json:"image_url"`
}

type UpdateMenuItemRequest struct {
	Name        string           `json:"name"`
	NameKm      *string          `json:"name_km"`
	Category    string           `json:"category"`
	BasePrice   *decimal.Decimal `json:"base_price"   validate:"omitempty,gt=0"`
	PriceMedium *decimal.Decimal `json:"price_medium" validate:"omitempty,gt=0"`
	PriceLarge  *decimal.Decimal `json:"price_large"  validate:"omitempty,gt=0"`
	ImageURL    *string          `json:"image_url"`
}

type MenuItemResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	NameKm      *string          `json:"name_km,omitempty"`
	Category    string           `json:"category"`
	BasePrice   decimal.Decimal  `json:"base_price"`
	PriceMedium *decimal.Decimal `json:"price_medium,omitempty"`
	PriceLarge  *decimal.Decimal `json:"price_large,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Active      bool             `json:"active"`
}
