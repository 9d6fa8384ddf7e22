// Package domain holds the typed failure kinds shared by every service.
// Callers branch on these with errors.Is; never on message strings.
package domain

import "errors"

var (
	// Currency / payment
	ErrInvalidRate         = errors.New("exchange rate must be greater than zero")
	ErrPaymentInsufficient = errors.New("payment insufficient")

	// Stock ledger
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrIngredientDeleted signals a recipe row pointing at an ingredient
	// that no longer exists; a referential failure, not a stock shortage.
	ErrIngredientDeleted = errors.New("ingredient referenced by recipe no longer exists")

	// Orders
	ErrItemNotFound      = errors.New("menu item not found")
	ErrItemUnavailable   = errors.New("menu item is not available for sale")
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAlreadyVoided     = errors.New("order already voided")

	// Shifts
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftAlreadyOpen   = errors.New("cashier already has an open shift")
	ErrShiftAlreadyClosed = errors.New("shift already closed")

	// Auth
	ErrInvalidCredentials = errors.New("invalid credentials")
)
