package service

import (
	"context"
	"errors"
	"fmt"

	"khmercafe/internal/domain"
	"khmercafe/internal/dto"
	"khmercafe/internal/model"
	"khmercafe/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService owns every mutation of ingredient quantities. Each mutation
// locks the ingredient row, checks the non-negativity invariant, and appends
// one ledger entry; update and ledger row commit or roll back together.
type StockService interface {
	CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error)
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
	GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error)
	ListIngredients(ctx context.Context, filter repository.IngredientFilter) ([]dto.IngredientResponse, error)
	// LowStockAlerts returns active ingredients at or under their threshold.
	LowStockAlerts(ctx context.Context) ([]dto.IngredientResponse, error)

	// Adjust applies a manual stock movement. For "adjustment" quantity is the
	// target absolute value and the ledger stores target-current; for every
	// other type the ledger stores the literal signed movement.
	Adjust(ctx context.Context, ingredientID uuid.UUID, txType string, quantity decimal.Decimal, notes *string, actor *uuid.UUID) (*dto.IngredientResponse, error)

	ListTransactions(ctx context.Context, filter dto.StockTransactionFilter) (*dto.StockTransactionListResponse, error)

	// DeductForSaleTx and RestoreForVoidTx run inside the order transaction;
	// callers own the tx so a failure on any ingredient unwinds everything.
	DeductForSaleTx(tx *gorm.DB, menuItemID uuid.UUID, size string, units int, orderID uuid.UUID, orderNumber string) error
	RestoreForVoidTx(tx *gorm.DB, menuItemID uuid.UUID, size string, units int, orderID uuid.UUID, orderNumber string) error
}

// LowStockNotifier receives alerts when a mutation leaves an ingredient at or
// under its threshold. Enqueue failures never affect the committed mutation.
type LowStockNotifier interface {
	EnqueueLowStock(ctx context.Context, payload interface{}) error
}

type stockService struct {
	ingredients repository.IngredientRepository
	recipes     repository.RecipeRepository
	ledger      repository.StockTransactionRepository
	txm         repository.TxManager
	notifier    LowStockNotifier
}

func NewStockService(
	ingredients repository.IngredientRepository,
	recipes repository.RecipeRepository,
	ledger repository.StockTransactionRepository,
	txm repository.TxManager,
	notifier LowStockNotifier,
) StockService {
	return &stockService{ingredients: ingredients, recipes: recipes, ledger: ledger, txm: txm, notifier: notifier}
}

// ── Ingredient CRUD ──────────────────────────────────────────────────────────

func (s *stockService) CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	threshold := req.LowStockThreshold
	if threshold.IsZero() {
		threshold = decimal.NewFromInt(10)
	}
	ing := &model.Ingredient{
		Name:              req.Name,
		NameKm:            req.NameKm,
		Unit:              req.Unit,
		CostPerUnit:       req.CostPerUnit,
		Quantity:          req.Quantity,
		LowStockThreshold: threshold,
		Active:            true,
	}
	if err := s.ingredients.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ingredientToResponse(ing), nil
}

func (s *stockService) UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrIngredientNotFound
	}
	if req.Name != "" {
		ing.Name = req.Name
	}
	if req.NameKm != nil {
		ing.NameKm = req.NameKm
	}
	if req.Unit != "" {
		ing.Unit = req.Unit
	}
	if req.CostPerUnit != nil {
		ing.CostPerUnit = *req.CostPerUnit
	}
	if req.LowStockThreshold != nil {
		ing.LowStockThreshold = *req.LowStockThreshold
	}
	// Quantity is deliberately not updatable here; only Adjust writes it.
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, err
	}
	return ingredientToResponse(ing), nil
}

func (s *stockService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ingredients.FindByID(ctx, id); err != nil {
		return domain.ErrIngredientNotFound
	}
	return s.ingredients.SoftDelete(ctx, id)
}

func (s *stockService) GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrIngredientNotFound
	}
	return ingredientToResponse(ing), nil
}

func (s *stockService) ListIngredients(ctx context.Context, filter repository.IngredientFilter) ([]dto.IngredientResponse, error) {
	ingredients, err := s.ingredients.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.IngredientResponse, len(ingredients))
	for i := range ingredients {
		resp[i] = *ingredientToResponse(&ingredients[i])
	}
	return resp, nil
}

func (s *stockService) LowStockAlerts(ctx context.Context) ([]dto.IngredientResponse, error) {
	return s.ListIngredients(ctx, repository.IngredientFilter{LowStock: true})
}

// ── Adjust ───────────────────────────────────────────────────────────────────

func (s *stockService) Adjust(ctx context.Context, ingredientID uuid.UUID, txType string, quantity decimal.Decimal, notes *string, actor *uuid.UUID) (*dto.IngredientResponse, error) {
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	var result *model.Ingredient
	err := s.txm.InTx(ctx, func(tx *gorm.DB) error {
		ing, err := s.ingredients.FindByIDForUpdateTx(tx, ingredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrIngredientNotFound
			}
			return err
		}

		var newQty, delta decimal.Decimal
		switch txType {
		case model.StockTxIn:
			delta = quantity
			newQty = ing.Quantity.Add(quantity)
		case model.StockTxOut, model.StockTxWaste:
			delta = quantity.Neg()
			newQty = ing.Quantity.Sub(quantity)
		case model.StockTxAdjustment:
			// quantity is the target absolute value; the ledger records the
			// difference applied, keeping the delta-sum invariant intact.
			newQty = quantity
			delta = quantity.Sub(ing.Quantity)
		default:
			return fmt.Errorf("invalid stock transaction type %q", txType)
		}

		if newQty.IsNegative() {
			return fmt.Errorf("%w: %s has %s %s", domain.ErrInsufficientStock, ing.Name, ing.Quantity, ing.Unit)
		}

		if err := s.ingredients.UpdateQuantityTx(tx, ing.ID, newQty); err != nil {
			return err
		}
		entry := &model.StockTransaction{
			IngredientID:  ing.ID,
			Type:          txType,
			Quantity:      delta,
			ReferenceType: model.StockRefManual,
			Notes:         notes,
			CreatedBy:     actor,
		}
		if err := s.ledger.CreateTx(tx, entry); err != nil {
			return err
		}

		ing.Quantity = newQty
		result = ing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status := result.StockStatus(); status != model.StockOK && s.notifier != nil {
		alert := dto.LowStockAlert{
			IngredientID: result.ID.String(),
			Name:         result.Name,
			Quantity:     result.Quantity.String(),
			Threshold:    result.LowStockThreshold.String(),
			Status:       status,
		}
		// Best effort; the adjustment is already committed.
		_ = s.notifier.EnqueueLowStock(ctx, alert)
	}

	return ingredientToResponse(result), nil
}

func (s *stockService) ListTransactions(ctx context.Context, filter dto.StockTransactionFilter) (*dto.StockTransactionListResponse, error) {
	txs, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockTransactionResponse, len(txs))
	for i, t := range txs {
		items[i] = dto.StockTransactionResponse{
			ID:            t.ID.String(),
			IngredientID:  t.IngredientID.String(),
			Type:          t.Type,
			Quantity:      t.Quantity,
			ReferenceType: t.ReferenceType,
			Notes:         t.Notes,
			CreatedAt:     t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if t.ReferenceID != nil {
			ref := t.ReferenceID.String()
			items[i].ReferenceID = &ref
		}
		if t.Ingredient != nil {
			items[i].Ingredient = t.Ingredient.Name
		}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return &dto.StockTransactionListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── Sale deduction / void restoration ────────────────────────────────────────

func (s *stockService) DeductForSaleTx(tx *gorm.DB, menuItemID uuid.UUID, size string, units int, orderID uuid.UUID, orderNumber string) error {
	return s.moveForOrderTx(tx, menuItemID, size, units, orderID, orderNumber, false)
}

func (s *stockService) RestoreForVoidTx(tx *gorm.DB, menuItemID uuid.UUID, size string, units int, orderID uuid.UUID, orderNumber string) error {
	return s.moveForOrderTx(tx, menuItemID, size, units, orderID, orderNumber, true)
}

func (s *stockService) moveForOrderTx(tx *gorm.DB, menuItemID uuid.UUID, size string, units int, orderID uuid.UUID, orderNumber string, restore bool) error {
	recipes, err := s.recipes.FindForItemSizeTx(tx, menuItemID, size)
	if err != nil {
		return err
	}

	for _, recipe := range recipes {
		ing, err := s.ingredients.FindByIDForUpdateTx(tx, recipe.IngredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: recipe ingredient %s", domain.ErrIngredientDeleted, recipe.IngredientID)
			}
			return err
		}

		moved := recipe.Quantity.Mul(decimal.NewFromInt(int64(units)))
		var newQty, delta decimal.Decimal
		var txType, note string
		if restore {
			newQty = ing.Quantity.Add(moved)
			delta = moved
			txType = model.StockTxIn
			note = fmt.Sprintf("Stock restored from voided order %s", orderNumber)
		} else {
			newQty = ing.Quantity.Sub(moved)
			delta = moved.Neg()
			txType = model.StockTxOut
			note = fmt.Sprintf("Sold on order %s", orderNumber)
		}

		if newQty.IsNegative() {
			return fmt.Errorf("%w: %s has %s %s, order needs %s", domain.ErrInsufficientStock,
				ing.Name, ing.Quantity, ing.Unit, moved)
		}

		if err := s.ingredients.UpdateQuantityTx(tx, ing.ID, newQty); err != nil {
			return err
		}
		ref := orderID
		entry := &model.StockTransaction{
			IngredientID:  ing.ID,
			Type:          txType,
			Quantity:      delta,
			ReferenceType: model.StockRefSale,
			ReferenceID:   &ref,
			Notes:         &note,
		}
		if err := s.ledger.CreateTx(tx, entry); err != nil {
			return err
		}
	}
	return nil
}

func ingredientToResponse(i *model.Ingredient) *dto.IngredientResponse {
	return &dto.IngredientResponse{
		ID:                i.ID.String(),
		Name:              i.Name,
		NameKm:            i.NameKm,
		Unit:              i.Unit,
		CostPerUnit:       i.CostPerUnit,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		StockStatus:       i.StockStatus(),
		Active:            i.Active,
	}
}
