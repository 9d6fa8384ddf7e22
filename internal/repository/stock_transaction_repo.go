package repository

import (
	"context"

	"khmercafe/internal/dto"
	"khmercafe/internal/model"

	"gorm.io/gorm"
)

// StockTransactionRepository appends to and reads the immutable stock ledger.
// There is deliberately no Update or Delete.
type StockTransactionRepository interface {
	CreateTx(tx *gorm.DB, st *model.StockTransaction) error
	List(ctx context.Context, filter dto.StockTransactionFilter) ([]model.StockTransaction, int64, error)
}

type stockTransactionRepo struct{ db *gorm.DB }

func NewStockTransactionRepository(db *gorm.DB) StockTransactionRepository {
	return &stockTransactionRepo{db: db}
}

func (r *stockTransactionRepo) CreateTx(tx *gorm.DB, st *model.StockTransaction) error {
	return tx.Create(st).Error
}

func (r *stockTransactionRepo) List(ctx context.Context, filter dto.StockTransactionFilter) ([]model.StockTransaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockTransaction{}).Preload("Ingredient")
	if filter.IngredientID != "" {
		q = q.Where("ingredient_id = ?", filter.IngredientID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var txs []model.StockTransaction
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}
