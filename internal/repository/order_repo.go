package repository

import (
	"context"
	"fmt"
	"time"

	"khmercafe/internal/dto"
	"khmercafe/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShiftSales aggregates a cashier's completed orders over a time window,
// computed for shift close.
type ShiftSales struct {
	Orders      int
	TotalUsd    decimal.Decimal
	CashPaidUsd decimal.Decimal
}

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdateTx locks the order row so concurrent void requests
	// serialize; line items are loaded after the lock is held.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	// NextOrderNumber atomically increments the per-day counter inside the
	// caller's transaction and returns the 1-based sequence value.
	NextOrderNumber(tx *gorm.DB, day string) (int, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	// SumCompletedForCashierTx aggregates completed orders for one cashier in
	// the half-open window [from, to).
	SumCompletedForCashierTx(tx *gorm.DB, cashierID uuid.UUID, from, to time.Time) (*ShiftSales, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("order_id = ?", id).Find(&o.Items).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) NextOrderNumber(tx *gorm.DB, day string) (int, error) {
	var value int
	err := tx.Raw(`
		INSERT INTO order_counters (day, value) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET value = order_counters.value + 1
		RETURNING value`, day).Scan(&value).Error
	return value, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
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
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var orders []model.Order
	err := q.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) SumCompletedForCashierTx(tx *gorm.DB, cashierID uuid.UUID, from, to time.Time) (*ShiftSales, error) {
	var row struct {
		Orders      int
		TotalUsd    decimal.Decimal
		CashPaidUsd decimal.Decimal
	}
	err := tx.Raw(`
		SELECT COUNT(*) AS orders,
		       COALESCE(SUM(total_usd), 0) AS total_usd,
		       COALESCE(SUM(paid_usd) FILTER (WHERE payment_method = ?), 0) AS cash_paid_usd
		FROM orders
		WHERE cashier_id = ? AND status = ?
		  AND created_at >= ? AND created_at < ?`,
		model.PayCash, cashierID, model.OrderCompleted, from, to).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("shift sales aggregate: %w", err)
	}
	return &ShiftSales{Orders: row.Orders, TotalUsd: row.TotalUsd, CashPaidUsd: row.CashPaidUsd}, nil
}
