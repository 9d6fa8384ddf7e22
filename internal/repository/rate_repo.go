package repository

import (
	"context"

	"khmercafe/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateRepository interface {
	FindByDate(ctx context.Context, date string) (*model.ExchangeRate, error)
	// FindLatestAtOrBefore returns the most recent rate whose date is <= date.
	FindLatestAtOrBefore(ctx context.Context, date string) (*model.ExchangeRate, error)
	// Upsert inserts today's rate or overwrites it if today already has one.
	// Rates for prior dates are never touched.
	Upsert(ctx context.Context, r *model.ExchangeRate) error
	History(ctx context.Context, limit int) ([]model.ExchangeRate, error)
}

type rateRepo struct{ db *gorm.DB }

func NewRateRepository(db *gorm.DB) RateRepository { return &rateRepo{db: db} }

func (r *rateRepo) FindByDate(ctx context.Context, date string) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	err := r.db.WithContext(ctx).Where("rate_date = ?", date).First(&rate).Error
	return &rate, err
}

func (r *rateRepo) FindLatestAtOrBefore(ctx context.Context, date string) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	err := r.db.WithContext(ctx).
		Where("rate_date <= ?", date).
		Order("rate_date DESC").
		First(&rate).Error
	return &rate, err
}

func (r *rateRepo) Upsert(ctx context.Context, rate *model.ExchangeRate) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rate_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"usd_to_khr", "set_by", "updated_at"}),
	}).Create(rate).Error
}

func (r *rateRepo) History(ctx context.Context, limit int) ([]model.ExchangeRate, error) {
	var rates []model.ExchangeRate
	err := r.db.WithContext(ctx).Order("rate_date DESC").Limit(limit).Find(&rates).Error
	return rates, err
}
