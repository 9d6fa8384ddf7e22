package repository

import (
	"context"

	"khmercafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShiftRepository interface {
	Create(ctx context.Context, s *model.Shift) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
	// FindByIDForUpdateTx locks the shift row so two concurrent close
	// requests cannot both pass the open-status check.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Shift, error)
	FindOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*model.Shift, error)
	UpdateTx(tx *gorm.DB, s *model.Shift) error
	List(ctx context.Context, cashierID *uuid.UUID, status string, limit int) ([]model.Shift, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) Create(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shiftRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *shiftRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *shiftRepo) FindOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("cashier_id = ? AND status = ?", cashierID, model.ShiftOpen).
		First(&s).Error
	return &s, err
}

func (r *shiftRepo) UpdateTx(tx *gorm.DB, s *model.Shift) error {
	return tx.Save(s).Error
}

func (r *shiftRepo) List(ctx context.Context, cashierID *uuid.UUID, status string, limit int) ([]model.Shift, error) {
	q := r.db.WithContext(ctx).Model(&model.Shift{})
	if cashierID != nil {
		q = q.Where("cashier_id = ?", *cashierID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var shifts []model.Shift
	err := q.Order("start_time DESC").Limit(limit).Find(&shifts).Error
	return shifts, err
}
