package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager opens the single database transaction every mutating core
// operation runs inside. Services depend on this interface so the unit suite
// can substitute a fake with snapshot/rollback semantics.
type TxManager interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) TxManager { return &gormTxManager{db: db} }

func (m *gormTxManager) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
