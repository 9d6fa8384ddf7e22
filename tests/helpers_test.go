package tests

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// fakeTxManager drives service transactions against in-memory stubs. When a
// snapshot hook is set it captures repo state before the callback and restores
// it on error, mirroring a database rollback.
type fakeTxManager struct {
	snapshot func() (restore func())
}

func (m *fakeTxManager) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	var restore func()
	if m.snapshot != nil {
		restore = m.snapshot()
	}
	if err := fn(nil); err != nil {
		if restore != nil {
			restore()
		}
		return err
	}
	return nil
}

// fixedClock pins time for deterministic order numbers and shift windows.
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }
