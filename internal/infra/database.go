package infra

import (
	"fmt"

	"khmercafe/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the SQL guards that GORM cannot
// express (CHECK constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates all tables and applies schema guards.
// Also used by integration tests against a scratch database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.MenuItem{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.StockTransaction{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderCounter{},
		&model.Shift{},
		&model.ExchangeRate{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The CHECK constraints are a backstop: services already enforce these rules
// under row locks, the database refuses violations outright.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"ingredients quantity non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ingredients_quantity_non_negative') THEN
    ALTER TABLE ingredients
      ADD CONSTRAINT chk_ingredients_quantity_non_negative CHECK (quantity >= 0);
  END IF;
END $$`},
		{"exchange rates positive", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_exchange_rates_positive') THEN
    ALTER TABLE exchange_rates
      ADD CONSTRAINT chk_exchange_rates_positive CHECK (usd_to_khr > 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
