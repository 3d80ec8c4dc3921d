package infra

import (
	"fmt"

	"github.com/ElenaG-E/temucosoft/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial indexes, CHECK constraints).
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

// RunMigrations applies AutoMigrate plus the schema patches. Also used by
// integration tests against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Company{},
		&model.Subscription{},
		&model.User{},
		&model.Branch{},
		&model.Supplier{},
		&model.Product{},
		&model.Inventory{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusChange{},
		&model.CartItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Every statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Stock can never go negative, even if a code path slips past the
		// service-level check.
		{"inventories stock non-negative check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventories_stock_nonneg') THEN
    ALTER TABLE inventories ADD CONSTRAINT chk_inventories_stock_nonneg CHECK (stock >= 0);
  END IF;
END $$`},

		// A cart line belongs to exactly one owner: a user or an anonymous
		// session, never both, never neither.
		{"cart_items owner XOR check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cart_items_single_owner') THEN
    ALTER TABLE cart_items ADD CONSTRAINT chk_cart_items_single_owner
      CHECK ((user_id IS NOT NULL AND session_key IS NULL)
          OR (user_id IS NULL AND session_key IS NOT NULL));
  END IF;
END $$`},

		// One cart line per (owner, product). GORM has no syntax for partial
		// unique indexes, so they live here.
		{"cart_items unique per user+product", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_cart_user_product') THEN
    CREATE UNIQUE INDEX uniq_cart_user_product
        ON cart_items (user_id, product_id)
        WHERE user_id IS NOT NULL;
  END IF;
END $$`},
		{"cart_items unique per session+product", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_cart_session_product') THEN
    CREATE UNIQUE INDEX uniq_cart_session_product
        ON cart_items (session_key, product_id)
        WHERE session_key IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
