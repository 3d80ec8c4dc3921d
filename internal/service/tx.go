package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx wraps fn in a transaction. A nil db (service built over stub
// repositories) runs fn directly, with no transactional guarantees.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
