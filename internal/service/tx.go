package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// defaultTxTimeout bounds every stock-mutation transaction. Long-running
// lock waits surface as a transaction failure instead of piling up.
const defaultTxTimeout = 15 * time.Second

// txTimeout is overridden from TX_TIMEOUT_SECONDS at wiring time.
var txTimeout = defaultTxTimeout

// SetTxTimeout installs the configured transaction deadline. Called once
// from the composition root; nonpositive values keep the default.
func SetTxTimeout(d time.Duration) {
	if d > 0 {
		txTimeout = d
	}
}

// runTx executes fn inside a GORM transaction bounded by the configured
// deadline when db is available, or calls fn(nil) directly when db is nil
// (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	return db.WithContext(ctx).Transaction(fn)
}
