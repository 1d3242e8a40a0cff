package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type txKeyType struct{}

var txKey txKeyType

// DefaultLockTimeout bounds how long an approval waits on a row another
// approver holds with FOR UPDATE.
const DefaultLockTimeout = 5 * time.Second

// TransactionManager runs a unit of work and its audit entry in one
// transaction. A context that already carries a transaction joins it.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return NewTransactionManagerWithLockTimeout(db, DefaultLockTimeout)
}

// NewTransactionManagerWithLockTimeout sets lock_timeout on every transaction; zero leaves the server default.
func NewTransactionManagerWithLockTimeout(db *gorm.DB, lockTimeout time.Duration) TransactionManager {
	return &transactionManager{db: db, lockTimeout: lockTimeout}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.lockTimeout > 0 {
			// SET does not take bind parameters
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// InTx reports whether ctx carries an open transaction
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(*gorm.DB)
	return ok
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
