package persistence

import (
	"context"

	appreturns "github.com/oms/backend/internal/application/returns"
	"gorm.io/gorm"
)

// GormReturnTransactionScope implements the returns TransactionScope using
// GORM transactions. Every repository handed to the function shares one
// transaction, so a row locked through the order repository stays locked
// until the scope commits or rolls back.
type GormReturnTransactionScope struct {
	db *gorm.DB
}

// NewGormReturnTransactionScope creates a new GormReturnTransactionScope
func NewGormReturnTransactionScope(db *gorm.DB) *GormReturnTransactionScope {
	return &GormReturnTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormReturnTransactionScope) Execute(ctx context.Context, fn func(repos appreturns.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(appreturns.Repos{
			Returns:  NewGormReturnRepository(tx),
			Orders:   NewGormOrderRepository(tx),
			Products: NewGormProductRepository(tx),
			Lookups:  NewGormLookupRepository(tx),
		})
	})
}

// Ensure GormReturnTransactionScope implements TransactionScope
var _ appreturns.TransactionScope = (*GormReturnTransactionScope)(nil)
