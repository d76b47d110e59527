package returns

import (
	"context"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/returns"
)

// Repos bundles the repositories the creation engine works with. The
// transaction scope hands out a bundle whose repositories all share one
// database transaction.
type Repos struct {
	Returns  returns.Repository
	Orders   order.Repository
	Products order.ProductRepository
	Lookups  returns.LookupRepository
}

// TransactionScope runs a function with transaction-scoped repositories.
// If the function returns an error the transaction is rolled back, otherwise
// it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repos) error) error
}
