package ports

import (
	"context"
)

// UnitOfWorkFactory creates a new UnitOfWork for each request or job run.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin run inside the transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. It fails when no
	// transaction is active, which makes a deferred Rollback after Commit safe.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	CatalogRepository() CatalogRepository
	TeamRepository() TeamRepository
}
