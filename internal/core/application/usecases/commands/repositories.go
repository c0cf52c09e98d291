// Package commands contains the operations that change orders and their work
// items. Every command is built by a validating constructor and carries the
// acting access.Actor; every handler runs in one unit of work and returns the
// mutated order with recomputed statistics.
package commands

import (
	"context"

	"orderdesk/internal/core/ports"
)

// Unit of Work interfaces used by the command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CatalogRepoFactory provides the catalog repository bound to the transaction.
	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	// OrderUoW is the transaction boundary of every command: one order
	// aggregate plus read access to the catalog.
	//
	//	uow := factory.Create()
	//	err := uow.Begin(ctx)
	//	defer uow.Rollback(ctx)
	//	o, err := uow.OrderRepository().GetByTaskID(ctx, taskID)
	//	// ... mutate
	//	err = uow.OrderRepository().Update(ctx, o)
	//	err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		CatalogRepoFactory
	}

	// OrderUoWFactory creates a new unit of work per command.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)
