// Package ports defines the persistence contracts of the lifecycle engine.
// Adapters implement them; command and query handlers depend on them.
package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates together with their service
// instances, tasks, asking tasks and stage logs.
type OrderRepository interface {
	// Add persists a new order with everything it owns.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists an existing order. The stored version must equal
	// aggregate.Version(); otherwise the update fails with a ConflictError
	// wrapping errs.ErrConcurrentModification and nothing is written.
	// On success the aggregate's version is advanced.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order by id. Missing orders fail with ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByTaskID loads the order owning the task.
	GetByTaskID(ctx context.Context, taskID kernel.UUID) (*order.Order, error)

	// GetByAskingTaskID loads the order owning the asking task.
	GetByAskingTaskID(ctx context.Context, askingTaskID kernel.UUID) (*order.Order, error)

	// CountRevisions returns how many revision orders reference originalID.
	CountRevisions(ctx context.Context, originalID kernel.UUID) (int, error)
}
