package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
)

// CatalogRepository stores the services orders can include.
type CatalogRepository interface {
	// Save inserts the service or replaces the stored one with the same id.
	Save(ctx context.Context, service *catalog.Service) error

	// Get loads one service. Missing services fail with ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*catalog.Service, error)

	// GetMany loads the services with the given ids. Unknown ids are simply
	// absent from the result.
	GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*catalog.Service, error)

	// List returns every service ordered by name.
	List(ctx context.Context) ([]*catalog.Service, error)
}
