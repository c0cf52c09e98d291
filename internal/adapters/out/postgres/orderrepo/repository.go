package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"orderdesk/internal/adapters/out/postgres/catalogrepo"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its instances and work items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	rows := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&rows.order).Error; err != nil {
		return err
	}
	if err := saveChildren(db, rows); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order only if the stored version still matches, then
// syncs the children: removed instances are deleted (their work items
// cascade), work items are upserted and new stage records appended.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	rows := fromDomain(aggregate)
	rows.order.Version = aggregate.Version() + 1
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", rows.order.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&rows.order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.staleOrMissing(db, aggregate)
	}

	keep := make([]uuid.UUID, 0, len(rows.instances))
	for _, inst := range rows.instances {
		keep = append(keep, inst.ID)
	}
	remove := db.Where("order_id = ?", rows.order.ID)
	if len(keep) > 0 {
		remove = remove.Where("id NOT IN ?", keep)
	}
	if err := remove.Delete(&ServiceInstanceDTO{}).Error; err != nil {
		return err
	}

	if err := saveChildren(db, rows); err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) staleOrMissing(db *gorm.DB, aggregate *order.Order) error {
	var count int64
	if err := db.Model(&OrderDTO{}).Where("id = ?", aggregate.ID().Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return errs.NewConflictErrorWithCause(
		"order",
		fmt.Sprintf("order %s was changed since version %d", aggregate.ID(), aggregate.Version()),
		errs.ErrConcurrentModification,
	)
}

// saveChildren writes instances and stage records insert-only and work items
// as upserts.
func saveChildren(db *gorm.DB, rows orderRows) error {
	if len(rows.instances) > 0 {
		if err := db.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rows.instances).Error; err != nil {
			return err
		}
	}
	if len(rows.tasks) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&rows.tasks).Error; err != nil {
			return err
		}
	}
	if len(rows.askingTasks) > 0 {
		if err := db.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(&rows.askingTasks).Error; err != nil {
			return err
		}
	}
	if len(rows.records) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows.records).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves an order by ID with everything it owns.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.loadQuery(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.restore(dto)
}

// GetByTaskID retrieves the order owning the task.
func (r *GormOrderRepository) GetByTaskID(ctx context.Context, taskID kernel.UUID) (*order.Order, error) {
	return r.getByOwned(ctx, "tasks", "task", taskID)
}

// GetByAskingTaskID retrieves the order owning the asking task.
func (r *GormOrderRepository) GetByAskingTaskID(ctx context.Context, askingTaskID kernel.UUID) (*order.Order, error) {
	return r.getByOwned(ctx, "asking_tasks", "asking task", askingTaskID)
}

func (r *GormOrderRepository) getByOwned(ctx context.Context, table, name string, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var ref struct{ OrderID uuid.UUID }
	err := r.db.WithContext(ctx).
		Model(&ServiceInstanceDTO{}).
		Select("service_instances.order_id").
		Joins(fmt.Sprintf("JOIN %s ON %s.instance_id = service_instances.id", table, table)).
		Where(table+".id = ?", id.Bytes()).
		Take(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(name, id.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(ref.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID)
}

// CountRevisions counts the revision orders of originalID.
func (r *GormOrderRepository) CountRevisions(ctx context.Context, originalID kernel.UUID) (int, error) {
	if err := originalID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("original_order_id = ?", originalID.Bytes()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *GormOrderRepository) loadQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Instances", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Instances.Service").
		Preload("Instances.Task").
		Preload("Instances.AskingTask").
		Preload("Instances.AskingTask.StageLog", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

func (r *GormOrderRepository) restore(dto OrderDTO) (*order.Order, error) {
	services := make(map[kernel.UUID]*catalog.Service)
	for _, inst := range dto.Instances {
		s, err := catalogrepo.ToDomain(inst.Service)
		if err != nil {
			return nil, err
		}
		services[s.ID()] = s
	}
	return toDomain(dto, services)
}
