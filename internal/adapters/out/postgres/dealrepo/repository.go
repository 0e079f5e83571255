package dealrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDealRepository implements DealRepository using GORM.
type GormDealRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDealRepository creates a new GORM deal repository.
func NewGormDealRepository(db *gorm.DB, tracker aggregateTracker) *GormDealRepository {
	return &GormDealRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new deal to the database. The unique index on order_id turns
// a duplicate deal for the same order into a Conflict.
func (r *GormDealRepository) Add(ctx context.Context, aggregate *deal.Deal) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause(
				"deal already exists for order "+aggregate.OrderID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing deal, predicated on the version the aggregate was
// loaded with. A concurrent writer (most importantly the claim) bumps the
// version, so writing back a stale snapshot affects zero rows and returns
// Conflict instead of reverting the other writer's columns.
func (r *GormDealRepository) Update(ctx context.Context, aggregate *deal.Deal) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	// Select("*") so cleared fields (e.g. sharing disabled) are written too.
	result := r.db.WithContext(ctx).Model(&DealDTO{}).
		Where("id = ? AND version = ?", dto.ID, loadedVersion).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Either the deal does not exist or someone else wrote in between.
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewConflictError("deal " + aggregate.ID().String() + " was modified concurrently")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a deal by ID.
func (r *GormDealRepository) Get(ctx context.Context, id kernel.UUID) (*deal.Deal, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DealDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deal", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves the single deal created for an order.
func (r *GormDealRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*deal.Deal, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto DealDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deal for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenDeals retrieves every claimable deal: escrow held, waiting and
// unassigned.
func (r *GormDealRepository) GetOpenDeals(ctx context.Context) ([]*deal.Deal, error) {
	var dtos []DealDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ? AND transporter_id IS NULL",
			deal.WaitingForTransporter.String(), deal.PaymentHeld.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	deals := make([]*deal.Deal, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}

	return deals, nil
}

// Claim atomically assigns the transporter with one conditional update.
// The WHERE clause only matches while the deal is still waiting and
// unassigned, so under N concurrent claims the database lets exactly one
// through; everyone else sees zero rows affected and gets Conflict.
func (r *GormDealRepository) Claim(
	ctx context.Context,
	id kernel.UUID,
	transporterID kernel.UUID,
) (*deal.Deal, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := transporterID.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	result := r.db.WithContext(ctx).Model(&DealDTO{}).
		Where("id = ? AND status = ? AND transporter_id IS NULL",
			id.Bytes(), deal.WaitingForTransporter.String()).
		Updates(map[string]any{
			"transporter_id":           transporterID.Bytes(),
			"status":                   deal.TransporterAssigned.String(),
			"location_sharing_enabled": true,
			"location_sharing_started": now,
			"version":                  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Either the deal does not exist or someone else won the race.
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, errs.NewConflictError("deal already accepted by another transporter")
	}

	claimed, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(claimed.ID(), claimed)
	return claimed, nil
}
