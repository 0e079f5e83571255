package ports

import (
	"context"

	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
)

// DealRepository defines the persistence contract for deal aggregates.
type DealRepository interface {
	// Add persists a new deal aggregate to storage.
	// Fails with Conflict when a deal already exists for the same order.
	Add(ctx context.Context, aggregate *deal.Deal) error

	// Update persists changes to an existing deal aggregate.
	Update(ctx context.Context, aggregate *deal.Deal) error

	// Get retrieves a deal by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*deal.Deal, error)

	// GetByOrderID retrieves the single deal created for an order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*deal.Deal, error)

	// GetOpenDeals retrieves every deal currently claimable: escrow held,
	// waiting for a transporter and unassigned. Per-transporter filtering
	// (vehicle class, decline set, service range) happens in the domain.
	GetOpenDeals(ctx context.Context) ([]*deal.Deal, error)

	// Claim is the race arbiter. It performs one conditional update that
	// assigns the transporter only while the deal is still waiting and
	// unassigned. When another transporter already won, no row changes and
	// Claim fails with Conflict. Exactly one concurrent caller succeeds.
	Claim(ctx context.Context, id kernel.UUID, transporterID kernel.UUID) (*deal.Deal, error)
}
