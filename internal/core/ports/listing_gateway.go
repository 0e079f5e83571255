package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// Listing statuses the dispatch core writes back through the gateway.
const (
	ListingInDelivery = "IN_DELIVERY"
	ListingSold       = "SOLD"
)

// ListingGateway exposes the listing status write-backs the deal lifecycle
// cascades into. Listing management itself lives outside this module.
type ListingGateway interface {
	// SetStatus writes the listing status back to the owning subsystem.
	SetStatus(ctx context.Context, listingID kernel.UUID, status string) error
}
