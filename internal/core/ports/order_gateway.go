package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryResponsibility names the party that must arrange (and pay for)
// the delivery of an order.
type DeliveryResponsibility string

const (
	FarmerArranged DeliveryResponsibility = "FARMER_ARRANGED"
	BuyerArranged  DeliveryResponsibility = "BUYER_ARRANGED"
)

// Order statuses the dispatch core writes back through the gateway.
const (
	OrderInDelivery = "IN_DELIVERY"
	OrderCompleted  = "COMPLETED"
)

// Order is the narrow projection of an order the dispatch core consumes.
// Order management itself lives outside this module.
type Order struct {
	ID             kernel.UUID
	ListingID      kernel.UUID
	FarmerID       kernel.UUID
	BuyerID        kernel.UUID
	Responsibility DeliveryResponsibility
	Status         string
}

// ResponsibleParty returns the user that must create and pay the deal for
// this order: the farmer under FARMER_ARRANGED, the buyer otherwise.
func (o Order) ResponsibleParty() kernel.UUID {
	if o.Responsibility == FarmerArranged {
		return o.FarmerID
	}
	return o.BuyerID
}

// OrderGateway exposes order lookup and the status write-backs the deal
// lifecycle cascades into.
type OrderGateway interface {
	// Get retrieves the order projection by identifier.
	Get(ctx context.Context, orderID kernel.UUID) (Order, error)

	// SetStatus writes the order status back to the owning subsystem.
	SetStatus(ctx context.Context, orderID kernel.UUID, status string) error
}
