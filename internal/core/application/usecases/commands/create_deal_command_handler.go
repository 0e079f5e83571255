package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CreateDealCommandHandler opens a delivery deal for an order.
// Enforces the delivery-responsibility role check and the one-deal-per-order
// rule, then creates the deal in PENDING_PAYMENT with both custody codes.
// Route endpoints the caller left empty are filled from the marketplace
// profiles: the pickup from the farmer's registered address, the drop from
// the buyer's.
type CreateDealCommandHandler struct {
	uowFactory DealUoWFactory
	orders     ports.OrderGateway
	profiles   ports.ProfileGateway
	publisher  ports.EventPublisher
}

// NewCreateDealCommandHandler creates a handler for deal creation.
func NewCreateDealCommandHandler(
	uowFactory DealUoWFactory,
	orders ports.OrderGateway,
	profiles ports.ProfileGateway,
	publisher ports.EventPublisher,
) CreateDealCommandHandler {
	return CreateDealCommandHandler{
		uowFactory: uowFactory,
		orders:     orders,
		profiles:   profiles,
		publisher:  publisher,
	}
}

// Handle processes the deal creation command.
// The actor must hold the order's delivery responsibility (farmer for
// FARMER_ARRANGED, buyer for BUYER_ARRANGED) and the order must not already
// have a deal. Publishes DealCreated after commit.
func (h CreateDealCommandHandler) Handle(ctx context.Context, cmd CreateDealCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	order, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !order.ResponsibleParty().IsEqual(cmd.ActorID()) {
		return errs.NewNotAuthorizedError(
			"user "+cmd.ActorID().String(),
			"create deal for order "+cmd.OrderID().String(),
		)
	}

	pickup, err := h.resolveAddress(ctx, "pickupAddress", cmd.Pickup(), order.FarmerID)
	if err != nil {
		return err
	}
	drop, err := h.resolveAddress(ctx, "dropAddress", cmd.Drop(), order.BuyerID)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dealRepo := uow.DealRepository()

	_, err = dealRepo.GetByOrderID(ctx, cmd.OrderID())
	if err == nil {
		return errs.NewConflictError("deal already exists for order " + cmd.OrderID().String())
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	newDeal, err := deal.NewDeal(
		cmd.DealID(),
		cmd.OrderID(),
		pickup,
		drop,
		cmd.VehicleClass(),
		cmd.DistanceKm(),
		cmd.PricePerKm(),
		cmd.TotalCost(),
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = dealRepo.Add(ctx, newDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.DealCreated{
		DealID:     newDeal.ID(),
		OrderID:    newDeal.OrderID(),
		TotalCost:  newDeal.TotalCost(),
		OccurredAt: newDeal.CreatedAt(),
	})

	return nil
}

// resolveAddress turns a caller-supplied endpoint into an address, falling
// back to the party's registered marketplace address when the text was
// omitted. No input and no registered address is a ValueIsRequired error.
func (h CreateDealCommandHandler) resolveAddress(
	ctx context.Context,
	paramName string,
	input AddressInput,
	partyID kernel.UUID,
) (kernel.Address, error) {
	if input.Text == "" {
		registered, err := h.profiles.GetDefaultAddress(ctx, partyID)
		if err != nil {
			return kernel.Address{}, err
		}
		if registered == nil || registered.Text == "" {
			return kernel.Address{}, errs.NewValueIsRequiredError(paramName)
		}
		input = AddressInput{
			Text:      registered.Text,
			Latitude:  registered.Latitude,
			Longitude: registered.Longitude,
		}
	}

	var point *kernel.GeoPoint
	if input.Latitude != nil && input.Longitude != nil {
		p, err := kernel.NewGeoPoint(*input.Latitude, *input.Longitude)
		if err != nil {
			return kernel.Address{}, err
		}
		point = &p
	}

	return kernel.NewAddress(input.Text, point)
}
