package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateDealCommandIsNotConstructed = errors.New(
	"CreateDealCommand must be created via NewCreateDealCommand constructor",
)

// AddressInput carries one endpoint of the route as supplied by the caller:
// a human-readable text and optional coordinates. Coordinates come as a
// pair; a lone latitude or longitude is rejected. An empty text is accepted
// here and filled from the responsible party's registered address at
// handling time.
type AddressInput struct {
	Text      string
	Latitude  *float64
	Longitude *float64
}

// CreateDealCommand represents a request to open a delivery deal for an
// order. The requesting party must hold the order's delivery responsibility.
//
// Example:
//
//	cmd, err := NewCreateDealCommand(kernel.NewUUID(), orderID, farmerID,
//	    pickup, drop, "truck", 42.5, 11, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid deal data: %w", err)
//	}
type CreateDealCommand struct { //nolint:recvcheck //using for validation
	dealID  kernel.UUID
	orderID kernel.UUID
	actorID kernel.UUID

	pickup AddressInput
	drop   AddressInput

	vehicleClass vehicle.Class
	distanceKm   float64
	pricePerKm   float64
	totalCost    *float64

	guard guard.ConstructorGuard
}

// NewCreateDealCommand creates a command to open a deal. The raw vehicle
// name is normalized to its canonical class here; addresses are checked
// structurally but may be empty, in which case the handler resolves them
// from the responsible profiles. A supplied total cost overrides the
// computed distance times rate.
func NewCreateDealCommand(
	dealID kernel.UUID,
	orderID kernel.UUID,
	actorID kernel.UUID,
	pickup AddressInput,
	drop AddressInput,
	rawVehicle string,
	distanceKm float64,
	pricePerKm float64,
	totalCost *float64,
) (CreateDealCommand, error) {
	cmd := CreateDealCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setPickup(pickup),
		cmd.setDrop(drop),
		cmd.setVehicle(rawVehicle),
		cmd.setPricing(distanceKm, pricePerKm, totalCost),
	); err != nil {
		return CreateDealCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDealCommand) Validate() error {
	return c.guard.Validate(ErrCreateDealCommandIsNotConstructed)
}

// DealID returns the identifier assigned to the new deal.
func (c CreateDealCommand) DealID() kernel.UUID { return c.dealID }

// OrderID returns the order the deal belongs to.
func (c CreateDealCommand) OrderID() kernel.UUID { return c.orderID }

// ActorID returns the requesting party.
func (c CreateDealCommand) ActorID() kernel.UUID { return c.actorID }

// Pickup returns the pickup endpoint as supplied by the caller.
func (c CreateDealCommand) Pickup() AddressInput { return c.pickup }

// Drop returns the drop endpoint as supplied by the caller.
func (c CreateDealCommand) Drop() AddressInput { return c.drop }

// VehicleClass returns the canonical vehicle class the deal requires.
func (c CreateDealCommand) VehicleClass() vehicle.Class { return c.vehicleClass }

// DistanceKm returns the agreed route distance.
func (c CreateDealCommand) DistanceKm() float64 { return c.distanceKm }

// PricePerKm returns the agreed rate.
func (c CreateDealCommand) PricePerKm() float64 { return c.pricePerKm }

// TotalCost returns the requester-supplied total, or nil when the cost is
// computed from distance and rate.
func (c CreateDealCommand) TotalCost() *float64 { return c.totalCost }

func (c *CreateDealCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *CreateDealCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateDealCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *CreateDealCommand) setPickup(input AddressInput) error {
	if err := validateAddressInput("pickupAddress", input); err != nil {
		return err
	}

	c.pickup = input
	return nil
}

func (c *CreateDealCommand) setDrop(input AddressInput) error {
	if err := validateAddressInput("dropAddress", input); err != nil {
		return err
	}

	c.drop = input
	return nil
}

func (c *CreateDealCommand) setVehicle(rawVehicle string) error {
	if rawVehicle == "" {
		return errs.NewValueIsRequiredError("vehicleType")
	}

	c.vehicleClass = vehicle.Normalize(rawVehicle)
	return nil
}

func (c *CreateDealCommand) setPricing(distanceKm, pricePerKm float64, totalCost *float64) error {
	if distanceKm <= 0 {
		return errs.NewValueIsInvalidError("distance")
	}
	if pricePerKm <= 0 {
		return errs.NewValueIsInvalidError("pricePerKm")
	}
	if totalCost != nil && *totalCost <= 0 {
		return errs.NewValueIsInvalidError("totalCost")
	}

	c.distanceKm = distanceKm
	c.pricePerKm = pricePerKm
	c.totalCost = totalCost
	return nil
}

func validateAddressInput(paramName string, input AddressInput) error {
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return errs.NewValueIsInvalidError(paramName + " coordinates")
	}

	if input.Latitude != nil {
		if _, err := kernel.NewGeoPoint(*input.Latitude, *input.Longitude); err != nil {
			return err
		}
	}

	return nil
}
