package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrPushLocationCommandIsNotConstructed = errors.New(
	"PushLocationCommand must be created via NewPushLocationCommand constructor",
)

// PushLocationCommand represents a live position sample from the assigned
// transporter.
type PushLocationCommand struct { //nolint:recvcheck //using for validation
	dealID        kernel.UUID
	transporterID kernel.UUID
	point         kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewPushLocationCommand creates a position sample command.
func NewPushLocationCommand(
	dealID, transporterID kernel.UUID,
	latitude, longitude float64,
) (PushLocationCommand, error) {
	cmd := PushLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setTransporterID(transporterID),
		cmd.setPoint(latitude, longitude),
	); err != nil {
		return PushLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PushLocationCommand) Validate() error {
	return c.guard.Validate(ErrPushLocationCommandIsNotConstructed)
}

// DealID returns the tracked deal.
func (c PushLocationCommand) DealID() kernel.UUID { return c.dealID }

// TransporterID returns the reporting transporter.
func (c PushLocationCommand) TransporterID() kernel.UUID { return c.transporterID }

// Point returns the reported position.
func (c PushLocationCommand) Point() kernel.GeoPoint { return c.point }

func (c *PushLocationCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *PushLocationCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}

func (c *PushLocationCommand) setPoint(latitude, longitude float64) error {
	point, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return err
	}

	c.point = point
	return nil
}
