package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetLocationSharingCommandIsNotConstructed = errors.New(
	"SetLocationSharingCommand must be created via NewSetLocationSharingCommand constructor",
)

// SetLocationSharingCommand represents a manual sharing toggle by the
// assigned transporter.
type SetLocationSharingCommand struct { //nolint:recvcheck //using for validation
	dealID        kernel.UUID
	transporterID kernel.UUID
	enabled       bool

	guard guard.ConstructorGuard
}

// NewSetLocationSharingCommand creates a sharing toggle command.
func NewSetLocationSharingCommand(dealID, transporterID kernel.UUID, enabled bool) (SetLocationSharingCommand, error) {
	cmd := SetLocationSharingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setTransporterID(transporterID),
	); err != nil {
		return SetLocationSharingCommand{}, err
	}

	cmd.enabled = enabled
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetLocationSharingCommand) Validate() error {
	return c.guard.Validate(ErrSetLocationSharingCommandIsNotConstructed)
}

// DealID returns the toggled deal.
func (c SetLocationSharingCommand) DealID() kernel.UUID { return c.dealID }

// TransporterID returns the toggling transporter.
func (c SetLocationSharingCommand) TransporterID() kernel.UUID { return c.transporterID }

// Enabled returns the requested sharing state.
func (c SetLocationSharingCommand) Enabled() bool { return c.enabled }

func (c *SetLocationSharingCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *SetLocationSharingCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}
