package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeclineDealCommandIsNotConstructed = errors.New(
	"DeclineDealCommand must be created via NewDeclineDealCommand constructor",
)

// DeclineDealCommand represents a transporter passing on an open deal.
// The deal never appears in that transporter's pool again.
type DeclineDealCommand struct { //nolint:recvcheck //using for validation
	dealID        kernel.UUID
	transporterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeclineDealCommand creates a decline command.
func NewDeclineDealCommand(dealID, transporterID kernel.UUID) (DeclineDealCommand, error) {
	cmd := DeclineDealCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setTransporterID(transporterID),
	); err != nil {
		return DeclineDealCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclineDealCommand) Validate() error {
	return c.guard.Validate(ErrDeclineDealCommandIsNotConstructed)
}

// DealID returns the declined deal.
func (c DeclineDealCommand) DealID() kernel.UUID { return c.dealID }

// TransporterID returns the declining transporter.
func (c DeclineDealCommand) TransporterID() kernel.UUID { return c.transporterID }

func (c *DeclineDealCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *DeclineDealCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}
