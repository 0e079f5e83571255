package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAcceptDealCommandIsNotConstructed = errors.New(
	"AcceptDealCommand must be created via NewAcceptDealCommand constructor",
)

// AcceptDealCommand represents a transporter's claim on an open deal.
// Any number of transporters may race with the same deal ID; exactly one
// wins.
type AcceptDealCommand struct { //nolint:recvcheck //using for validation
	dealID        kernel.UUID
	transporterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptDealCommand creates a claim command.
func NewAcceptDealCommand(dealID, transporterID kernel.UUID) (AcceptDealCommand, error) {
	cmd := AcceptDealCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setTransporterID(transporterID),
	); err != nil {
		return AcceptDealCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptDealCommand) Validate() error {
	return c.guard.Validate(ErrAcceptDealCommandIsNotConstructed)
}

// DealID returns the claimed deal.
func (c AcceptDealCommand) DealID() kernel.UUID { return c.dealID }

// TransporterID returns the claiming transporter.
func (c AcceptDealCommand) TransporterID() kernel.UUID { return c.transporterID }

func (c *AcceptDealCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *AcceptDealCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}
