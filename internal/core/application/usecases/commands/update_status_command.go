package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateStatusCommandIsNotConstructed = errors.New(
	"UpdateStatusCommand must be created via NewUpdateStatusCommand constructor",
)

// UpdateStatusCommand represents a manual status report from the assigned
// transporter, e.g. IN_TRANSIT or DELIVERED.
type UpdateStatusCommand struct { //nolint:recvcheck //using for validation
	dealID        kernel.UUID
	transporterID kernel.UUID
	next          deal.Status

	guard guard.ConstructorGuard
}

// NewUpdateStatusCommand creates a status report command from the raw
// status name.
func NewUpdateStatusCommand(dealID, transporterID kernel.UUID, rawStatus string) (UpdateStatusCommand, error) {
	cmd := UpdateStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setTransporterID(transporterID),
		cmd.setNext(rawStatus),
	); err != nil {
		return UpdateStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStatusCommandIsNotConstructed)
}

// DealID returns the reported deal.
func (c UpdateStatusCommand) DealID() kernel.UUID { return c.dealID }

// TransporterID returns the reporting transporter.
func (c UpdateStatusCommand) TransporterID() kernel.UUID { return c.transporterID }

// Next returns the requested status.
func (c UpdateStatusCommand) Next() deal.Status { return c.next }

func (c *UpdateStatusCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *UpdateStatusCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}

func (c *UpdateStatusCommand) setNext(rawStatus string) error {
	next, err := deal.StatusFromString(rawStatus)
	if err != nil {
		return err
	}

	c.next = next
	return nil
}
