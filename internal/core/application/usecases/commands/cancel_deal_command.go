package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelDealCommandIsNotConstructed = errors.New(
	"CancelDealCommand must be created via NewCancelDealCommand constructor",
)

// CancelDealCommand represents an administrative cancellation. Role
// enforcement happens at the transport boundary.
type CancelDealCommand struct { //nolint:recvcheck //using for validation
	dealID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelDealCommand creates a cancellation command.
func NewCancelDealCommand(dealID kernel.UUID) (CancelDealCommand, error) {
	cmd := CancelDealCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDealID(dealID); err != nil {
		return CancelDealCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelDealCommand) Validate() error {
	return c.guard.Validate(ErrCancelDealCommandIsNotConstructed)
}

// DealID returns the cancelled deal.
func (c CancelDealCommand) DealID() kernel.UUID { return c.dealID }

func (c *CancelDealCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}
