package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSettleDeliveryCommandIsNotConstructed = errors.New(
	"SettleDeliveryCommand must be created via NewSettleDeliveryCommand constructor",
)

// SettleDeliveryCommand represents a settlement trigger for a completed
// delivery. Triggers are at-least-once; the earning's unique delivery key
// limits the effect to at-most-once.
type SettleDeliveryCommand struct { //nolint:recvcheck //using for validation
	dealID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSettleDeliveryCommand creates a settlement command.
func NewSettleDeliveryCommand(dealID kernel.UUID) (SettleDeliveryCommand, error) {
	cmd := SettleDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDealID(dealID); err != nil {
		return SettleDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SettleDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrSettleDeliveryCommandIsNotConstructed)
}

// DealID returns the completed deal to settle.
func (c SettleDeliveryCommand) DealID() kernel.UUID { return c.dealID }

func (c *SettleDeliveryCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}
