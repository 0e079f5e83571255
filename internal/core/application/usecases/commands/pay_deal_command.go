package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrPayDealCommandIsNotConstructed = errors.New(
	"PayDealCommand must be created via NewPayDealCommand constructor",
)

// PayDealCommand represents a request to fund a deal's escrow from the
// payer's wallet.
type PayDealCommand struct { //nolint:recvcheck //using for validation
	dealID  kernel.UUID
	payerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewPayDealCommand creates a command to place the escrow hold.
func NewPayDealCommand(dealID, payerID kernel.UUID) (PayDealCommand, error) {
	cmd := PayDealCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setPayerID(payerID),
	); err != nil {
		return PayDealCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PayDealCommand) Validate() error {
	return c.guard.Validate(ErrPayDealCommandIsNotConstructed)
}

// DealID returns the deal being funded.
func (c PayDealCommand) DealID() kernel.UUID { return c.dealID }

// PayerID returns the wallet owner paying into escrow.
func (c PayDealCommand) PayerID() kernel.UUID { return c.payerID }

func (c *PayDealCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *PayDealCommand) setPayerID(payerID kernel.UUID) error {
	if err := payerID.Validate(); err != nil {
		return err
	}

	c.payerID = payerID
	return nil
}
