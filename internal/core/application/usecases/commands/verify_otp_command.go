package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyOtpCommandIsNotConstructed = errors.New(
	"VerifyOtpCommand must be created via NewVerifyOtpCommand constructor",
)

// VerifyOtpCommand represents a custody code presented by the assigned
// transporter. Which code is expected follows from the deal's status, not
// from the command.
type VerifyOtpCommand struct { //nolint:recvcheck //using for validation
	dealID        kernel.UUID
	transporterID kernel.UUID
	code          string

	guard guard.ConstructorGuard
}

// NewVerifyOtpCommand creates a custody verification command.
func NewVerifyOtpCommand(dealID, transporterID kernel.UUID, code string) (VerifyOtpCommand, error) {
	cmd := VerifyOtpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setTransporterID(transporterID),
		cmd.setCode(code),
	); err != nil {
		return VerifyOtpCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyOtpCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOtpCommandIsNotConstructed)
}

// DealID returns the deal the code belongs to.
func (c VerifyOtpCommand) DealID() kernel.UUID { return c.dealID }

// TransporterID returns the presenting transporter.
func (c VerifyOtpCommand) TransporterID() kernel.UUID { return c.transporterID }

// Code returns the presented code.
func (c VerifyOtpCommand) Code() string { return c.code }

func (c *VerifyOtpCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *VerifyOtpCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}

func (c *VerifyOtpCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	c.code = code
	return nil
}
