package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUploadProofPhotoCommandIsNotConstructed = errors.New(
	"UploadProofPhotoCommand must be created via NewUploadProofPhotoCommand constructor",
)

// UploadProofPhotoCommand represents custody evidence attached by the
// assigned transporter. Format and size limits are enforced when the photo
// value object is built.
type UploadProofPhotoCommand struct { //nolint:recvcheck //using for validation
	dealID        kernel.UUID
	transporterID kernel.UUID
	format        string
	data          []byte

	guard guard.ConstructorGuard
}

// NewUploadProofPhotoCommand creates a proof photo command.
func NewUploadProofPhotoCommand(
	dealID, transporterID kernel.UUID,
	format string,
	data []byte,
) (UploadProofPhotoCommand, error) {
	cmd := UploadProofPhotoCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDealID(dealID),
		cmd.setTransporterID(transporterID),
		cmd.setPhoto(format, data),
	); err != nil {
		return UploadProofPhotoCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UploadProofPhotoCommand) Validate() error {
	return c.guard.Validate(ErrUploadProofPhotoCommandIsNotConstructed)
}

// DealID returns the deal the evidence belongs to.
func (c UploadProofPhotoCommand) DealID() kernel.UUID { return c.dealID }

// TransporterID returns the uploading transporter.
func (c UploadProofPhotoCommand) TransporterID() kernel.UUID { return c.transporterID }

// Format returns the photo MIME type.
func (c UploadProofPhotoCommand) Format() string { return c.format }

// Data returns the photo bytes.
func (c UploadProofPhotoCommand) Data() []byte { return c.data }

func (c *UploadProofPhotoCommand) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	c.dealID = dealID
	return nil
}

func (c *UploadProofPhotoCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}

func (c *UploadProofPhotoCommand) setPhoto(format string, data []byte) error {
	// Build a throwaway photo to run format and size validation up front.
	if _, err := deal.NewProofPhoto(format, data, time.Now()); err != nil {
		return err
	}

	c.format = format
	c.data = data
	return nil
}
