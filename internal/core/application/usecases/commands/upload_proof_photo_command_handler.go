package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/ports"
)

// UploadProofPhotoCommandHandler attaches custody evidence to a deal.
// The deal keeps at most the three most recent photos; older ones are
// evicted silently.
type UploadProofPhotoCommandHandler struct {
	uowFactory DealUoWFactory
	publisher  ports.EventPublisher
}

// NewUploadProofPhotoCommandHandler creates a handler for proof photos.
func NewUploadProofPhotoCommandHandler(
	uowFactory DealUoWFactory,
	publisher ports.EventPublisher,
) UploadProofPhotoCommandHandler {
	return UploadProofPhotoCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes a photo upload and publishes ProofPhotoUploaded after
// commit.
func (h UploadProofPhotoCommandHandler) Handle(ctx context.Context, cmd UploadProofPhotoCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dealRepo := uow.DealRepository()

	evidencedDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	now := time.Now()
	photo, err := deal.NewProofPhoto(cmd.Format(), cmd.Data(), now)
	if err != nil {
		return err
	}

	if err = evidencedDeal.AddProofPhoto(cmd.TransporterID(), photo); err != nil {
		return err
	}

	if err = dealRepo.Update(ctx, evidencedDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.ProofPhotoUploaded{
		DealID:     evidencedDeal.ID(),
		PhotoID:    photo.ID(),
		OccurredAt: now,
	})

	return nil
}
