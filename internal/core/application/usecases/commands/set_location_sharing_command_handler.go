package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// SetLocationSharingCommandHandler toggles live-position fan-out.
// Only the assigned transporter may toggle, and only while the deal is in
// an active delivery status; the window never reopens after completion.
type SetLocationSharingCommandHandler struct {
	uowFactory DealUoWFactory
	publisher  ports.EventPublisher
}

// NewSetLocationSharingCommandHandler creates a handler for sharing toggles.
func NewSetLocationSharingCommandHandler(
	uowFactory DealUoWFactory,
	publisher ports.EventPublisher,
) SetLocationSharingCommandHandler {
	return SetLocationSharingCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes a sharing toggle and publishes LocationSharingSet after
// commit.
func (h SetLocationSharingCommandHandler) Handle(ctx context.Context, cmd SetLocationSharingCommand) error {
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

	toggledDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	assigned := toggledDeal.Transporter()
	if assigned == nil || !assigned.IsEqual(cmd.TransporterID()) {
		return errs.NewNotAuthorizedError(
			"transporter "+cmd.TransporterID().String(),
			"toggle location sharing",
		)
	}

	now := time.Now()
	if cmd.Enabled() {
		err = toggledDeal.EnableLocationSharing(now)
	} else {
		err = toggledDeal.DisableLocationSharing(now)
	}
	if err != nil {
		return err
	}

	if err = dealRepo.Update(ctx, toggledDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.LocationSharingSet{
		DealID:     toggledDeal.ID(),
		Enabled:    cmd.Enabled(),
		OccurredAt: now,
	})

	return nil
}
