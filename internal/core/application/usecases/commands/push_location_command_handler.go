package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/ports"
)

// PushLocationCommandHandler ingests live transporter positions.
// Every sample is persisted as the deal's last known position; it only fans
// out to subscribers while the deal's sharing window is open.
type PushLocationCommandHandler struct {
	uowFactory DealUoWFactory
	publisher  ports.EventPublisher
}

// NewPushLocationCommandHandler creates a handler for position samples.
func NewPushLocationCommandHandler(uowFactory DealUoWFactory, publisher ports.EventPublisher) PushLocationCommandHandler {
	return PushLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes a position sample and publishes LocationUpdated when the
// sharing window permits fan-out.
func (h PushLocationCommandHandler) Handle(ctx context.Context, cmd PushLocationCommand) error {
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

	trackedDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	now := time.Now()
	broadcast, err := trackedDeal.RecordLocation(cmd.TransporterID(), cmd.Point(), now)
	if err != nil {
		return err
	}

	if err = dealRepo.Update(ctx, trackedDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if broadcast {
		h.publisher.Publish(ctx, events.LocationUpdated{
			DealID:     trackedDeal.ID(),
			Latitude:   cmd.Point().Latitude(),
			Longitude:  cmd.Point().Longitude(),
			OccurredAt: now,
		})
	}

	return nil
}
