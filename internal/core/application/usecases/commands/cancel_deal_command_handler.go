package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/ports"
)

// CancelDealCommandHandler cancels a deal administratively from any
// non-terminal status, closing the sharing window.
type CancelDealCommandHandler struct {
	uowFactory DealUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelDealCommandHandler creates a handler for cancellations.
func NewCancelDealCommandHandler(uowFactory DealUoWFactory, publisher ports.EventPublisher) CancelDealCommandHandler {
	return CancelDealCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes a cancellation and publishes StatusChanged after commit.
func (h CancelDealCommandHandler) Handle(ctx context.Context, cmd CancelDealCommand) error {
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

	cancelledDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	previous := cancelledDeal.Status()
	now := time.Now()

	if err = cancelledDeal.Cancel(now); err != nil {
		return err
	}

	if err = dealRepo.Update(ctx, cancelledDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.StatusChanged{
		DealID:     cancelledDeal.ID(),
		From:       previous.String(),
		To:         cancelledDeal.Status().String(),
		OccurredAt: now,
	})

	return nil
}
