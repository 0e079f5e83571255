package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/ports"
)

// DeclineDealCommandHandler records a transporter's pass on an open deal.
// Declining is only legal while the deal is unassigned and idempotent for
// a transporter that already declined.
type DeclineDealCommandHandler struct {
	uowFactory DealUoWFactory
	publisher  ports.EventPublisher
}

// NewDeclineDealCommandHandler creates a handler for deal declines.
func NewDeclineDealCommandHandler(uowFactory DealUoWFactory, publisher ports.EventPublisher) DeclineDealCommandHandler {
	return DeclineDealCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes a decline and publishes DealDeclined after commit.
func (h DeclineDealCommandHandler) Handle(ctx context.Context, cmd DeclineDealCommand) error {
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

	declinedDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	if err = declinedDeal.Decline(cmd.TransporterID()); err != nil {
		return err
	}

	if err = dealRepo.Update(ctx, declinedDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.DealDeclined{
		DealID:        declinedDeal.ID(),
		TransporterID: cmd.TransporterID(),
		OccurredAt:    time.Now(),
	})

	return nil
}
