package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/ports"
)

// AcceptDealCommandHandler arbitrates the claim race.
// The repository's conditional update guarantees that of N concurrent
// claims on the same deal exactly one succeeds; every loser gets Conflict
// with no side effects.
type AcceptDealCommandHandler struct {
	uowFactory DealUoWFactory
	publisher  ports.EventPublisher
}

// NewAcceptDealCommandHandler creates a handler for deal claims.
func NewAcceptDealCommandHandler(uowFactory DealUoWFactory, publisher ports.EventPublisher) AcceptDealCommandHandler {
	return AcceptDealCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes a claim.
// On success publishes DealAccepted for the winner and DealTaken so every
// other transporter drops the deal from its open pool.
func (h AcceptDealCommandHandler) Handle(ctx context.Context, cmd AcceptDealCommand) error {
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

	claimed, err := uow.DealRepository().Claim(ctx, cmd.DealID(), cmd.TransporterID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	now := time.Now()
	h.publisher.Publish(ctx, events.DealAccepted{
		DealID:        claimed.ID(),
		TransporterID: cmd.TransporterID(),
		OccurredAt:    now,
	})
	h.publisher.Publish(ctx, events.DealTaken{
		DealID:     claimed.ID(),
		OccurredAt: now,
	})

	return nil
}
