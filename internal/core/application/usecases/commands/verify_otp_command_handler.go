package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/ports"
)

// VerifyOtpCommandHandler runs the custody gate.
// A matching pickup code moves the deal to PICKED_UP and the order and
// listing to IN_DELIVERY; a matching delivery code completes the deal,
// cascades order COMPLETED / listing SOLD, releases escrow and triggers
// settlement. A wrong code changes nothing.
type VerifyOtpCommandHandler struct {
	uowFactory DealUoWFactory
	orders     ports.OrderGateway
	listings   ports.ListingGateway
	settler    DeliverySettler
	publisher  ports.EventPublisher
}

// NewVerifyOtpCommandHandler creates a handler for custody verification.
func NewVerifyOtpCommandHandler(
	uowFactory DealUoWFactory,
	orders ports.OrderGateway,
	listings ports.ListingGateway,
	settler DeliverySettler,
	publisher ports.EventPublisher,
) VerifyOtpCommandHandler {
	return VerifyOtpCommandHandler{
		uowFactory: uowFactory,
		orders:     orders,
		listings:   listings,
		settler:    settler,
		publisher:  publisher,
	}
}

// Handle processes a presented custody code.
// The gateway write-backs run before commit so a failed cascade rolls the
// deal back and the code stays presentable; both write-backs are idempotent
// on the owning side. Settlement runs after commit in its own transaction,
// safe to retry through its unique earning key.
func (h VerifyOtpCommandHandler) Handle(ctx context.Context, cmd VerifyOtpCommand) error {
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

	verifiedDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	order, err := h.orders.Get(ctx, verifiedDeal.OrderID())
	if err != nil {
		return err
	}

	previous := verifiedDeal.Status()
	now := time.Now()

	phase, err := verifiedDeal.VerifyOtp(cmd.TransporterID(), cmd.Code(), now)
	if err != nil {
		return err
	}

	switch phase {
	case deal.PickupPhase:
		if err = h.orders.SetStatus(ctx, order.ID, ports.OrderInDelivery); err != nil {
			return err
		}
		if err = h.listings.SetStatus(ctx, order.ListingID, ports.ListingInDelivery); err != nil {
			return err
		}
	case deal.DeliveryPhase:
		if err = h.orders.SetStatus(ctx, order.ID, ports.OrderCompleted); err != nil {
			return err
		}
		if err = h.listings.SetStatus(ctx, order.ListingID, ports.ListingSold); err != nil {
			return err
		}
	}

	if err = dealRepo.Update(ctx, verifiedDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	phaseName := "pickup"
	if phase == deal.DeliveryPhase {
		phaseName = "delivery"
	}
	h.publisher.Publish(ctx, events.OtpVerified{
		DealID:     verifiedDeal.ID(),
		Phase:      phaseName,
		NewStatus:  verifiedDeal.Status().String(),
		OccurredAt: now,
	})
	h.publisher.Publish(ctx, events.StatusChanged{
		DealID:     verifiedDeal.ID(),
		From:       previous.String(),
		To:         verifiedDeal.Status().String(),
		OccurredAt: now,
	})

	if phase == deal.DeliveryPhase {
		settleCmd, err := NewSettleDeliveryCommand(verifiedDeal.ID())
		if err != nil {
			return err
		}
		if err = h.settler.Handle(ctx, settleCmd); err != nil {
			return err
		}
	}

	return nil
}
