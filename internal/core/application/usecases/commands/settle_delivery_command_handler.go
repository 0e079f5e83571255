package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DeliverySettler triggers settlement for a completed delivery. Implemented
// by SettleDeliveryCommandHandler; the custody and status handlers depend on
// this interface so settlement stays independently retryable and mockable.
type DeliverySettler interface {
	Handle(ctx context.Context, cmd SettleDeliveryCommand) error
}

// SettleDeliveryCommandHandler settles a completed delivery: upserts the
// transporter's earning and releases the escrowed funds to the farmer.
// The earning insert, keyed uniquely on the delivery, doubles as the
// idempotency guard for the credit: a retry that finds the earning already
// present does nothing.
type SettleDeliveryCommandHandler struct {
	uowFactory UoWFactory
	orders     ports.OrderGateway
	publisher  ports.EventPublisher
}

// NewSettleDeliveryCommandHandler creates a handler for settlement.
func NewSettleDeliveryCommandHandler(
	uowFactory UoWFactory,
	orders ports.OrderGateway,
	publisher ports.EventPublisher,
) SettleDeliveryCommandHandler {
	return SettleDeliveryCommandHandler{
		uowFactory: uowFactory,
		orders:     orders,
		publisher:  publisher,
	}
}

// Handle processes settlement.
// The deal must have finished its delivery. The earning amount is
// distance times rate; the farmer receives the full escrowed total.
// Publishes DeliveryCompleted only on the first, effective settlement.
func (h SettleDeliveryCommandHandler) Handle(ctx context.Context, cmd SettleDeliveryCommand) error {
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

	settledDeal, err := uow.DealRepository().Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}
	if settledDeal.Status() != deal.Delivered && settledDeal.Status() != deal.Completed {
		return errs.NewInvalidStateError("settle delivery", settledDeal.Status().String())
	}
	transporterID := settledDeal.Transporter()
	if transporterID == nil {
		return errs.NewInvalidStateError("settle delivery without transporter", settledDeal.Status().String())
	}

	order, err := h.orders.Get(ctx, settledDeal.OrderID())
	if err != nil {
		return err
	}

	now := time.Now()
	earning, err := wallet.NewEarning(
		settledDeal.ID(),
		settledDeal.OrderID(),
		*transporterID,
		settledDeal.DistanceKm(),
		settledDeal.PricePerKm(),
		now,
	)
	if err != nil {
		return err
	}

	inserted, err := uow.EarningRepository().Add(ctx, earning)
	if err != nil {
		return err
	}
	if !inserted {
		// Already settled by an earlier trigger.
		return nil
	}

	walletRepo := uow.WalletRepository()
	if err = walletRepo.Credit(ctx, order.FarmerID, settledDeal.TotalCost()); err != nil {
		return err
	}

	orderID := settledDeal.OrderID()
	entry, err := wallet.NewTransaction(
		order.FarmerID,
		settledDeal.TotalCost(),
		wallet.Credit,
		"escrow release for delivery "+settledDeal.ID().String(),
		&orderID,
		now,
	)
	if err != nil {
		return err
	}

	if err = walletRepo.AddTransaction(ctx, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.DeliveryCompleted{
		DealID:        settledDeal.ID(),
		OrderID:       settledDeal.OrderID(),
		TransporterID: *transporterID,
		Earning:       earning.Amount(),
		OccurredAt:    now,
	})

	return nil
}
