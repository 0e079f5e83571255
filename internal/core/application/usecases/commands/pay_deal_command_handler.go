package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// PayDealCommandHandler places the escrow hold for a deal.
// The wallet debit, the DEBIT ledger entry and the deal's move to
// HELD / WAITING_FOR_TRANSPORTER happen in one transaction: a crash between
// any two steps leaves no trace of the payment.
type PayDealCommandHandler struct {
	uowFactory EscrowUoWFactory
	orders     ports.OrderGateway
	publisher  ports.EventPublisher
}

// NewPayDealCommandHandler creates a handler for escrow holds.
func NewPayDealCommandHandler(
	uowFactory EscrowUoWFactory,
	orders ports.OrderGateway,
	publisher ports.EventPublisher,
) PayDealCommandHandler {
	return PayDealCommandHandler{
		uowFactory: uowFactory,
		orders:     orders,
		publisher:  publisher,
	}
}

// Handle processes the escrow hold.
// The payer must hold the order's delivery responsibility. The conditional
// wallet debit fails with InsufficientFunds when the balance does not cover
// the total cost, rolling back the whole hold. Publishes DealPaid after
// commit, which makes the deal pool-visible.
func (h PayDealCommandHandler) Handle(ctx context.Context, cmd PayDealCommand) error {
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
	walletRepo := uow.WalletRepository()

	paidDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	order, err := h.orders.Get(ctx, paidDeal.OrderID())
	if err != nil {
		return err
	}
	if !order.ResponsibleParty().IsEqual(cmd.PayerID()) {
		return errs.NewNotAuthorizedError(
			"user "+cmd.PayerID().String(),
			"pay deal "+cmd.DealID().String(),
		)
	}

	if err = paidDeal.MarkPaid(); err != nil {
		return err
	}

	if err = walletRepo.Debit(ctx, cmd.PayerID(), paidDeal.TotalCost()); err != nil {
		return err
	}

	orderID := paidDeal.OrderID()
	entry, err := wallet.NewTransaction(
		cmd.PayerID(),
		paidDeal.TotalCost(),
		wallet.Debit,
		"escrow hold for delivery "+paidDeal.ID().String(),
		&orderID,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = walletRepo.AddTransaction(ctx, entry); err != nil {
		return err
	}

	if err = dealRepo.Update(ctx, paidDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.DealPaid{
		DealID:       paidDeal.ID(),
		OrderID:      paidDeal.OrderID(),
		VehicleClass: string(paidDeal.VehicleClass()),
		OccurredAt:   time.Now(),
	})

	return nil
}
