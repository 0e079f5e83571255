package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/ports"
)

// UpdateStatusCommandHandler applies a manual status report.
// Transitions outside the lifecycle table are rejected with InvalidState,
// and PICKED_UP cannot be reached here at all since that phase only
// advances through the custody gate. Reporting DELIVERED or COMPLETED
// cascades the order and listing closed and triggers settlement; both
// write-backs and the settlement are idempotent, so closing out an already
// DELIVERED deal is safe.
type UpdateStatusCommandHandler struct {
	uowFactory DealUoWFactory
	orders     ports.OrderGateway
	listings   ports.ListingGateway
	settler    DeliverySettler
	publisher  ports.EventPublisher
}

// NewUpdateStatusCommandHandler creates a handler for status reports.
func NewUpdateStatusCommandHandler(
	uowFactory DealUoWFactory,
	orders ports.OrderGateway,
	listings ports.ListingGateway,
	settler DeliverySettler,
	publisher ports.EventPublisher,
) UpdateStatusCommandHandler {
	return UpdateStatusCommandHandler{
		uowFactory: uowFactory,
		orders:     orders,
		listings:   listings,
		settler:    settler,
		publisher:  publisher,
	}
}

// Handle processes a status report and publishes StatusChanged after commit.
func (h UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) error {
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

	reportedDeal, err := dealRepo.Get(ctx, cmd.DealID())
	if err != nil {
		return err
	}

	previous := reportedDeal.Status()
	now := time.Now()

	if err = reportedDeal.UpdateStatus(cmd.TransporterID(), cmd.Next(), now); err != nil {
		return err
	}

	finishing := cmd.Next() == deal.Delivered || cmd.Next() == deal.Completed
	if finishing {
		order, err := h.orders.Get(ctx, reportedDeal.OrderID())
		if err != nil {
			return err
		}
		if err = h.orders.SetStatus(ctx, order.ID, ports.OrderCompleted); err != nil {
			return err
		}
		if err = h.listings.SetStatus(ctx, order.ListingID, ports.ListingSold); err != nil {
			return err
		}
	}

	if err = dealRepo.Update(ctx, reportedDeal); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, events.StatusChanged{
		DealID:     reportedDeal.ID(),
		From:       previous.String(),
		To:         reportedDeal.Status().String(),
		OccurredAt: now,
	})

	if finishing {
		settleCmd, err := NewSettleDeliveryCommand(reportedDeal.ID())
		if err != nil {
			return err
		}
		if err = h.settler.Handle(ctx, settleCmd); err != nil {
			return err
		}
	}

	return nil
}
