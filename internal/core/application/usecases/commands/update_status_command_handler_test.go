package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pickedUpDeal advances an assigned deal through the pickup code.
func pickedUpDeal(t *testing.T, transporterID kernel.UUID) *deal.Deal {
	t.Helper()
	d := newAssignedDeal(t, transporterID)
	_, err := d.VerifyOtp(transporterID, d.PickupOtp().String(), time.Now())
	require.NoError(t, err)
	return d
}

func TestUpdateStatusCommandHandler_Handle_InTransit(t *testing.T) {
	ctx := t.Context()

	transporterID := kernel.NewUUID()
	movingDeal := pickedUpDeal(t, transporterID)

	cmd, err := commands.NewUpdateStatusCommand(movingDeal.ID(), transporterID, "IN_TRANSIT")
	require.NoError(t, err)

	dealRepo := new(MockDealRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DealRepository").Return(dealRepo).Once(),
		dealRepo.On("Get", ctx, movingDeal.ID()).Return(movingDeal, nil).Once(),
		dealRepo.On("Update", ctx, mock.AnythingOfType("*deal.Deal")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDealUoWFactory)
	factory.On("Create").Return(uow).Once()

	orders := new(MockOrderGateway)
	listings := new(MockListingGateway)
	settler := new(MockSettler)
	publisher := &CapturingPublisher{}

	handler := commands.NewUpdateStatusCommandHandler(factory, orders, listings, settler, publisher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, deal.InTransit, movingDeal.Status())
	orders.AssertNotCalled(t, "SetStatus", ctx, mock.Anything, mock.Anything)
	settler.AssertNotCalled(t, "Handle", ctx, mock.Anything)

	require.Equal(t, []string{events.NameStatusChanged}, publisher.Names())
	changed := publisher.Events[0].(events.StatusChanged)
	assert.Equal(t, "PICKED_UP", changed.From)
	assert.Equal(t, "IN_TRANSIT", changed.To)
}

func TestUpdateStatusCommandHandler_Handle_DeliveredCascades(t *testing.T) {
	ctx := t.Context()

	transporterID := kernel.NewUUID()
	movingDeal := pickedUpDeal(t, transporterID)
	order := orderFor(movingDeal)

	cmd, err := commands.NewUpdateStatusCommand(movingDeal.ID(), transporterID, "DELIVERED")
	require.NoError(t, err)

	orders := new(MockOrderGateway)
	listings := new(MockListingGateway)
	dealRepo := new(MockDealRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DealRepository").Return(dealRepo).Once(),
		dealRepo.On("Get", ctx, movingDeal.ID()).Return(movingDeal, nil).Once(),
		orders.On("Get", ctx, movingDeal.OrderID()).Return(order, nil).Once(),
		orders.On("SetStatus", ctx, order.ID, ports.OrderCompleted).Return(nil).Once(),
		listings.On("SetStatus", ctx, order.ListingID, ports.ListingSold).Return(nil).Once(),
		dealRepo.On("Update", ctx, mock.AnythingOfType("*deal.Deal")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDealUoWFactory)
	factory.On("Create").Return(uow).Once()

	settler := new(MockSettler)
	settler.On("Handle", ctx, mock.AnythingOfType("commands.SettleDeliveryCommand")).Return(nil).Once()

	publisher := &CapturingPublisher{}
	handler := commands.NewUpdateStatusCommandHandler(factory, orders, listings, settler, publisher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	orders.AssertExpectations(t)
	listings.AssertExpectations(t)
	settler.AssertExpectations(t)

	assert.Equal(t, deal.Delivered, movingDeal.Status())
	assert.Equal(t, deal.PaymentReleased, movingDeal.PaymentStatus())
	assert.False(t, movingDeal.LocationSharingEnabled())
}

func TestUpdateStatusCommandHandler_Handle_DeliveredClosedOutToCompleted(t *testing.T) {
	ctx := t.Context()

	transporterID := kernel.NewUUID()
	doneDeal := pickedUpDeal(t, transporterID)
	require.NoError(t, doneDeal.UpdateStatus(transporterID, deal.Delivered, time.Now()))
	order := orderFor(doneDeal)

	cmd, err := commands.NewUpdateStatusCommand(doneDeal.ID(), transporterID, "COMPLETED")
	require.NoError(t, err)

	orders := new(MockOrderGateway)
	listings := new(MockListingGateway)
	dealRepo := new(MockDealRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DealRepository").Return(dealRepo).Once(),
		dealRepo.On("Get", ctx, doneDeal.ID()).Return(doneDeal, nil).Once(),
		orders.On("Get", ctx, doneDeal.OrderID()).Return(order, nil).Once(),
		orders.On("SetStatus", ctx, order.ID, ports.OrderCompleted).Return(nil).Once(),
		listings.On("SetStatus", ctx, order.ListingID, ports.ListingSold).Return(nil).Once(),
		dealRepo.On("Update", ctx, mock.AnythingOfType("*deal.Deal")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDealUoWFactory)
	factory.On("Create").Return(uow).Once()

	settler := new(MockSettler)
	settler.On("Handle", ctx, mock.AnythingOfType("commands.SettleDeliveryCommand")).Return(nil).Once()

	publisher := &CapturingPublisher{}
	handler := commands.NewUpdateStatusCommandHandler(factory, orders, listings, settler, publisher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	settler.AssertExpectations(t)

	assert.Equal(t, deal.Completed, doneDeal.Status())
	require.Equal(t, []string{events.NameStatusChanged}, publisher.Names())
	changed := publisher.Events[0].(events.StatusChanged)
	assert.Equal(t, "DELIVERED", changed.From)
	assert.Equal(t, "COMPLETED", changed.To)
}

func TestUpdateStatusCommandHandler_Handle_IllegalTransition(t *testing.T) {
	ctx := t.Context()

	transporterID := kernel.NewUUID()
	assignedDeal := newAssignedDeal(t, transporterID)

	// DELIVERED straight from TRANSPORTER_ASSIGNED skips the whole custody
	// chain.
	cmd, err := commands.NewUpdateStatusCommand(assignedDeal.ID(), transporterID, "DELIVERED")
	require.NoError(t, err)

	dealRepo := new(MockDealRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DealRepository").Return(dealRepo).Once(),
		dealRepo.On("Get", ctx, assignedDeal.ID()).Return(assignedDeal, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDealUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &CapturingPublisher{}
	handler := commands.NewUpdateStatusCommandHandler(
		factory, new(MockOrderGateway), new(MockListingGateway), new(MockSettler), publisher,
	)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, deal.TransporterAssigned, assignedDeal.Status())
	assert.Empty(t, publisher.Events)
}

func TestUpdateStatusCommandHandler_Handle_CustodyStatesRejected(t *testing.T) {
	ctx := t.Context()

	transporterID := kernel.NewUUID()
	assignedDeal := newAssignedDeal(t, transporterID)

	cmd, err := commands.NewUpdateStatusCommand(assignedDeal.ID(), transporterID, "PICKED_UP")
	require.NoError(t, err)

	dealRepo := new(MockDealRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DealRepository").Return(dealRepo).Once(),
		dealRepo.On("Get", ctx, assignedDeal.ID()).Return(assignedDeal, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDealUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateStatusCommandHandler(
		factory, new(MockOrderGateway), new(MockListingGateway), new(MockSettler), &CapturingPublisher{},
	)
	err = handler.Handle(ctx, cmd)

	// PICKED_UP is only reachable through the pickup code.
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, deal.TransporterAssigned, assignedDeal.Status())
}

func TestUpdateStatusCommandHandler_Handle_UnknownStatusName(t *testing.T) {
	_, err := commands.NewUpdateStatusCommand(kernel.NewUUID(), kernel.NewUUID(), "TELEPORTED")
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
