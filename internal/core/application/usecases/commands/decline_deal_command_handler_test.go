package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeclineDealCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	transporterID := kernel.NewUUID()
	openDeal := newWaitingDeal(t)

	cmd, err := commands.NewDeclineDealCommand(openDeal.ID(), transporterID)
	require.NoError(t, err)

	dealRepo := new(MockDealRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DealRepository").Return(dealRepo).Once(),
		dealRepo.On("Get", ctx, openDeal.ID()).Return(openDeal, nil).Once(),
		dealRepo.On("Update", ctx, mock.AnythingOfType("*deal.Deal")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDealUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &CapturingPublisher{}
	handler := commands.NewDeclineDealCommandHandler(factory, publisher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	dealRepo.AssertExpectations(t)
	uow.AssertExpectations(t)

	assert.True(t, openDeal.HasDeclined(transporterID))
	require.Equal(t, []string{events.NameDealDeclined}, publisher.Names())
}

func TestDeclineDealCommandHandler_Handle_AlreadyAssigned(t *testing.T) {
	ctx := t.Context()

	winnerID := kernel.NewUUID()
	lateID := kernel.NewUUID()
	takenDeal := newAssignedDeal(t, winnerID)

	cmd, err := commands.NewDeclineDealCommand(takenDeal.ID(), lateID)
	require.NoError(t, err)

	dealRepo := new(MockDealRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DealRepository").Return(dealRepo).Once(),
		dealRepo.On("Get", ctx, takenDeal.ID()).Return(takenDeal, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDealUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &CapturingPublisher{}
	handler := commands.NewDeclineDealCommandHandler(factory, publisher)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	dealRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	assert.Empty(t, publisher.Events)
}
