package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/bus"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Shared mocks for every command handler test in this package.

type MockDealRepository struct{ mock.Mock }

func (m *MockDealRepository) Add(ctx context.Context, d *deal.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealRepository) Update(ctx context.Context, d *deal.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealRepository) Get(ctx context.Context, id kernel.UUID) (*deal.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deal.Deal), args.Error(1)
}

func (m *MockDealRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*deal.Deal, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deal.Deal), args.Error(1)
}

func (m *MockDealRepository) GetOpenDeals(ctx context.Context) ([]*deal.Deal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deal.Deal), args.Error(1)
}

func (m *MockDealRepository) Claim(
	ctx context.Context,
	id kernel.UUID,
	transporterID kernel.UUID,
) (*deal.Deal, error) {
	args := m.Called(ctx, id, transporterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deal.Deal), args.Error(1)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) Get(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID kernel.UUID, amount float64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID kernel.UUID, amount float64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) AddTransaction(ctx context.Context, tx *wallet.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type MockEarningRepository struct{ mock.Mock }

func (m *MockEarningRepository) Add(ctx context.Context, e *wallet.Earning) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) DealRepository() ports.DealRepository {
	args := m.Called()
	return args.Get(0).(ports.DealRepository)
}

func (m *MockUoW) WalletRepository() ports.WalletRepository {
	args := m.Called()
	return args.Get(0).(ports.WalletRepository)
}

func (m *MockUoW) EarningRepository() ports.EarningRepository {
	args := m.Called()
	return args.Get(0).(ports.EarningRepository)
}

type MockDealUoWFactory struct{ mock.Mock }

func (m *MockDealUoWFactory) Create() commands.DealUoW {
	args := m.Called()
	return args.Get(0).(commands.DealUoW)
}

type MockEscrowUoWFactory struct{ mock.Mock }

func (m *MockEscrowUoWFactory) Create() commands.EscrowUoW {
	args := m.Called()
	return args.Get(0).(commands.EscrowUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderGateway struct{ mock.Mock }

func (m *MockOrderGateway) Get(ctx context.Context, orderID kernel.UUID) (ports.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(ports.Order), args.Error(1)
}

func (m *MockOrderGateway) SetStatus(ctx context.Context, orderID kernel.UUID, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockProfileGateway struct{ mock.Mock }

func (m *MockProfileGateway) GetDefaultAddress(
	ctx context.Context,
	userID kernel.UUID,
) (*ports.RegisteredAddress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RegisteredAddress), args.Error(1)
}

type MockListingGateway struct{ mock.Mock }

func (m *MockListingGateway) SetStatus(ctx context.Context, listingID kernel.UUID, status string) error {
	args := m.Called(ctx, listingID, status)
	return args.Error(0)
}

type MockSettler struct{ mock.Mock }

func (m *MockSettler) Handle(ctx context.Context, cmd commands.SettleDeliveryCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// CapturingPublisher records published events in order.
type CapturingPublisher struct {
	Events []bus.Event
}

func (p *CapturingPublisher) Publish(_ context.Context, event bus.Event) {
	p.Events = append(p.Events, event)
}

func (p *CapturingPublisher) Names() []string {
	names := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		names = append(names, e.EventName())
	}
	return names
}

// Fixtures shared across handler tests.

func testAddress(t *testing.T, text string) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress(text, nil)
	require.NoError(t, err)
	return a
}

func newPendingDeal(t *testing.T) *deal.Deal {
	t.Helper()
	d, err := deal.NewDeal(
		kernel.NewUUID(), kernel.NewUUID(),
		testAddress(t, "mandi gate 4"), testAddress(t, "warehouse 12"),
		vehicle.FourWheelerTruck, 50, 10, nil, time.Now(),
	)
	require.NoError(t, err)
	return d
}

func newWaitingDeal(t *testing.T) *deal.Deal {
	t.Helper()
	d := newPendingDeal(t)
	require.NoError(t, d.MarkPaid())
	return d
}

func newAssignedDeal(t *testing.T, transporterID kernel.UUID) *deal.Deal {
	t.Helper()
	d := newWaitingDeal(t)
	require.NoError(t, d.Assign(transporterID, time.Now()))
	return d
}
