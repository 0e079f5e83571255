package queries_test

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/transporter"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type mockAggregateTracker struct{}

func (mockAggregateTracker) TrackAggregate(kernel.UUID, interface{}) {}

type MockTransporterGateway struct {
	mock.Mock
}

func (m *MockTransporterGateway) Get(ctx context.Context, id kernel.UUID) (*transporter.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transporter.Profile), args.Error(1)
}

type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) Get(ctx context.Context, orderID kernel.UUID) (ports.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(ports.Order), args.Error(1)
}

func (m *MockOrderGateway) SetStatus(ctx context.Context, orderID kernel.UUID, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}
