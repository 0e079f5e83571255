package dealrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/dealrepo"
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// DealRepositoryIntegrationTestSuite provides integration tests for
// DealRepository using PostgreSQL containers, including the conditional
// claim that the accept operation depends on.
type DealRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *dealrepo.GormDealRepository
	tracker    *MockAggregateTracker
}

func (suite *DealRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// TranslateError maps the driver's unique violation to
	// gorm.ErrDuplicatedKey, which Add relies on for the one-deal-per-order
	// conflict.
	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&dealrepo.DealDTO{}))
}

func (suite *DealRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE deals").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = dealrepo.NewGormDealRepository(suite.db, suite.tracker)
}

func (suite *DealRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DealRepositoryIntegrationTestSuite) TestAdd_Get_RoundTrip() {
	ctx := context.Background()

	transporterID := kernel.NewUUID()
	declinerID := kernel.NewUUID()
	original := suite.createWaitingDeal()
	suite.Require().NoError(original.Decline(declinerID))
	suite.Require().NoError(original.Assign(transporterID, time.Now()))

	photo, err := deal.NewProofPhoto("image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(original.AddProofPhoto(transporterID, photo))

	point, err := kernel.NewGeoPoint(26.9124, 75.7873)
	suite.Require().NoError(err)
	_, err = original.RecordLocation(transporterID, point, time.Now())
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	restored, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(original.ID()))
	suite.True(restored.OrderID().IsEqual(original.OrderID()))
	suite.Equal(original.PickupLocation().Text(), restored.PickupLocation().Text())
	suite.Equal(original.PickupOtp().String(), restored.PickupOtp().String())
	suite.Equal(original.DeliveryOtp().String(), restored.DeliveryOtp().String())
	suite.Equal(deal.TransporterAssigned, restored.Status())
	suite.Equal(deal.PaymentHeld, restored.PaymentStatus())
	suite.Require().NotNil(restored.Transporter())
	suite.True(restored.Transporter().IsEqual(transporterID))
	suite.True(restored.HasDeclined(declinerID))
	suite.Require().Len(restored.ProofPhotos(), 1)
	suite.Equal(photo.Data(), restored.ProofPhotos()[0].Data())
	suite.Require().NotNil(restored.TransporterLocation())
	suite.InDelta(26.9124, restored.TransporterLocation().Point.Latitude(), 0.0001)
	suite.True(restored.LocationSharingEnabled())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DealRepositoryIntegrationTestSuite) TestAdd_SecondDealForOrder_ReturnsConflict() {
	ctx := context.Background()

	first := suite.createWaitingDeal()
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	duplicate, err := deal.NewDeal(
		kernel.NewUUID(), first.OrderID(),
		suite.address("mandi gate 4"), suite.address("warehouse 12"),
		vehicle.FourWheelerTruck, 50, 10, nil, time.Now(),
	)
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, duplicate)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DealRepositoryIntegrationTestSuite) TestGet_NonExistentDeal_ReturnsNotFoundError() {
	ctx := context.Background()

	restored, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(restored)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DealRepositoryIntegrationTestSuite) TestGetByOrderID_ReturnsDeal() {
	ctx := context.Background()

	original := suite.createWaitingDeal()
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	restored, err := suite.repository.GetByOrderID(ctx, original.OrderID())
	suite.Require().NoError(err)
	suite.True(restored.ID().IsEqual(original.ID()))

	_, err = suite.repository.GetByOrderID(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DealRepositoryIntegrationTestSuite) TestGetOpenDeals_FiltersClaimable() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	pending := suite.createPendingDeal()
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	open := suite.createWaitingDeal()
	suite.Require().NoError(suite.repository.Add(ctx, open))

	assigned := suite.createWaitingDeal()
	suite.Require().NoError(assigned.Assign(kernel.NewUUID(), time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, assigned))

	deals, err := suite.repository.GetOpenDeals(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(deals, 1)
	suite.True(deals[0].ID().IsEqual(open.ID()))
}

func (suite *DealRepositoryIntegrationTestSuite) TestClaim_AssignsAndEnablesSharing() {
	ctx := context.Background()

	open := suite.createWaitingDeal()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, open))

	transporterID := kernel.NewUUID()
	claimed, err := suite.repository.Claim(ctx, open.ID(), transporterID)
	suite.Require().NoError(err)

	suite.Equal(deal.TransporterAssigned, claimed.Status())
	suite.Require().NotNil(claimed.Transporter())
	suite.True(claimed.Transporter().IsEqual(transporterID))
	suite.True(claimed.LocationSharingEnabled())
	suite.NotNil(claimed.LocationSharingStarted())
}

func (suite *DealRepositoryIntegrationTestSuite) TestClaim_NonExistentDeal_ReturnsNotFoundError() {
	ctx := context.Background()

	_, err := suite.repository.Claim(ctx, kernel.NewUUID(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DealRepositoryIntegrationTestSuite) TestClaim_AlreadyAssigned_ReturnsConflict() {
	ctx := context.Background()

	open := suite.createWaitingDeal()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, open))

	_, err := suite.repository.Claim(ctx, open.ID(), kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.repository.Claim(ctx, open.ID(), kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

// TestClaim_ConcurrentTransporters_SingleWinner races many transporters for
// the same deal. The database must let exactly one through; everyone else
// gets Conflict and the persisted transporter must be the winner's.
func (suite *DealRepositoryIntegrationTestSuite) TestClaim_ConcurrentTransporters_SingleWinner() {
	ctx := context.Background()

	open := suite.createWaitingDeal()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, open))

	const racers = 10
	transporterIDs := make([]kernel.UUID, racers)
	for i := range transporterIDs {
		transporterIDs[i] = kernel.NewUUID()
	}

	var wg sync.WaitGroup
	winners := make(chan kernel.UUID, racers)
	conflicts := make(chan error, racers)

	for i := range racers {
		wg.Add(1)
		go func(transporterID kernel.UUID) {
			defer wg.Done()
			claimed, err := suite.repository.Claim(ctx, open.ID(), transporterID)
			if err != nil {
				conflicts <- err
				return
			}
			winners <- *claimed.Transporter()
		}(transporterIDs[i])
	}

	wg.Wait()
	close(winners)
	close(conflicts)

	suite.Len(winners, 1)
	suite.Len(conflicts, racers-1)
	for err := range conflicts {
		suite.Require().ErrorIs(err, errs.ErrConflict)
	}

	winnerID := <-winners
	persisted, err := suite.repository.Get(ctx, open.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(persisted.Transporter())
	suite.True(persisted.Transporter().IsEqual(winnerID))
	suite.Equal(deal.TransporterAssigned, persisted.Status())
}

func (suite *DealRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusAndPhotos() {
	ctx := context.Background()

	transporterID := kernel.NewUUID()
	original := suite.createWaitingDeal()
	suite.Require().NoError(original.Assign(transporterID, time.Now()))

	suite.tracker.On("TrackAggregate", original.ID(), original)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	_, err := original.VerifyOtp(transporterID, original.PickupOtp().String(), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, original))

	restored, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(deal.PickedUp, restored.Status())
	suite.NotNil(restored.PickupAt())
}

func (suite *DealRepositoryIntegrationTestSuite) TestUpdate_NonExistentDeal_ReturnsNotFoundError() {
	ctx := context.Background()

	err := suite.repository.Update(ctx, suite.createWaitingDeal())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUpdate_StaleSnapshotAfterClaim_ReturnsConflict loads a waiting deal,
// lets a transporter claim it, then writes back a decline recorded on the
// pre-claim snapshot. The stale write must fail with Conflict and the
// persisted row must keep the claim winner assigned.
func (suite *DealRepositoryIntegrationTestSuite) TestUpdate_StaleSnapshotAfterClaim_ReturnsConflict() {
	ctx := context.Background()

	open := suite.createWaitingDeal()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, open))

	stale, err := suite.repository.Get(ctx, open.ID())
	suite.Require().NoError(err)

	winnerID := kernel.NewUUID()
	_, err = suite.repository.Claim(ctx, open.ID(), winnerID)
	suite.Require().NoError(err)

	suite.Require().NoError(stale.Decline(kernel.NewUUID()))
	err = suite.repository.Update(ctx, stale)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	persisted, err := suite.repository.Get(ctx, open.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(persisted.Transporter())
	suite.True(persisted.Transporter().IsEqual(winnerID))
	suite.Equal(deal.TransporterAssigned, persisted.Status())
}

// TestUpdate_StaleLocationPush_DoesNotRevertPickup reloads after pickup and
// rejects a location sample written against the pre-pickup revision, so the
// consumed custody phase cannot be re-armed by a late write.
func (suite *DealRepositoryIntegrationTestSuite) TestUpdate_StaleLocationPush_DoesNotRevertPickup() {
	ctx := context.Background()

	transporterID := kernel.NewUUID()
	original := suite.createWaitingDeal()
	suite.Require().NoError(original.Assign(transporterID, time.Now()))
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	stale, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	pickedUp, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	_, err = pickedUp.VerifyOtp(transporterID, pickedUp.PickupOtp().String(), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, pickedUp))

	point, err := kernel.NewGeoPoint(26.9124, 75.7873)
	suite.Require().NoError(err)
	_, err = stale.RecordLocation(transporterID, point, time.Now())
	suite.Require().NoError(err)

	err = suite.repository.Update(ctx, stale)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	persisted, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(deal.PickedUp, persisted.Status())
}

func (suite *DealRepositoryIntegrationTestSuite) address(text string) kernel.Address {
	a, err := kernel.NewAddress(text, nil)
	suite.Require().NoError(err)
	return a
}

func (suite *DealRepositoryIntegrationTestSuite) createPendingDeal() *deal.Deal {
	d, err := deal.NewDeal(
		kernel.NewUUID(), kernel.NewUUID(),
		suite.address("mandi gate 4"), suite.address("warehouse 12"),
		vehicle.FourWheelerTruck, 50, 10, nil, time.Now(),
	)
	suite.Require().NoError(err)
	return d
}

func (suite *DealRepositoryIntegrationTestSuite) createWaitingDeal() *deal.Deal {
	d := suite.createPendingDeal()
	suite.Require().NoError(d.MarkPaid())
	return d
}

func TestDealRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DealRepositoryIntegrationTestSuite))
}
