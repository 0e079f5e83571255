package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/transporter"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoPoint(t *testing.T, lat, lng float64) *kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return &p
}

func addressAt(t *testing.T, text string, point *kernel.GeoPoint) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress(text, point)
	require.NoError(t, err)
	return a
}

func heldDeal(t *testing.T, class vehicle.Class, pickup kernel.Address) *deal.Deal {
	t.Helper()
	drop := addressAt(t, "drop", nil)
	d, err := deal.NewDeal(kernel.NewUUID(), kernel.NewUUID(), pickup, drop, class, 30, 12, nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, d.MarkPaid())
	return d
}

func profileWith(t *testing.T, vehicleType string, rangeKm float64, last *kernel.GeoPoint) *transporter.Profile {
	t.Helper()
	p, err := transporter.NewProfile(kernel.NewUUID(), vehicleType, rangeKm, last)
	require.NoError(t, err)
	return p
}

func TestDealMatcher_InServiceRange(t *testing.T) {
	matcher := services.NewDealMatcher()
	// Two points roughly 22 km apart (0.2 degrees of latitude).
	driverAt := geoPoint(t, 28.0, 77.0)
	pickupFar := addressAt(t, "far pickup", geoPoint(t, 28.2, 77.0))
	pickupNear := addressAt(t, "near pickup", geoPoint(t, 28.05, 77.0))

	t.Run("within range", func(t *testing.T) {
		p := profileWith(t, "truck", 20, nil)
		assert.True(t, matcher.InServiceRange(p, driverAt, pickupNear))
	})

	t.Run("outside range excluded", func(t *testing.T) {
		p := profileWith(t, "truck", 20, nil)
		assert.False(t, matcher.InServiceRange(p, driverAt, pickupFar))
	})

	t.Run("zero range is unlimited", func(t *testing.T) {
		p := profileWith(t, "truck", 0, nil)
		assert.True(t, matcher.InServiceRange(p, driverAt, pickupFar))
	})

	t.Run("live GPS preferred over profile location", func(t *testing.T) {
		// Profile says the driver is far away, live GPS says nearby.
		p := profileWith(t, "truck", 20, geoPoint(t, 10.0, 70.0))
		assert.True(t, matcher.InServiceRange(p, driverAt, pickupNear))
		// Without live GPS the stored far-away position applies.
		assert.False(t, matcher.InServiceRange(p, nil, pickupNear))
	})

	t.Run("unknown coordinates skip the check", func(t *testing.T) {
		p := profileWith(t, "truck", 20, nil)
		noCoords := addressAt(t, "village market", nil)
		assert.True(t, matcher.InServiceRange(p, nil, pickupNear))
		assert.True(t, matcher.InServiceRange(p, driverAt, noCoords))
	})
}

func TestDealMatcher_Eligible(t *testing.T) {
	matcher := services.NewDealMatcher()
	pickup := addressAt(t, "pickup", geoPoint(t, 28.0, 77.0))

	t.Run("vehicle class must match", func(t *testing.T) {
		truckDeal := heldDeal(t, vehicle.FourWheelerTruck, pickup)
		bikeProfile := profileWith(t, "bike", 0, nil)
		truckProfile := profileWith(t, "lorry", 0, nil)

		assert.False(t, matcher.Eligible(truckDeal, bikeProfile, nil))
		assert.True(t, matcher.Eligible(truckDeal, truckProfile, nil))
	})

	t.Run("declined transporter never sees the deal again", func(t *testing.T) {
		d := heldDeal(t, vehicle.FourWheelerTruck, pickup)
		p := profileWith(t, "truck", 0, nil)
		require.NoError(t, d.Decline(p.ID()))

		assert.False(t, matcher.Eligible(d, p, nil))
	})

	t.Run("unpaid deal is invisible", func(t *testing.T) {
		drop := addressAt(t, "drop", nil)
		d, err := deal.NewDeal(kernel.NewUUID(), kernel.NewUUID(), pickup, drop,
			vehicle.FourWheelerTruck, 30, 12, nil, time.Now())
		require.NoError(t, err)

		p := profileWith(t, "truck", 0, nil)
		assert.False(t, matcher.Eligible(d, p, nil))
	})

	t.Run("claimed deal leaves the pool", func(t *testing.T) {
		d := heldDeal(t, vehicle.FourWheelerTruck, pickup)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		p := profileWith(t, "truck", 0, nil)
		assert.False(t, matcher.Eligible(d, p, nil))
	})
}

func TestDealMatcher_FilterPool(t *testing.T) {
	matcher := services.NewDealMatcher()
	pickup := addressAt(t, "pickup", geoPoint(t, 28.0, 77.0))

	truck := heldDeal(t, vehicle.FourWheelerTruck, pickup)
	bike := heldDeal(t, vehicle.BikeDelivery, pickup)
	// 21+ km away from the driver below.
	farPickup := addressAt(t, "far", geoPoint(t, 28.2, 77.0))
	farTruck := heldDeal(t, vehicle.FourWheelerTruck, farPickup)

	p := profileWith(t, "4 wheeler truck", 20, nil)
	live := geoPoint(t, 28.0, 77.0)

	pool := matcher.FilterPool([]*deal.Deal{truck, bike, farTruck}, p, live)

	require.Len(t, pool, 1)
	assert.True(t, pool[0].ID().IsEqual(truck.ID()))
}
