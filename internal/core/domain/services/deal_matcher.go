package services

import (
	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/transporter"
)

// DealMatcher decides which open deals a transporter is eligible to see.
// It is pure and stateless: vehicle-class comparison, decline-set exclusion
// and the haversine service-range geofence.
//
// Example:
//
//	matcher := services.NewDealMatcher()
//	pool := matcher.FilterPool(openDeals, profile, liveGPS)
type DealMatcher struct{}

// NewDealMatcher creates a DealMatcher.
func NewDealMatcher() DealMatcher {
	return DealMatcher{}
}

// InServiceRange reports whether the deal pickup lies within the
// transporter's service range. A range of 0 means unlimited. The driver
// position prefers live GPS and falls back to the profile's stored location.
// When either side has no coordinates the check passes: range filtering is
// skip-if-unknown, not deny-if-unknown.
func (m DealMatcher) InServiceRange(profile *transporter.Profile, live *kernel.GeoPoint, pickup kernel.Address) bool {
	if profile.HasUnlimitedRange() {
		return true
	}

	driverAt := live
	if driverAt == nil {
		driverAt = profile.LastKnown()
	}
	if driverAt == nil || !pickup.HasPoint() {
		return true
	}

	distance, err := driverAt.DistanceKm(*pickup.Point())
	if err != nil {
		return true
	}
	return distance <= profile.ServiceRangeKm()
}

// Eligible reports whether a single deal belongs in the transporter's open
// pool: escrow held, still waiting, not previously declined by this
// transporter, matching vehicle class, and inside the service range.
func (m DealMatcher) Eligible(d *deal.Deal, profile *transporter.Profile, live *kernel.GeoPoint) bool {
	if d.Status() != deal.WaitingForTransporter || d.PaymentStatus() != deal.PaymentHeld {
		return false
	}
	if d.Transporter() != nil {
		return false
	}
	if d.HasDeclined(profile.ID()) {
		return false
	}
	if d.VehicleClass() != profile.VehicleClass() {
		return false
	}
	return m.InServiceRange(profile, live, d.PickupLocation())
}

// FilterPool returns the subset of deals the transporter may claim,
// preserving input order.
func (m DealMatcher) FilterPool(deals []*deal.Deal, profile *transporter.Profile, live *kernel.GeoPoint) []*deal.Deal {
	pool := make([]*deal.Deal, 0, len(deals))
	for _, d := range deals {
		if m.Eligible(d, profile, live) {
			pool = append(pool, d)
		}
	}
	return pool
}
