// Package transporter holds the read model of a transporter profile as
// consumed from the profile collaborator. The dispatch core never mutates
// profiles; it reads vehicle type, service range and last known position to
// filter the matching pool.
package transporter

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/pkg/errs"
)

// Profile describes a transporter for matching purposes.
type Profile struct {
	id             kernel.UUID
	vehicleType    string
	serviceRangeKm float64
	lastKnown      *kernel.GeoPoint
}

// NewProfile builds a profile. vehicleType is free-form text exactly as the
// driver registered it; serviceRangeKm of 0 means unlimited; lastKnown may
// be nil when the profile has no stored position.
func NewProfile(id kernel.UUID, vehicleType string, serviceRangeKm float64, lastKnown *kernel.GeoPoint) (*Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if serviceRangeKm < 0 {
		return nil, errs.NewValueIsInvalidError("serviceRange")
	}
	if lastKnown != nil {
		if err := lastKnown.Validate(); err != nil {
			return nil, err
		}
	}

	return &Profile{
		id:             id,
		vehicleType:    vehicleType,
		serviceRangeKm: serviceRangeKm,
		lastKnown:      lastKnown,
	}, nil
}

// ID returns the transporter identifier.
func (p *Profile) ID() kernel.UUID { return p.id }

// VehicleType returns the raw registered vehicle name.
func (p *Profile) VehicleType() string { return p.vehicleType }

// VehicleClass returns the canonical class of the registered vehicle.
func (p *Profile) VehicleClass() vehicle.Class { return vehicle.Normalize(p.vehicleType) }

// ServiceRangeKm returns the maximum pickup distance; 0 means unlimited.
func (p *Profile) ServiceRangeKm() float64 { return p.serviceRangeKm }

// HasUnlimitedRange reports whether the transporter serves any distance.
func (p *Profile) HasUnlimitedRange() bool { return p.serviceRangeKm == 0 }

// LastKnown returns the profile's stored position, or nil.
func (p *Profile) LastKnown() *kernel.GeoPoint { return p.lastKnown }
