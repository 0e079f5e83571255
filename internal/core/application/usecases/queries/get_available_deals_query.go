package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetAvailableDealsQueryIsNotConstructed = errors.New(
	"GetAvailableDealsQuery must be created via NewGetAvailableDealsQuery constructor",
)

// GetAvailableDealsQuery retrieves the open deal pool for one transporter.
// The optional live coordinates take precedence over the profile's stored
// position for the service-range check.
type GetAvailableDealsQuery struct { //nolint:recvcheck //using for validation
	transporterID kernel.UUID
	live          *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewGetAvailableDealsQuery creates a pool query. liveLat and liveLng must
// be given together or not at all.
func NewGetAvailableDealsQuery(
	transporterID kernel.UUID,
	liveLat, liveLng *float64,
) (GetAvailableDealsQuery, error) {
	q := GetAvailableDealsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setTransporterID(transporterID),
		q.setLive(liveLat, liveLng),
	); err != nil {
		return GetAvailableDealsQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableDealsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableDealsQueryIsNotConstructed)
}

// TransporterID returns the requesting transporter.
func (q GetAvailableDealsQuery) TransporterID() kernel.UUID { return q.transporterID }

// Live returns the transporter's reported position, or nil.
func (q GetAvailableDealsQuery) Live() *kernel.GeoPoint { return q.live }

func (q *GetAvailableDealsQuery) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	q.transporterID = transporterID
	return nil
}

func (q *GetAvailableDealsQuery) setLive(liveLat, liveLng *float64) error {
	if liveLat == nil && liveLng == nil {
		return nil
	}
	if liveLat == nil || liveLng == nil {
		return errs.NewValueIsRequiredError("live coordinates")
	}

	point, err := kernel.NewGeoPoint(*liveLat, *liveLng)
	if err != nil {
		return err
	}

	q.live = &point
	return nil
}
