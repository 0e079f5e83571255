package kernel

import (
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when a zero-value Address is used.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress")

// Address is a postal address with optional geographic coordinates.
// Pickup and drop locations of a deal are Addresses; the coordinates, when
// known, feed the geofence check.
type Address struct {
	text  string
	point *GeoPoint
	guard guard.ConstructorGuard
}

// NewAddress creates an address from free text and an optional coordinate
// pair. The text must be non-empty; point may be nil when coordinates are
// unknown.
func NewAddress(text string, point *GeoPoint) (Address, error) {
	if text == "" {
		return Address{}, errs.NewValueIsRequiredError("address text")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Address{}, err
		}
	}

	return Address{
		text:  text,
		point: point,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the Address was built through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Text returns the human-readable address line.
func (a Address) Text() string {
	return a.text
}

// Point returns the coordinates of the address, or nil when unknown.
func (a Address) Point() *GeoPoint {
	return a.point
}

// HasPoint reports whether coordinates are known for this address.
func (a Address) HasPoint() bool {
	return a.point != nil
}
