package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// RegisteredAddress is a user's default address as the marketplace profile
// stores it. Coordinates are optional; the text alone is enough to open a
// deal.
type RegisteredAddress struct {
	Text      string
	Latitude  *float64
	Longitude *float64
}

// ProfileGateway exposes the marketplace user profiles deal creation falls
// back to when the caller omits a route endpoint.
type ProfileGateway interface {
	// GetDefaultAddress returns the user's registered address, or nil when
	// the profile has none on file.
	GetDefaultAddress(ctx context.Context, userID kernel.UUID) (*RegisteredAddress, error)
}
