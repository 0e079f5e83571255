package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/transporter"
)

// TransporterGateway exposes transporter profile lookup. Profile management
// itself lives outside this module.
type TransporterGateway interface {
	// Get retrieves a transporter's profile by identifier.
	Get(ctx context.Context, transporterID kernel.UUID) (*transporter.Profile, error)
}
