package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableDealsQueryHandler retrieves claimable deals for a transporter.
// Escrow, assignment, vehicle class and the decline set are filtered in SQL;
// the service-range geofence runs in the domain matcher because it needs the
// transporter's live position and the skip-if-unknown semantics.
type GetAvailableDealsQueryHandler struct {
	db           *gorm.DB
	transporters ports.TransporterGateway
	matcher      services.DealMatcher
}

// NewGetAvailableDealsQueryHandler creates a handler for pool queries.
func NewGetAvailableDealsQueryHandler(
	db *gorm.DB,
	transporters ports.TransporterGateway,
) GetAvailableDealsQueryHandler {
	return GetAvailableDealsQueryHandler{
		db:           db,
		transporters: transporters,
		matcher:      services.NewDealMatcher(),
	}
}

// Handle executes the pool query. Results are oldest-first so long-waiting
// deals surface at the top.
func (h GetAvailableDealsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDealsQuery,
) ([]GetAvailableDealsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	profile, err := h.transporters.Get(ctx, query.TransporterID())
	if err != nil {
		return nil, err
	}

	declinedKey, err := json.Marshal([]string{query.TransporterID().String()})
	if err != nil {
		return nil, err
	}

	deals := make([]GetAvailableDealsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			pickup_address,
			pickup_lat,
			pickup_lng,
			drop_address,
			distance_km,
			price_per_km,
			total_cost,
			vehicle_class,
			created_at
		FROM deals
		WHERE status = ?
		  AND payment_status = ?
		  AND transporter_id IS NULL
		  AND vehicle_class = ?
		  AND NOT (declined_by @> ?)
		ORDER BY created_at
	`,
		deal.WaitingForTransporter.String(),
		deal.PaymentHeld.String(),
		string(profile.VehicleClass()),
		string(declinedKey),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAvailableDealsQueryResponse
		var id, orderID uuid.UUID
		var pickupLat, pickupLng sql.NullFloat64

		err = rows.Scan(
			&id,
			&orderID,
			&resp.PickupAddress,
			&pickupLat,
			&pickupLng,
			&resp.DropAddress,
			&resp.DistanceKm,
			&resp.PricePerKm,
			&resp.TotalCost,
			&resp.VehicleClass,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		dealID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = dealID

		dealOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.OrderID = dealOrderID

		var pickupPoint *kernel.GeoPoint
		if pickupLat.Valid && pickupLng.Valid {
			point, pointErr := kernel.NewGeoPoint(pickupLat.Float64, pickupLng.Float64)
			if pointErr != nil {
				return nil, pointErr
			}
			pickupPoint = &point
			resp.PickupLat = &pickupLat.Float64
			resp.PickupLng = &pickupLng.Float64
		}

		pickup, addrErr := kernel.NewAddress(resp.PickupAddress, pickupPoint)
		if addrErr != nil {
			return nil, addrErr
		}

		if !h.matcher.InServiceRange(profile, query.Live(), pickup) {
			continue
		}

		deals = append(deals, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deals, nil
}

// GetAvailableDealsQueryResponse is one pool entry. OTP codes are never part
// of the pool view.
type GetAvailableDealsQueryResponse struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	PickupAddress string
	PickupLat     *float64
	PickupLng     *float64
	DropAddress   string
	DistanceKm    float64
	PricePerKm    float64
	TotalCost     float64
	VehicleClass  string
	CreatedAt     time.Time
}
