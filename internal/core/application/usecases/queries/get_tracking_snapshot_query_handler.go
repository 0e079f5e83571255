package queries

import (
	"context"
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingSnapshotQueryHandler builds the per-role tracking view of a
// deal. The ordering parties (farmer and buyer) get the custody codes; the
// assigned transporter gets everything else; anyone else is rejected.
type GetTrackingSnapshotQueryHandler struct {
	db     *gorm.DB
	orders ports.OrderGateway
}

// NewGetTrackingSnapshotQueryHandler creates a handler for snapshot queries.
func NewGetTrackingSnapshotQueryHandler(
	db *gorm.DB,
	orders ports.OrderGateway,
) GetTrackingSnapshotQueryHandler {
	return GetTrackingSnapshotQueryHandler{db: db, orders: orders}
}

// Handle executes the snapshot query.
func (h GetTrackingSnapshotQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingSnapshotQuery,
) (*GetTrackingSnapshotQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			status,
			payment_status,
			transporter_id,
			pickup_address,
			drop_address,
			pickup_otp,
			delivery_otp,
			location_sharing_enabled,
			last_lat,
			last_lng,
			last_location_at,
			pickup_at,
			delivery_at
		FROM deals
		WHERE id = ?
	`, query.DealID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("deal", query.DealID().String())
	}

	var (
		orderID                uuid.UUID
		status                 string
		paymentStatus          string
		transporterID          uuid.NullUUID
		pickupAddress          string
		dropAddress            string
		pickupOtp              string
		deliveryOtp            string
		locationSharingEnabled bool
		lastLat, lastLng       sql.NullFloat64
		lastLocationAt         sql.NullTime
		pickupAt, deliveryAt   sql.NullTime
	)

	err = rows.Scan(
		&orderID,
		&status,
		&paymentStatus,
		&transporterID,
		&pickupAddress,
		&dropAddress,
		&pickupOtp,
		&deliveryOtp,
		&locationSharingEnabled,
		&lastLat,
		&lastLng,
		&lastLocationAt,
		&pickupAt,
		&deliveryAt,
	)
	if err != nil {
		return nil, err
	}

	dealOrderID, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return nil, err
	}

	var assigned *kernel.UUID
	if transporterID.Valid {
		id, idErr := kernel.UUIDFromBytes(transporterID.UUID[:])
		if idErr != nil {
			return nil, idErr
		}
		assigned = &id
	}

	role, err := h.resolveRole(ctx, query.ActorID(), dealOrderID, assigned)
	if err != nil {
		return nil, err
	}

	resp := &GetTrackingSnapshotQueryResponse{
		DealID:                 query.DealID(),
		OrderID:                dealOrderID,
		Role:                   role,
		Status:                 status,
		PaymentStatus:          paymentStatus,
		TransporterID:          assigned,
		PickupAddress:          pickupAddress,
		DropAddress:            dropAddress,
		LocationSharingEnabled: locationSharingEnabled,
		LastKnown:              trackPointView(lastLat, lastLng, lastLocationAt),
		PickupAt:               nullableTime(pickupAt),
		DeliveryAt:             nullableTime(deliveryAt),
	}

	if role == RoleParty {
		resp.Codes = &CustodyCodesView{
			PickupOtp:   pickupOtp,
			DeliveryOtp: deliveryOtp,
		}
	}

	return resp, nil
}

// resolveRole maps the actor onto the deal. The farmer and the buyer of the
// underlying order both count as ordering parties.
func (h GetTrackingSnapshotQueryHandler) resolveRole(
	ctx context.Context,
	actorID, orderID kernel.UUID,
	assigned *kernel.UUID,
) (string, error) {
	if assigned != nil && assigned.IsEqual(actorID) {
		return RoleTransporter, nil
	}

	order, err := h.orders.Get(ctx, orderID)
	if err != nil {
		return "", err
	}

	if actorID.IsEqual(order.FarmerID) || actorID.IsEqual(order.BuyerID) {
		return RoleParty, nil
	}

	return "", errs.NewNotAuthorizedError(actorID.String(), "view deal tracking")
}

func trackPointView(lat, lng sql.NullFloat64, at sql.NullTime) *TrackPointView {
	if !lat.Valid || !lng.Valid || !at.Valid {
		return nil
	}
	return &TrackPointView{
		Latitude:  lat.Float64,
		Longitude: lng.Float64,
		At:        at.Time,
	}
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
