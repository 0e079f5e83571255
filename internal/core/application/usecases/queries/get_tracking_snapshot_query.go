package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetTrackingSnapshotQueryIsNotConstructed = errors.New(
	"GetTrackingSnapshotQuery must be created via NewGetTrackingSnapshotQuery constructor",
)

// GetTrackingSnapshotQuery retrieves the tracking view of one deal for one
// actor. The handler projects a different response shape per role, so
// redaction is structural rather than field deletion on a shared record.
type GetTrackingSnapshotQuery struct { //nolint:recvcheck //using for validation
	dealID  kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetTrackingSnapshotQuery creates a snapshot query.
func NewGetTrackingSnapshotQuery(dealID, actorID kernel.UUID) (GetTrackingSnapshotQuery, error) {
	q := GetTrackingSnapshotQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setDealID(dealID),
		q.setActorID(actorID),
	); err != nil {
		return GetTrackingSnapshotQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingSnapshotQueryIsNotConstructed)
}

// DealID returns the tracked deal.
func (q GetTrackingSnapshotQuery) DealID() kernel.UUID { return q.dealID }

// ActorID returns the requesting party.
func (q GetTrackingSnapshotQuery) ActorID() kernel.UUID { return q.actorID }

func (q *GetTrackingSnapshotQuery) setDealID(dealID kernel.UUID) error {
	if err := dealID.Validate(); err != nil {
		return err
	}

	q.dealID = dealID
	return nil
}

func (q *GetTrackingSnapshotQuery) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	q.actorID = actorID
	return nil
}

// Viewer roles for the tracking snapshot.
const (
	RoleParty       = "party"
	RoleTransporter = "transporter"
)

// TrackPointView is the last persisted position.
type TrackPointView struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

// CustodyCodesView carries the OTP codes. Only the ordering parties receive
// it; the transporter collects the codes in person.
type CustodyCodesView struct {
	PickupOtp   string
	DeliveryOtp string
}

// GetTrackingSnapshotQueryResponse is the per-role tracking projection.
type GetTrackingSnapshotQueryResponse struct {
	DealID                 kernel.UUID
	OrderID                kernel.UUID
	Role                   string
	Status                 string
	PaymentStatus          string
	TransporterID          *kernel.UUID
	PickupAddress          string
	DropAddress            string
	LocationSharingEnabled bool
	LastKnown              *TrackPointView
	PickupAt               *time.Time
	DeliveryAt             *time.Time
	Codes                  *CustodyCodesView
}
