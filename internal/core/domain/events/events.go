// Package events defines the typed domain events emitted by the dispatch
// core. Every mutating operation publishes one or more of these to the
// internal bus after its transaction commits; transport adapters translate
// them for live clients and the external notification collaborator.
package events

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Event names, used as bus routing keys.
const (
	NameDealCreated        = "deal.created"
	NameDealPaid           = "deal.paid"
	NameDealAccepted       = "deal.accepted"
	NameDealTaken          = "deal.taken"
	NameDealDeclined       = "deal.declined"
	NameProofPhotoUploaded = "deal.proof_photo_uploaded"
	NameOtpVerified        = "deal.otp_verified"
	NameStatusChanged      = "deal.status_changed"
	NameLocationUpdated    = "deal.location_updated"
	NameDeliveryCompleted  = "deal.delivery_completed"
	NameLocationSharingSet = "deal.location_sharing_set"
)

// DealCreated signals a new deal awaiting payment.
type DealCreated struct {
	DealID     kernel.UUID
	OrderID    kernel.UUID
	TotalCost  float64
	OccurredAt time.Time
}

func (DealCreated) EventName() string { return NameDealCreated }

// DealPaid signals escrow is held and the deal is pool-visible.
type DealPaid struct {
	DealID       kernel.UUID
	OrderID      kernel.UUID
	VehicleClass string
	OccurredAt   time.Time
}

func (DealPaid) EventName() string { return NameDealPaid }

// DealAccepted signals the claim winner.
type DealAccepted struct {
	DealID        kernel.UUID
	TransporterID kernel.UUID
	OccurredAt    time.Time
}

func (DealAccepted) EventName() string { return NameDealAccepted }

// DealTaken tells every other transporter to drop the deal from its view.
type DealTaken struct {
	DealID     kernel.UUID
	OccurredAt time.Time
}

func (DealTaken) EventName() string { return NameDealTaken }

// DealDeclined signals a transporter passed on an unassigned deal.
type DealDeclined struct {
	DealID        kernel.UUID
	TransporterID kernel.UUID
	OccurredAt    time.Time
}

func (DealDeclined) EventName() string { return NameDealDeclined }

// ProofPhotoUploaded signals new custody evidence.
type ProofPhotoUploaded struct {
	DealID     kernel.UUID
	PhotoID    kernel.UUID
	OccurredAt time.Time
}

func (ProofPhotoUploaded) EventName() string { return NameProofPhotoUploaded }

// OtpVerified signals a custody code was consumed.
type OtpVerified struct {
	DealID     kernel.UUID
	Phase      string // "pickup" or "delivery"
	NewStatus  string
	OccurredAt time.Time
}

func (OtpVerified) EventName() string { return NameOtpVerified }

// StatusChanged signals any lifecycle transition.
type StatusChanged struct {
	DealID     kernel.UUID
	From       string
	To         string
	OccurredAt time.Time
}

func (StatusChanged) EventName() string { return NameStatusChanged }

// LocationUpdated carries a live position sample for fan-out. Only published
// while the deal's sharing window is open; the persisted last-known position
// is authoritative for polling clients.
type LocationUpdated struct {
	DealID     kernel.UUID
	Latitude   float64
	Longitude  float64
	OccurredAt time.Time
}

func (LocationUpdated) EventName() string { return NameLocationUpdated }

// LocationSharingSet signals a manual sharing toggle inside the active
// window.
type LocationSharingSet struct {
	DealID     kernel.UUID
	Enabled    bool
	OccurredAt time.Time
}

func (LocationSharingSet) EventName() string { return NameLocationSharingSet }

// DeliveryCompleted signals terminal success and settlement.
type DeliveryCompleted struct {
	DealID        kernel.UUID
	OrderID       kernel.UUID
	TransporterID kernel.UUID
	Earning       float64
	OccurredAt    time.Time
}

func (DeliveryCompleted) EventName() string { return NameDeliveryCompleted }
