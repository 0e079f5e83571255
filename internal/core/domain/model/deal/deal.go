package deal

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/pkg/errs"
)

// ErrDealIsNotConstructed is returned when a Deal instance was not created
// through NewDeal or RestoreDeal.
var ErrDealIsNotConstructed = errors.New("Deal must be created via NewDeal or RestoreDeal")

// OtpPhase identifies which custody-transfer code a verification consumed.
type OtpPhase int

const (
	// PickupPhase means the pickup code matched and custody moved to the
	// transporter.
	PickupPhase OtpPhase = iota + 1

	// DeliveryPhase means the delivery code matched and the deal completed.
	DeliveryPhase
)

// TrackPoint is the last known transporter position with its capture time.
type TrackPoint struct {
	Point kernel.GeoPoint
	At    time.Time
}

// Deal is the aggregate root tying exactly one order to one transporter
// assignment lifecycle. It owns the custody-transfer codes, the escrow
// payment status, the decline set, proof photos and the location-sharing
// window.
//
// Invariants:
//   - exactly one Deal per order (enforced by a unique constraint in storage)
//   - transporterID transitions nil→value exactly once, via the claim
//   - funds must be HELD before the deal is pool-visible
//   - the pickup code must be consumed before PICKED_UP; COMPLETED is
//     reached by the delivery code or a manual close-out from the late
//     statuses; single code use per phase follows from the status guard
//   - declinedBy only grows while the deal is unassigned
type Deal struct {
	id      kernel.UUID
	orderID kernel.UUID

	pickupLocation kernel.Address
	dropLocation   kernel.Address

	pickupOtp   Otp
	deliveryOtp Otp

	pricePerKm float64
	distanceKm float64
	totalCost  float64

	vehicleClass vehicle.Class

	status        Status
	paymentStatus PaymentStatus

	transporterID *kernel.UUID
	declinedBy    []kernel.UUID

	proofPhotos []ProofPhoto

	locationSharingEnabled bool
	locationSharingStarted *time.Time
	locationSharingEnded   *time.Time
	transporterLocation    *TrackPoint

	createdAt  time.Time
	pickupAt   *time.Time
	deliveryAt *time.Time

	version int64

	isConstructed bool
}

// NewDeal creates a deal in PENDING_PAYMENT with both custody codes
// generated. The requester-supplied total cost, when present, always wins
// over the computed distance×pricePerKm.
func NewDeal(
	id kernel.UUID,
	orderID kernel.UUID,
	pickup kernel.Address,
	drop kernel.Address,
	vehicleClass vehicle.Class,
	distanceKm float64,
	pricePerKm float64,
	requestedTotal *float64,
	now time.Time,
) (*Deal, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), pickup.Validate(), drop.Validate()); err != nil {
		return nil, err
	}
	if distanceKm <= 0 {
		return nil, errs.NewValueIsInvalidError("distance")
	}
	if pricePerKm <= 0 {
		return nil, errs.NewValueIsInvalidError("pricePerKm")
	}
	if requestedTotal != nil && *requestedTotal <= 0 {
		return nil, errs.NewValueIsInvalidError("totalCost")
	}

	pickupOtp, err := NewRandomOtp()
	if err != nil {
		return nil, err
	}
	deliveryOtp, err := NewRandomOtp()
	if err != nil {
		return nil, err
	}

	totalCost := distanceKm * pricePerKm
	if requestedTotal != nil {
		totalCost = *requestedTotal
	}

	return &Deal{
		id:             id,
		orderID:        orderID,
		pickupLocation: pickup,
		dropLocation:   drop,
		pickupOtp:      pickupOtp,
		deliveryOtp:    deliveryOtp,
		pricePerKm:     pricePerKm,
		distanceKm:     distanceKm,
		totalCost:      totalCost,
		vehicleClass:   vehicleClass,
		status:         PendingPayment,
		paymentStatus:  PaymentPending,
		createdAt:      now,
		isConstructed:  true,
	}, nil
}

// Snapshot carries every persisted field of a deal for rehydration.
type Snapshot struct {
	ID                     kernel.UUID
	OrderID                kernel.UUID
	PickupLocation         kernel.Address
	DropLocation           kernel.Address
	PickupOtp              Otp
	DeliveryOtp            Otp
	PricePerKm             float64
	DistanceKm             float64
	TotalCost              float64
	VehicleClass           vehicle.Class
	Status                 Status
	PaymentStatus          PaymentStatus
	TransporterID          *kernel.UUID
	DeclinedBy             []kernel.UUID
	ProofPhotos            []ProofPhoto
	LocationSharingEnabled bool
	LocationSharingStarted *time.Time
	LocationSharingEnded   *time.Time
	TransporterLocation    *TrackPoint
	CreatedAt              time.Time
	PickupAt               *time.Time
	DeliveryAt             *time.Time
	Version                int64
}

// RestoreDeal rehydrates a deal from persistence. Unlike NewDeal it accepts
// the state as-is but still rejects structurally invalid snapshots.
func RestoreDeal(s Snapshot) (*Deal, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.PickupLocation.Validate(),
		s.DropLocation.Validate(),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	return &Deal{
		id:                     s.ID,
		orderID:                s.OrderID,
		pickupLocation:         s.PickupLocation,
		dropLocation:           s.DropLocation,
		pickupOtp:              s.PickupOtp,
		deliveryOtp:            s.DeliveryOtp,
		pricePerKm:             s.PricePerKm,
		distanceKm:             s.DistanceKm,
		totalCost:              s.TotalCost,
		vehicleClass:           s.VehicleClass,
		status:                 s.Status,
		paymentStatus:          s.PaymentStatus,
		transporterID:          s.TransporterID,
		declinedBy:             s.DeclinedBy,
		proofPhotos:            s.ProofPhotos,
		locationSharingEnabled: s.LocationSharingEnabled,
		locationSharingStarted: s.LocationSharingStarted,
		locationSharingEnded:   s.LocationSharingEnded,
		transporterLocation:    s.TransporterLocation,
		createdAt:              s.CreatedAt,
		pickupAt:               s.PickupAt,
		deliveryAt:             s.DeliveryAt,
		version:                s.Version,
		isConstructed:          true,
	}, nil
}

// Validate ensures the Deal was created through a constructor.
func (d *Deal) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDealIsNotConstructed
	}
	return nil
}

// ID returns the deal identifier.
func (d *Deal) ID() kernel.UUID { return d.id }

// OrderID returns the immutable order reference.
func (d *Deal) OrderID() kernel.UUID { return d.orderID }

// PickupLocation returns the pickup address.
func (d *Deal) PickupLocation() kernel.Address { return d.pickupLocation }

// DropLocation returns the drop address.
func (d *Deal) DropLocation() kernel.Address { return d.dropLocation }

// PickupOtp returns the pickup custody code.
func (d *Deal) PickupOtp() Otp { return d.pickupOtp }

// DeliveryOtp returns the delivery custody code.
func (d *Deal) DeliveryOtp() Otp { return d.deliveryOtp }

// PricePerKm returns the agreed rate.
func (d *Deal) PricePerKm() float64 { return d.pricePerKm }

// DistanceKm returns the agreed route distance.
func (d *Deal) DistanceKm() float64 { return d.distanceKm }

// TotalCost returns the escrowed amount.
func (d *Deal) TotalCost() float64 { return d.totalCost }

// VehicleClass returns the canonical vehicle class the deal requires.
func (d *Deal) VehicleClass() vehicle.Class { return d.vehicleClass }

// Status returns the current lifecycle status.
func (d *Deal) Status() Status { return d.status }

// PaymentStatus returns the escrow state.
func (d *Deal) PaymentStatus() PaymentStatus { return d.paymentStatus }

// Transporter returns the assigned transporter, or nil while unassigned.
func (d *Deal) Transporter() *kernel.UUID { return d.transporterID }

// DeclinedBy returns the transporters that passed on this deal.
func (d *Deal) DeclinedBy() []kernel.UUID { return d.declinedBy }

// ProofPhotos returns the stored photos, most recent first.
func (d *Deal) ProofPhotos() []ProofPhoto { return d.proofPhotos }

// LocationSharingEnabled reports whether live positions fan out to
// subscribers.
func (d *Deal) LocationSharingEnabled() bool { return d.locationSharingEnabled }

// LocationSharingStarted returns when sharing was first enabled.
func (d *Deal) LocationSharingStarted() *time.Time { return d.locationSharingStarted }

// LocationSharingEnded returns when sharing was disabled.
func (d *Deal) LocationSharingEnded() *time.Time { return d.locationSharingEnded }

// TransporterLocation returns the last persisted position, or nil.
func (d *Deal) TransporterLocation() *TrackPoint { return d.transporterLocation }

// CreatedAt returns the creation timestamp.
func (d *Deal) CreatedAt() time.Time { return d.createdAt }

// PickupAt returns when custody transferred to the transporter, or nil.
func (d *Deal) PickupAt() *time.Time { return d.pickupAt }

// DeliveryAt returns when the deal completed, or nil.
func (d *Deal) DeliveryAt() *time.Time { return d.deliveryAt }

// Version returns the persistence revision the aggregate was loaded with.
// The repository predicates its update on it, so writing back a snapshot
// another writer has since advanced fails with Conflict instead of silently
// reverting that writer's columns.
func (d *Deal) Version() int64 { return d.version }

// MarkPaid records a successful escrow hold: payment becomes HELD and the
// deal enters the matching pool. The wallet debit itself happens in the same
// transaction at the application layer.
func (d *Deal) MarkPaid() error {
	if d.paymentStatus != PaymentPending {
		return errs.NewConflictError("payment not in expected state")
	}
	if d.status != PendingPayment {
		return errs.NewInvalidStateError("pay", d.status.String())
	}

	d.paymentStatus = PaymentHeld
	d.status = WaitingForTransporter
	return nil
}

// Assign records the claim outcome on the aggregate: transporter set exactly
// once, status advanced, location sharing enabled. Under concurrency the
// authoritative arbiter is the conditional update in the repository; this
// method encodes the same predicate for in-memory use.
func (d *Deal) Assign(transporterID kernel.UUID, now time.Time) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}
	if d.status != WaitingForTransporter || d.transporterID != nil {
		return errs.NewConflictError("deal already accepted by another transporter")
	}

	d.transporterID = &transporterID
	d.status = TransporterAssigned
	d.locationSharingEnabled = true
	d.locationSharingStarted = &now
	return nil
}

// Decline adds a transporter to the declined set. Legal only while the deal
// is unassigned and waiting; idempotent when already present. A declined
// transporter never sees this deal in its open pool again.
func (d *Deal) Decline(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}
	if d.status != WaitingForTransporter || d.transporterID != nil {
		return errs.NewInvalidStateError("decline", d.status.String())
	}

	if d.HasDeclined(transporterID) {
		return nil
	}
	d.declinedBy = append(d.declinedBy, transporterID)
	return nil
}

// HasDeclined reports whether the transporter already passed on this deal.
func (d *Deal) HasDeclined(transporterID kernel.UUID) bool {
	for _, id := range d.declinedBy {
		if id.IsEqual(transporterID) {
			return true
		}
	}
	return false
}

// VerifyOtp consumes a custody code. The branch is chosen purely by the
// current status: an assigned deal expects the pickup code, an en-route deal
// the delivery code, anything else is rejected with InvalidState. A wrong
// code changes no state. A replay of an already consumed code fails with
// InvalidState because the status has advanced past its phase.
func (d *Deal) VerifyOtp(transporterID kernel.UUID, code string, now time.Time) (OtpPhase, error) {
	if err := d.requireAssigned(transporterID, "verify custody code"); err != nil {
		return 0, err
	}

	switch d.status {
	case TransporterAssigned:
		if !d.pickupOtp.Matches(code) {
			return 0, errs.NewInvalidOtpError()
		}
		d.status = PickedUp
		d.pickupAt = &now
		return PickupPhase, nil

	case PickedUp, InTransit, OutForDelivery:
		if !d.deliveryOtp.Matches(code) {
			return 0, errs.NewInvalidOtpError()
		}
		d.status = Completed
		d.deliveryAt = &now
		d.releaseEscrow(now)
		return DeliveryPhase, nil

	default:
		return 0, errs.NewInvalidStateError("verify custody code", d.status.String())
	}
}

// UpdateStatus applies a manual status report from the assigned transporter.
// Transitions outside the table are hard-rejected with InvalidState;
// PICKED_UP is additionally unreachable here because that phase only
// advances through the pickup code. COMPLETED stays reachable from the late
// statuses per the table, closing out a delivery that was reported instead
// of code-verified. Reaching DELIVERED or COMPLETED releases escrow and
// stops location sharing.
func (d *Deal) UpdateStatus(transporterID kernel.UUID, next Status, now time.Time) error {
	if err := d.requireAssigned(transporterID, "update status"); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if next == PickedUp {
		return errs.NewInvalidStateError("reach "+next.String()+" without custody code", d.status.String())
	}
	if !d.status.CanTransitionTo(next) {
		return errs.NewInvalidStateError("move to "+next.String(), d.status.String())
	}

	d.status = next
	switch next {
	case Delivered:
		d.deliveryAt = &now
		d.releaseEscrow(now)
	case Completed:
		if d.deliveryAt == nil {
			d.deliveryAt = &now
		}
		d.releaseEscrow(now)
	}
	return nil
}

// Cancel terminates the deal administratively from any non-terminal state.
func (d *Deal) Cancel(now time.Time) error {
	if d.status.IsTerminal() {
		return errs.NewInvalidStateError("cancel", d.status.String())
	}

	d.status = Cancelled
	d.stopSharing(now)
	return nil
}

// AddProofPhoto stores a photo, most recent first, evicting the oldest past
// the cap. Only the assigned transporter may attach photos.
func (d *Deal) AddProofPhoto(transporterID kernel.UUID, photo ProofPhoto) error {
	if err := d.requireAssigned(transporterID, "upload proof photo"); err != nil {
		return err
	}

	d.proofPhotos = append([]ProofPhoto{photo}, d.proofPhotos...)
	if len(d.proofPhotos) > MaxProofPhotos {
		d.proofPhotos = d.proofPhotos[:MaxProofPhotos]
	}
	return nil
}

// RecordLocation persists a live position sample. The point is stored
// unconditionally for audit; the returned flag tells the caller whether the
// sample should also fan out to subscribers.
func (d *Deal) RecordLocation(transporterID kernel.UUID, point kernel.GeoPoint, at time.Time) (broadcast bool, err error) {
	if err := d.requireAssigned(transporterID, "push location"); err != nil {
		return false, err
	}
	if err := point.Validate(); err != nil {
		return false, err
	}

	d.transporterLocation = &TrackPoint{Point: point, At: at}
	return d.locationSharingEnabled, nil
}

// EnableLocationSharing re-enables fan-out inside the active delivery
// window. Used for recovery after a manual stop; it never extends the window
// past completion.
func (d *Deal) EnableLocationSharing(now time.Time) error {
	if !d.status.IsActiveDelivery() {
		return errs.NewInvalidStateError("enable location sharing", d.status.String())
	}

	d.locationSharingEnabled = true
	if d.locationSharingStarted == nil {
		d.locationSharingStarted = &now
	}
	return nil
}

// DisableLocationSharing stops fan-out inside the active delivery window.
func (d *Deal) DisableLocationSharing(now time.Time) error {
	if !d.status.IsActiveDelivery() {
		return errs.NewInvalidStateError("disable location sharing", d.status.String())
	}

	d.stopSharing(now)
	return nil
}

// releaseEscrow flips the payment to RELEASED and ends the sharing window.
func (d *Deal) releaseEscrow(now time.Time) {
	d.paymentStatus = PaymentReleased
	d.stopSharing(now)
}

func (d *Deal) stopSharing(now time.Time) {
	if d.locationSharingEnabled {
		d.locationSharingEnabled = false
		d.locationSharingEnded = &now
	}
}

// requireAssigned rejects callers other than the assigned transporter.
func (d *Deal) requireAssigned(transporterID kernel.UUID, action string) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}
	if d.transporterID == nil || !d.transporterID.IsEqual(transporterID) {
		return errs.NewNotAuthorizedError("transporter "+transporterID.String(), action)
	}
	return nil
}
