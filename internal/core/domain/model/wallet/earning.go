package wallet

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Earning is one transporter's settled payout for a completed delivery.
// It keeps the pricing components (distance and rate) alongside the derived
// amount so a payout stays auditable. Exactly one earning may exist per
// delivery; the storage layer enforces this with a unique key on deliveryID,
// which is what makes settlement safe to retry.
type Earning struct {
	id            kernel.UUID
	deliveryID    kernel.UUID
	orderID       kernel.UUID
	transporterID kernel.UUID
	distanceKm    float64
	pricePerKm    float64
	amount        float64
	createdAt     time.Time
}

// NewEarning creates an earning record for a completed delivery. The payout
// amount is distance times rate.
func NewEarning(
	deliveryID kernel.UUID,
	orderID kernel.UUID,
	transporterID kernel.UUID,
	distanceKm float64,
	pricePerKm float64,
	now time.Time,
) (*Earning, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := transporterID.Validate(); err != nil {
		return nil, err
	}
	if distanceKm <= 0 {
		return nil, errs.NewValueIsInvalidError("distance")
	}
	if pricePerKm <= 0 {
		return nil, errs.NewValueIsInvalidError("pricePerKm")
	}

	return &Earning{
		id:            kernel.NewUUID(),
		deliveryID:    deliveryID,
		orderID:       orderID,
		transporterID: transporterID,
		distanceKm:    distanceKm,
		pricePerKm:    pricePerKm,
		amount:        distanceKm * pricePerKm,
		createdAt:     now,
	}, nil
}

// RestoreEarning rehydrates an earning from storage.
func RestoreEarning(
	id kernel.UUID,
	deliveryID kernel.UUID,
	orderID kernel.UUID,
	transporterID kernel.UUID,
	distanceKm float64,
	pricePerKm float64,
	amount float64,
	createdAt time.Time,
) (*Earning, error) {
	e, err := NewEarning(deliveryID, orderID, transporterID, distanceKm, pricePerKm, createdAt)
	if err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	e.id = id
	e.amount = amount
	return e, nil
}

// ID returns the earning identifier.
func (e *Earning) ID() kernel.UUID { return e.id }

// DeliveryID returns the completed delivery this payout settles.
func (e *Earning) DeliveryID() kernel.UUID { return e.deliveryID }

// OrderID returns the related order.
func (e *Earning) OrderID() kernel.UUID { return e.orderID }

// TransporterID returns the payout recipient.
func (e *Earning) TransporterID() kernel.UUID { return e.transporterID }

// DistanceKm returns the route distance the payout was computed from.
func (e *Earning) DistanceKm() float64 { return e.distanceKm }

// PricePerKm returns the rate the payout was computed from.
func (e *Earning) PricePerKm() float64 { return e.pricePerKm }

// Amount returns the payout amount.
func (e *Earning) Amount() float64 { return e.amount }

// CreatedAt returns when the earning was first recorded.
func (e *Earning) CreatedAt() time.Time { return e.createdAt }
