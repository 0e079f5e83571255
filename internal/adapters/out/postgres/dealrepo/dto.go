// Package dealrepo provides data transfer objects and mapping functions for
// deal persistence. It implements the repository pattern for the deal
// aggregate, including the conditional-update claim arbiter.
package dealrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/deal"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

// DealDTO represents the database structure for persisting deal aggregates.
// The unique index on OrderID enforces the one-deal-per-order invariant at
// the storage level; the decline set and proof photos live in jsonb columns
// since they are only ever read through the aggregate.
type DealDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	PickupAddress string
	PickupLat     *float64
	PickupLng     *float64
	DropAddress   string
	DropLat       *float64
	DropLng       *float64

	PickupOtp   string
	DeliveryOtp string

	PricePerKm float64
	DistanceKm float64
	TotalCost  float64

	VehicleClass  string `gorm:"index"`
	Status        string `gorm:"index"`
	PaymentStatus string

	TransporterID *uuid.UUID `gorm:"type:uuid;index"`
	DeclinedBy    []byte     `gorm:"type:jsonb"`
	ProofPhotos   []byte     `gorm:"type:jsonb"`

	LocationSharingEnabled bool
	LocationSharingStarted *time.Time
	LocationSharingEnded   *time.Time
	LastLat                *float64
	LastLng                *float64
	LastLocationAt         *time.Time

	CreatedAt  time.Time
	PickupAt   *time.Time
	DeliveryAt *time.Time

	// Version is the optimistic-concurrency revision; every write bumps it
	// and predicates on the previously loaded value.
	Version int64
}

// TableName specifies the database table name for deal entities.
func (DealDTO) TableName() string {
	return "deals"
}

// proofPhotoDTO is the jsonb element for one stored photo. Data marshals as
// base64 through encoding/json.
type proofPhotoDTO struct {
	ID         uuid.UUID `json:"id"`
	Format     string    `json:"format"`
	Data       []byte    `json:"data"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// fromDomain converts a deal aggregate to its database representation.
func fromDomain(aggregate *deal.Deal) (DealDTO, error) {
	var transporterID *uuid.UUID
	if id := aggregate.Transporter(); id != nil {
		raw := id.Bytes()
		transporterID = &raw
	}

	declined := make([]uuid.UUID, 0, len(aggregate.DeclinedBy()))
	for _, id := range aggregate.DeclinedBy() {
		declined = append(declined, id.Bytes())
	}
	declinedJSON, err := json.Marshal(declined)
	if err != nil {
		return DealDTO{}, err
	}

	photos := make([]proofPhotoDTO, 0, len(aggregate.ProofPhotos()))
	for _, p := range aggregate.ProofPhotos() {
		photos = append(photos, proofPhotoDTO{
			ID:         p.ID().Bytes(),
			Format:     p.Format(),
			Data:       p.Data(),
			UploadedAt: p.UploadedAt(),
		})
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return DealDTO{}, err
	}

	dto := DealDTO{
		ID:                     aggregate.ID().Bytes(),
		OrderID:                aggregate.OrderID().Bytes(),
		PickupAddress:          aggregate.PickupLocation().Text(),
		DropAddress:            aggregate.DropLocation().Text(),
		PickupOtp:              aggregate.PickupOtp().String(),
		DeliveryOtp:            aggregate.DeliveryOtp().String(),
		PricePerKm:             aggregate.PricePerKm(),
		DistanceKm:             aggregate.DistanceKm(),
		TotalCost:              aggregate.TotalCost(),
		VehicleClass:           string(aggregate.VehicleClass()),
		Status:                 aggregate.Status().String(),
		PaymentStatus:          aggregate.PaymentStatus().String(),
		TransporterID:          transporterID,
		DeclinedBy:             declinedJSON,
		ProofPhotos:            photosJSON,
		LocationSharingEnabled: aggregate.LocationSharingEnabled(),
		LocationSharingStarted: aggregate.LocationSharingStarted(),
		LocationSharingEnded:   aggregate.LocationSharingEnded(),
		CreatedAt:              aggregate.CreatedAt(),
		PickupAt:               aggregate.PickupAt(),
		DeliveryAt:             aggregate.DeliveryAt(),
		Version:                aggregate.Version(),
	}

	if point := aggregate.PickupLocation().Point(); point != nil {
		lat, lng := point.Latitude(), point.Longitude()
		dto.PickupLat, dto.PickupLng = &lat, &lng
	}
	if point := aggregate.DropLocation().Point(); point != nil {
		lat, lng := point.Latitude(), point.Longitude()
		dto.DropLat, dto.DropLng = &lat, &lng
	}
	if track := aggregate.TransporterLocation(); track != nil {
		lat, lng, at := track.Point.Latitude(), track.Point.Longitude(), track.At
		dto.LastLat, dto.LastLng, dto.LastLocationAt = &lat, &lng, &at
	}

	return dto, nil
}

// toDomain converts a database DTO back to a deal aggregate via RestoreDeal.
func toDomain(dto DealDTO) (*deal.Deal, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := restoreAddress(dto.PickupAddress, dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	drop, err := restoreAddress(dto.DropAddress, dto.DropLat, dto.DropLng)
	if err != nil {
		return nil, err
	}

	pickupOtp, err := deal.OtpFromString(dto.PickupOtp)
	if err != nil {
		return nil, err
	}
	deliveryOtp, err := deal.OtpFromString(dto.DeliveryOtp)
	if err != nil {
		return nil, err
	}

	status, err := deal.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := deal.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	var transporterID *kernel.UUID
	if dto.TransporterID != nil {
		tID, tErr := kernel.UUIDFromBytes((*dto.TransporterID)[:])
		if tErr != nil {
			return nil, tErr
		}
		transporterID = &tID
	}

	var declinedRaw []uuid.UUID
	if len(dto.DeclinedBy) > 0 {
		if err = json.Unmarshal(dto.DeclinedBy, &declinedRaw); err != nil {
			return nil, err
		}
	}
	declined := make([]kernel.UUID, 0, len(declinedRaw))
	for _, raw := range declinedRaw {
		dID, dErr := kernel.UUIDFromBytes(raw[:])
		if dErr != nil {
			return nil, dErr
		}
		declined = append(declined, dID)
	}

	var photoDTOs []proofPhotoDTO
	if len(dto.ProofPhotos) > 0 {
		if err = json.Unmarshal(dto.ProofPhotos, &photoDTOs); err != nil {
			return nil, err
		}
	}
	photos := make([]deal.ProofPhoto, 0, len(photoDTOs))
	for _, p := range photoDTOs {
		pID, pErr := kernel.UUIDFromBytes(p.ID[:])
		if pErr != nil {
			return nil, pErr
		}
		photos = append(photos, deal.RestoreProofPhoto(pID, p.Format, p.Data, p.UploadedAt))
	}

	var track *deal.TrackPoint
	if dto.LastLat != nil && dto.LastLng != nil && dto.LastLocationAt != nil {
		point, pErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if pErr != nil {
			return nil, pErr
		}
		track = &deal.TrackPoint{Point: point, At: *dto.LastLocationAt}
	}

	return deal.RestoreDeal(deal.Snapshot{
		ID:                     id,
		OrderID:                orderID,
		PickupLocation:         pickup,
		DropLocation:           drop,
		PickupOtp:              pickupOtp,
		DeliveryOtp:            deliveryOtp,
		PricePerKm:             dto.PricePerKm,
		DistanceKm:             dto.DistanceKm,
		TotalCost:              dto.TotalCost,
		VehicleClass:           vehicle.Class(dto.VehicleClass),
		Status:                 status,
		PaymentStatus:          paymentStatus,
		TransporterID:          transporterID,
		DeclinedBy:             declined,
		ProofPhotos:            photos,
		LocationSharingEnabled: dto.LocationSharingEnabled,
		LocationSharingStarted: dto.LocationSharingStarted,
		LocationSharingEnded:   dto.LocationSharingEnded,
		TransporterLocation:    track,
		CreatedAt:              dto.CreatedAt,
		PickupAt:               dto.PickupAt,
		DeliveryAt:             dto.DeliveryAt,
		Version:                dto.Version,
	})
}

func restoreAddress(text string, lat, lng *float64) (kernel.Address, error) {
	var point *kernel.GeoPoint
	if lat != nil && lng != nil {
		p, err := kernel.NewGeoPoint(*lat, *lng)
		if err != nil {
			return kernel.Address{}, err
		}
		point = &p
	}
	return kernel.NewAddress(text, point)
}
