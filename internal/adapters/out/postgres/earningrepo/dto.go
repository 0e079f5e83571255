// Package earningrepo persists settlement records. The unique index on
// delivery_id is what makes settlement exactly-once: every trigger after the
// first hits the conflict clause and changes nothing.
package earningrepo

import (
	"time"

	"dispatch/internal/core/domain/model/wallet"

	"github.com/google/uuid"
)

// EarningDTO represents the database structure for one settlement record.
// The pricing components are persisted next to the derived amount so a
// payout row is auditable on its own.
type EarningDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID    uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	TransporterID uuid.UUID `gorm:"type:uuid;index"`
	DistanceKm    float64
	PricePerKm    float64
	Amount        float64
	CreatedAt     time.Time
}

// TableName specifies the database table name for earnings.
func (EarningDTO) TableName() string {
	return "earnings"
}

func fromDomain(earning *wallet.Earning) EarningDTO {
	return EarningDTO{
		ID:            earning.ID().Bytes(),
		DeliveryID:    earning.DeliveryID().Bytes(),
		OrderID:       earning.OrderID().Bytes(),
		TransporterID: earning.TransporterID().Bytes(),
		DistanceKm:    earning.DistanceKm(),
		PricePerKm:    earning.PricePerKm(),
		Amount:        earning.Amount(),
		CreatedAt:     earning.CreatedAt(),
	}
}
