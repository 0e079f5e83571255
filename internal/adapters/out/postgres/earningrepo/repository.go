package earningrepo

import (
	"context"

	"dispatch/internal/core/domain/model/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEarningRepository implements EarningRepository using GORM.
type GormEarningRepository struct {
	db *gorm.DB
}

// NewGormEarningRepository creates a new GORM earning repository.
func NewGormEarningRepository(db *gorm.DB) *GormEarningRepository {
	return &GormEarningRepository{db: db}
}

// Add upserts the earning keyed on its delivery. ON CONFLICT DO NOTHING on
// the delivery_id unique index turns a retried settlement into a no-op; the
// caller reads inserted to decide whether the dependent credit still runs.
func (r *GormEarningRepository) Add(ctx context.Context, earning *wallet.Earning) (bool, error) {
	dto := fromDomain(earning)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "delivery_id"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
