package ports

import (
	"context"

	"dispatch/internal/core/domain/model/wallet"
)

// EarningRepository defines the contract for settlement records.
type EarningRepository interface {
	// Add upserts an earning keyed on its deliveryID. The unique key makes
	// settlement idempotent: the first call inserts and returns true, any
	// retry is a no-op and returns false so the caller can skip the
	// dependent wallet credit.
	Add(ctx context.Context, earning *wallet.Earning) (inserted bool, err error)
}
