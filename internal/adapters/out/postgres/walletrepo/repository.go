package walletrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWalletRepository implements WalletRepository using GORM.
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GORM wallet repository.
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// Get retrieves a wallet by its owner.
func (r *GormWalletRepository) Get(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet", userID.String())
		}
		return nil, err
	}

	return walletToDomain(dto)
}

// Debit removes amount from the owner's balance. The WHERE clause only
// matches while the balance covers the amount, so zero rows affected means
// insufficient funds (or a missing wallet, reported as NotFound).
func (r *GormWalletRepository) Debit(ctx context.Context, userID kernel.UUID, amount float64) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}

	result := r.db.WithContext(ctx).Model(&WalletDTO{}).
		Where("user_id = ? AND balance >= ?", userID.Bytes(), amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, userID); err != nil {
			return err
		}
		return errs.NewInsufficientFundsError(userID.String(), amount)
	}

	return nil
}

// Credit adds amount to the owner's balance.
func (r *GormWalletRepository) Credit(ctx context.Context, userID kernel.UUID, amount float64) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}

	result := r.db.WithContext(ctx).Model(&WalletDTO{}).
		Where("user_id = ?", userID.Bytes()).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("wallet", userID.String())
	}

	return nil
}

// AddTransaction appends a ledger entry.
func (r *GormWalletRepository) AddTransaction(ctx context.Context, entry *wallet.Transaction) error {
	dto := transactionFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}
