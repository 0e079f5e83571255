// Package walletrepo persists wallet balances and the ledger of escrow
// entries. Debits go through a single conditional update so a balance can
// never be driven negative, no matter how many deals race for it.
package walletrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"

	"github.com/google/uuid"
)

// WalletDTO represents the database structure for one user's balance.
type WalletDTO struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Balance float64
}

// TableName specifies the database table name for wallets.
func (WalletDTO) TableName() string {
	return "wallets"
}

// TransactionDTO represents the database structure for one ledger entry.
type TransactionDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletOwner uuid.UUID `gorm:"type:uuid;index"`
	Amount      float64
	Type        string
	Description string
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Status      string
	CreatedAt   time.Time
}

// TableName specifies the database table name for ledger entries.
func (TransactionDTO) TableName() string {
	return "wallet_transactions"
}

func walletToDomain(dto WalletDTO) (*wallet.Wallet, error) {
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	return wallet.RestoreWallet(userID, dto.Balance)
}

func transactionFromDomain(entry *wallet.Transaction) TransactionDTO {
	var orderID *uuid.UUID
	if id := entry.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	return TransactionDTO{
		ID:          entry.ID().Bytes(),
		WalletOwner: entry.WalletOwner().Bytes(),
		Amount:      entry.Amount(),
		Type:        string(entry.Type()),
		Description: entry.Description(),
		OrderID:     orderID,
		Status:      string(entry.Status()),
		CreatedAt:   entry.CreatedAt(),
	}
}
