package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
)

// WalletRepository defines the contract for the internal ledger.
// The core never creates wallets; it only moves escrow through them.
type WalletRepository interface {
	// Get retrieves a wallet by its owner.
	Get(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error)

	// Debit removes amount from the owner's balance with a conditional
	// update that only matches while the balance covers the amount.
	// Fails with InsufficientFunds when no row changes, so the balance can
	// never go negative even under concurrent debits.
	Debit(ctx context.Context, userID kernel.UUID, amount float64) error

	// Credit adds amount to the owner's balance.
	Credit(ctx context.Context, userID kernel.UUID, amount float64) error

	// AddTransaction appends a ledger entry.
	AddTransaction(ctx context.Context, tx *wallet.Transaction) error
}
