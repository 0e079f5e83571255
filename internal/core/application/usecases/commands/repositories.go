// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DealRepoFactory provides access to the deal repository within a transaction.
	DealRepoFactory interface {
		DealRepository() ports.DealRepository
	}

	// WalletRepoFactory provides access to the ledger repository within a transaction.
	WalletRepoFactory interface {
		WalletRepository() ports.WalletRepository
	}

	// EarningRepoFactory provides access to the earning repository within a transaction.
	EarningRepoFactory interface {
		EarningRepository() ports.EarningRepository
	}

	// DealUoW manages transactions for deal-only operations.
	DealUoW interface {
		TxManager
		DealRepoFactory
	}

	// DealUoWFactory creates new deal unit of work instances.
	DealUoWFactory interface {
		Create() DealUoW
	}

	// EscrowUoW manages transactions spanning a deal and the ledger.
	// Used by the escrow hold, where the wallet debit, the ledger entry and
	// the deal state change must commit or fail together.
	EscrowUoW interface {
		TxManager
		DealRepoFactory
		WalletRepoFactory
	}

	// EscrowUoWFactory creates new escrow unit of work instances.
	EscrowUoWFactory interface {
		Create() EscrowUoW
	}

	// UoW manages transactions across deal, ledger and earning aggregates.
	// Used by settlement, where the earning upsert guards the wallet credit.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   dealRepo := uow.DealRepository()
	//   walletRepo := uow.WalletRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		DealRepoFactory
		WalletRepoFactory
		EarningRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
