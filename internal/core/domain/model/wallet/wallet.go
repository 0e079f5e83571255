// Package wallet models the closed-loop internal ledger the dispatch core
// consumes: a balance per user and an append-only transaction log. The core
// never creates wallets; it debits the payer on escrow hold and credits the
// farmer on release. Balances must never go negative as a result of a debit
// initiated here. The persistence adapter enforces this with a conditional
// update, and the domain method mirrors the same predicate.
package wallet

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// TransactionType distinguishes ledger entries.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// TransactionStatus marks whether an entry took effect.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// Wallet is one user's balance.
type Wallet struct {
	userID  kernel.UUID
	balance float64
}

// RestoreWallet rehydrates a wallet from the ledger store.
func RestoreWallet(userID kernel.UUID, balance float64) (*Wallet, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if balance < 0 {
		return nil, errs.NewValueIsInvalidError("balance")
	}
	return &Wallet{userID: userID, balance: balance}, nil
}

// UserID returns the wallet owner.
func (w *Wallet) UserID() kernel.UUID { return w.userID }

// Balance returns the current balance.
func (w *Wallet) Balance() float64 { return w.balance }

// Debit removes amount from the balance, rejecting amounts that are not
// positive or would take the balance negative.
func (w *Wallet) Debit(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}
	if w.balance < amount {
		return errs.NewInsufficientFundsError(w.userID.String(), amount)
	}
	w.balance -= amount
	return nil
}

// Credit adds amount to the balance.
func (w *Wallet) Credit(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidError("amount")
	}
	w.balance += amount
	return nil
}

// Transaction is one ledger entry tied to an order.
type Transaction struct {
	id          kernel.UUID
	walletOwner kernel.UUID
	amount      float64
	txType      TransactionType
	description string
	orderID     *kernel.UUID
	status      TransactionStatus
	createdAt   time.Time
}

// NewTransaction creates a completed ledger entry.
func NewTransaction(
	walletOwner kernel.UUID,
	amount float64,
	txType TransactionType,
	description string,
	orderID *kernel.UUID,
	now time.Time,
) (*Transaction, error) {
	if err := walletOwner.Validate(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errs.NewValueIsInvalidError("amount")
	}
	if txType != Debit && txType != Credit {
		return nil, errs.NewValueIsInvalidError("transaction type")
	}

	return &Transaction{
		id:          kernel.NewUUID(),
		walletOwner: walletOwner,
		amount:      amount,
		txType:      txType,
		description: description,
		orderID:     orderID,
		status:      TransactionCompleted,
		createdAt:   now,
	}, nil
}

// ID returns the entry identifier.
func (t *Transaction) ID() kernel.UUID { return t.id }

// WalletOwner returns the affected wallet's owner.
func (t *Transaction) WalletOwner() kernel.UUID { return t.walletOwner }

// Amount returns the entry amount.
func (t *Transaction) Amount() float64 { return t.amount }

// Type returns DEBIT or CREDIT.
func (t *Transaction) Type() TransactionType { return t.txType }

// Description returns the human-readable entry description.
func (t *Transaction) Description() string { return t.description }

// OrderID returns the related order, or nil.
func (t *Transaction) OrderID() *kernel.UUID { return t.orderID }

// Status returns whether the entry took effect.
func (t *Transaction) Status() TransactionStatus { return t.status }

// CreatedAt returns the entry timestamp.
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }
