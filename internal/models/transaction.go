package models

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "Deposit"
	TransactionTypeWithdrawal = "Withdrawal"
)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionAmount = errors.New("transaction amount must be positive")
)

// Transaction represents a single balance movement on an account. The
// JSON field names match the persisted snapshot layout under the
// bankTransactions key. Transactions are append-only: once recorded they
// are never mutated or deleted, even after the account is closed.
type Transaction struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Date          time.Time       `json:"date"`
}

// NewTransaction constructs a transaction with a collision-resistant id.
// BalanceAfter is the account balance immediately after the movement was
// applied; it is a point-in-time snapshot, never recomputed later.
func NewTransaction(accountNumber, transactionType string, amount, balanceAfter decimal.Decimal) Transaction {
	return Transaction{
		ID:            uuid.NewString(),
		AccountNumber: accountNumber,
		Type:          transactionType,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Date:          time.Now().UTC(),
	}
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("transaction id is required")
	}

	if t.AccountNumber == "" {
		return errors.New("account number is required")
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}

	if t.BalanceAfter.LessThan(decimal.Zero) {
		return errors.New("balance after transaction cannot be negative")
	}

	return nil
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeDeposit, TransactionTypeWithdrawal:
		return true
	default:
		return false
	}
}

// SortNewestFirst returns a copy of the transactions ordered by date,
// newest first. The stored sequence itself stays in insertion order;
// this ordering is a display concern.
func SortNewestFirst(transactions []Transaction) []Transaction {
	sorted := make([]Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
