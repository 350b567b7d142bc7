package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountStatusActive = "Active"
	AccountStatusClosed = "Closed"
)

var (
	ErrInvalidAccountStatus = errors.New("invalid account status")
	ErrInvalidBalance       = errors.New("balance cannot be negative")
	ErrAccountNotActive     = errors.New("account is not active")
	ErrAccountAlreadyClosed = errors.New("account is already closed")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("amount must be positive")
)

// Account represents a bank account. The JSON field names match the
// persisted snapshot layout under the bankAccounts key.
type Account struct {
	AccountNumber string          `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	DateCreated   time.Time       `json:"dateCreated"`
	Status        string          `json:"status"`
	DateClosed    *time.Time      `json:"dateClosed,omitempty"`
}

// NewAccount constructs an Active account with the given opening balance.
func NewAccount(accountNumber, holderName, accountType string, balance decimal.Decimal) Account {
	return Account{
		AccountNumber: accountNumber,
		HolderName:    holderName,
		AccountType:   accountType,
		Balance:       balance,
		DateCreated:   time.Now().UTC(),
		Status:        AccountStatusActive,
	}
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.AccountNumber == "" {
		return errors.New("account number is required")
	}

	if a.HolderName == "" {
		return errors.New("holder name is required")
	}

	if !IsValidAccountStatus(a.Status) {
		return ErrInvalidAccountStatus
	}

	if a.Balance.LessThan(decimal.Zero) {
		return ErrInvalidBalance
	}

	// A closed account's balance is permanently zero
	if a.Status == AccountStatusClosed && !a.Balance.IsZero() {
		return errors.New("closed account must have zero balance")
	}

	return nil
}

// IsActive returns true if the account is active
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Credit adds the amount to the account balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if !a.IsActive() {
		return ErrAccountNotActive
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Debit subtracts the amount from the account balance
func (a *Account) Debit(amount decimal.Decimal) error {
	if !a.IsActive() {
		return ErrAccountNotActive
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}

// CanWithdraw checks if the amount can be withdrawn
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.IsActive() && amount.GreaterThan(decimal.Zero) && a.Balance.GreaterThanOrEqual(amount)
}

// Close transitions the account to Closed, zeroes the balance and stamps
// the closing time. Closed is terminal; the transition is never reversed.
func (a *Account) Close() error {
	if a.Status == AccountStatusClosed {
		return ErrAccountAlreadyClosed
	}

	a.Status = AccountStatusClosed
	a.Balance = decimal.Zero
	now := time.Now().UTC()
	a.DateClosed = &now
	return nil
}

// IsValidAccountStatus checks if the account status is valid
func IsValidAccountStatus(status string) bool {
	switch status {
	case AccountStatusActive, AccountStatusClosed:
		return true
	default:
		return false
	}
}
