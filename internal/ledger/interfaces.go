package ledger

import (
	"time"

	"bankledger/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerInterface defines account lifecycle and transaction operations.
// Domain failures (unknown account, insufficient funds, closed account,
// bad amount) come back inside the Result; the error return is reserved
// for storage faults.
type LedgerInterface interface {
	OpenAccount(holderName, accountType string, initialDeposit decimal.Decimal) (*models.Account, error)
	FindAccount(accountNumber string) (*models.Account, error)
	ListAccounts() ([]models.Account, error)
	Deposit(accountNumber string, amount decimal.Decimal) (Result, error)
	Withdraw(accountNumber string, amount decimal.Decimal) (Result, error)
	CloseAccount(accountNumber string) (Result, error)
	TransactionsForAccount(accountNumber string) ([]models.Transaction, error)
}

// MetricsRecorderInterface records operational metrics for ledger operations
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
