package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	errs "bankledger/internal/errors"
	"bankledger/internal/models"
	"bankledger/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// ledgerService implements LedgerInterface. Every operation is a full
// load-snapshot, compute, save-snapshot cycle against the Store. The
// mutex serializes operations end to end: the snapshot cycle has no
// transactional isolation of its own, so at most one writer may be in
// flight at a time.
type ledgerService struct {
	store   store.Store
	logger  *slog.Logger
	metrics MetricsRecorderInterface
	mu      sync.Mutex
}

// New creates a ledger service backed by the given snapshot store
func New(st store.Store, logger *slog.Logger, metrics MetricsRecorderInterface) LedgerInterface {
	return &ledgerService{
		store:   st,
		logger:  logger,
		metrics: metrics,
	}
}

// OpenAccount allocates the next account number, persists a new Active
// account and, when the initial deposit is positive, records the seed
// Deposit transaction with amount == balanceAfter == initialDeposit.
func (l *ledgerService) OpenAccount(holderName, accountType string, initialDeposit decimal.Decimal) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.timeOperation("open_account")()

	if initialDeposit.LessThan(decimal.Zero) {
		l.countFailure("open_account", "invalid_amount")
		return nil, ErrInvalidAmount
	}

	accounts, err := l.store.LoadAccounts()
	if err != nil {
		return nil, l.storageFailure("open_account", err)
	}

	number, err := l.store.NextAccountNumber()
	if err != nil {
		return nil, l.storageFailure("open_account", err)
	}

	account := models.NewAccount(strconv.Itoa(number), holderName, accountType, initialDeposit)
	if err := account.Validate(); err != nil {
		l.countFailure("open_account", "invalid_account")
		return nil, fmt.Errorf("invalid account: %w", err)
	}

	accounts = append(accounts, account)
	if err := l.store.SaveAccounts(accounts); err != nil {
		return nil, l.storageFailure("open_account", err)
	}

	if initialDeposit.GreaterThan(decimal.Zero) {
		if err := l.recordTransaction(account.AccountNumber, models.TransactionTypeDeposit, initialDeposit, initialDeposit); err != nil {
			return nil, l.storageFailure("open_account", err)
		}
	}

	l.logger.Info("account opened",
		slog.String("account_number", account.AccountNumber),
		slog.String("account_type", account.AccountType),
		slog.String("balance", account.Balance.String()),
	)
	l.countSuccess("open_account")
	l.recordActiveAccounts(accounts)

	return &account, nil
}

// FindAccount looks up an account by exact account number match
func (l *ledgerService) FindAccount(accountNumber string) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, err := l.store.LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	idx := indexOfAccount(accounts, accountNumber)
	if idx < 0 {
		return nil, ErrAccountNotFound
	}

	account := accounts[idx]
	return &account, nil
}

// ListAccounts returns the full account collection, closed accounts included
func (l *ledgerService) ListAccounts() ([]models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, err := l.store.LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return accounts, nil
}

// Deposit credits an Active account and records a Deposit transaction
// whose balanceAfter is the balance immediately after the credit.
func (l *ledgerService) Deposit(accountNumber string, amount decimal.Decimal) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.timeOperation("deposit")()

	if amount.LessThanOrEqual(decimal.Zero) {
		l.countFailure("deposit", "invalid_amount")
		return failure(errs.InvalidInput), nil
	}

	accounts, err := l.store.LoadAccounts()
	if err != nil {
		return failure(errs.StorageError), l.storageFailure("deposit", err)
	}

	idx := indexOfAccount(accounts, accountNumber)
	if idx < 0 || !accounts[idx].IsActive() {
		l.countFailure("deposit", "not_found_or_inactive")
		return failure(errs.AccountNotFoundOrInactive), nil
	}

	if err := accounts[idx].Credit(amount); err != nil {
		l.countFailure("deposit", "rejected")
		return failure(errs.InvalidInput), nil
	}

	if err := l.store.SaveAccounts(accounts); err != nil {
		return failure(errs.StorageError), l.storageFailure("deposit", err)
	}

	newBalance := accounts[idx].Balance
	if err := l.recordTransaction(accountNumber, models.TransactionTypeDeposit, amount, newBalance); err != nil {
		return failure(errs.StorageError), l.storageFailure("deposit", err)
	}

	l.logger.Info("deposit applied",
		slog.String("account_number", accountNumber),
		slog.String("amount", amount.String()),
		slog.String("new_balance", newBalance.String()),
	)
	l.countSuccess("deposit")

	return successWithBalance(fmt.Sprintf("Successfully deposited $%s", amount.StringFixed(2)), newBalance), nil
}

// Withdraw debits an Active account and records a Withdrawal
// transaction. A withdrawal exceeding the balance is rejected and
// leaves both the balance and the transaction history untouched.
func (l *ledgerService) Withdraw(accountNumber string, amount decimal.Decimal) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.timeOperation("withdraw")()

	if amount.LessThanOrEqual(decimal.Zero) {
		l.countFailure("withdraw", "invalid_amount")
		return failure(errs.InvalidInput), nil
	}

	accounts, err := l.store.LoadAccounts()
	if err != nil {
		return failure(errs.StorageError), l.storageFailure("withdraw", err)
	}

	idx := indexOfAccount(accounts, accountNumber)
	if idx < 0 || !accounts[idx].IsActive() {
		l.countFailure("withdraw", "not_found_or_inactive")
		return failure(errs.AccountNotFoundOrInactive), nil
	}

	if accounts[idx].Balance.LessThan(amount) {
		l.countFailure("withdraw", "insufficient_funds")
		return failure(errs.InsufficientFunds), nil
	}

	if err := accounts[idx].Debit(amount); err != nil {
		l.countFailure("withdraw", "rejected")
		return failure(errs.InvalidInput), nil
	}

	if err := l.store.SaveAccounts(accounts); err != nil {
		return failure(errs.StorageError), l.storageFailure("withdraw", err)
	}

	newBalance := accounts[idx].Balance
	if err := l.recordTransaction(accountNumber, models.TransactionTypeWithdrawal, amount, newBalance); err != nil {
		return failure(errs.StorageError), l.storageFailure("withdraw", err)
	}

	l.logger.Info("withdrawal applied",
		slog.String("account_number", accountNumber),
		slog.String("amount", amount.String()),
		slog.String("new_balance", newBalance.String()),
	)
	l.countSuccess("withdraw")

	return successWithBalance(fmt.Sprintf("Successfully withdrew $%s", amount.StringFixed(2)), newBalance), nil
}

// CloseAccount closes an Active account. A remaining balance is drained
// first with a final Withdrawal transaction (amount = full balance,
// balanceAfter = 0); closing a zero-balance account records nothing.
// The account's transaction history stays queryable after closure.
func (l *ledgerService) CloseAccount(accountNumber string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.timeOperation("close_account")()

	accounts, err := l.store.LoadAccounts()
	if err != nil {
		return failure(errs.StorageError), l.storageFailure("close_account", err)
	}

	idx := indexOfAccount(accounts, accountNumber)
	if idx < 0 || !accounts[idx].IsActive() {
		l.countFailure("close_account", "not_found_or_closed")
		return failure(errs.AccountAlreadyClosed), nil
	}

	if balance := accounts[idx].Balance; balance.GreaterThan(decimal.Zero) {
		if err := l.recordTransaction(accountNumber, models.TransactionTypeWithdrawal, balance, decimal.Zero); err != nil {
			return failure(errs.StorageError), l.storageFailure("close_account", err)
		}
	}

	if err := accounts[idx].Close(); err != nil {
		l.countFailure("close_account", "already_closed")
		return failure(errs.AccountAlreadyClosed), nil
	}

	if err := l.store.SaveAccounts(accounts); err != nil {
		return failure(errs.StorageError), l.storageFailure("close_account", err)
	}

	l.logger.Info("account closed",
		slog.String("account_number", accountNumber),
	)
	l.countSuccess("close_account")
	l.recordActiveAccounts(accounts)

	return success("Account closed successfully"), nil
}

// TransactionsForAccount returns the account's transactions in
// insertion order. Callers re-sort for display; see models.SortNewestFirst.
func (l *ledgerService) TransactionsForAccount(accountNumber string) ([]models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	transactions, err := l.store.LoadTransactions()
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	matched := []models.Transaction{}
	for _, transaction := range transactions {
		if transaction.AccountNumber == accountNumber {
			matched = append(matched, transaction)
		}
	}

	return matched, nil
}

// recordTransaction appends one transaction to the persisted collection
func (l *ledgerService) recordTransaction(accountNumber, transactionType string, amount, balanceAfter decimal.Decimal) error {
	transactions, err := l.store.LoadTransactions()
	if err != nil {
		return err
	}

	transaction := models.NewTransaction(accountNumber, transactionType, amount, balanceAfter)
	if err := transaction.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	transactions = append(transactions, transaction)
	if err := l.store.SaveTransactions(transactions); err != nil {
		return err
	}

	l.metrics.RecordGauge("ledger.transaction.amount", amount.InexactFloat64(), map[string]string{"type": transactionType})
	return nil
}

func (l *ledgerService) storageFailure(operation string, err error) error {
	l.logger.Error("storage operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	l.countFailure(operation, "storage")
	return fmt.Errorf("%s: %w", errs.StorageError, err)
}

func (l *ledgerService) countSuccess(operation string) {
	l.metrics.IncrementCounter("ledger.operation.success", map[string]string{"operation": operation})
}

func (l *ledgerService) countFailure(operation, reason string) {
	l.metrics.IncrementCounter("ledger.operation.failed", map[string]string{
		"operation": operation,
		"reason":    reason,
	})
}

func (l *ledgerService) timeOperation(operation string) func() {
	start := time.Now()
	return func() {
		l.metrics.RecordProcessingTime("ledger.operation", time.Since(start))
	}
}

func (l *ledgerService) recordActiveAccounts(accounts []models.Account) {
	active := 0
	for _, account := range accounts {
		if account.IsActive() {
			active++
		}
	}
	l.metrics.RecordGauge("ledger.accounts.active", float64(active), nil)
}

func indexOfAccount(accounts []models.Account, accountNumber string) int {
	for i := range accounts {
		if accounts[i].AccountNumber == accountNumber {
			return i
		}
	}
	return -1
}
