package ledger

import (
	"io"
	"log/slog"
	"strconv"
	"testing"

	"bankledger/internal/database"
	errs "bankledger/internal/errors"
	"bankledger/internal/models"
	"bankledger/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// LedgerSuite exercises the ledger against a real snapshot store backed
// by an in-memory database.
type LedgerSuite struct {
	suite.Suite
	db     *database.DB
	store  store.Store
	ledger LedgerInterface
}

func (s *LedgerSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.store = store.NewKVStore(s.db.DB)
	s.ledger = New(
		s.store,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		NewPrometheusMetrics(prometheus.NewRegistry()),
	)
}

func (s *LedgerSuite) TearDownTest() {
	_ = s.db.Close()
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) openAccount(holder string, initialDeposit int64) *models.Account {
	account, err := s.ledger.OpenAccount(holder, "Savings", decimal.NewFromInt(initialDeposit))
	s.Require().NoError(err)
	return account
}

func (s *LedgerSuite) TestOpenAccountFirstNumberIs1000() {
	account := s.openAccount("Alice Smith", 100)

	s.Equal("1000", account.AccountNumber)
	s.Equal("Alice Smith", account.HolderName)
	s.Equal(models.AccountStatusActive, account.Status)
	s.True(account.Balance.Equal(decimal.NewFromInt(100)))
	s.Nil(account.DateClosed)
}

func (s *LedgerSuite) TestOpenAccountNumbersAreSequential() {
	for i := 0; i < 5; i++ {
		account := s.openAccount("Holder "+strconv.Itoa(i), 0)
		s.Equal(strconv.Itoa(1000+i), account.AccountNumber)
	}
}

func (s *LedgerSuite) TestOpenAccountWithDepositRecordsSeedTransaction() {
	account := s.openAccount("Alice Smith", 100)

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.Equal(models.TransactionTypeDeposit, transactions[0].Type)
	s.True(transactions[0].Amount.Equal(decimal.NewFromInt(100)))
	s.True(transactions[0].BalanceAfter.Equal(decimal.NewFromInt(100)))
}

func (s *LedgerSuite) TestOpenAccountWithZeroDepositRecordsNothing() {
	account := s.openAccount("Alice Smith", 0)

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Empty(transactions)
}

func (s *LedgerSuite) TestOpenAccountRejectsNegativeDeposit() {
	account, err := s.ledger.OpenAccount("Alice Smith", "Savings", decimal.NewFromInt(-50))
	s.ErrorIs(err, ErrInvalidAmount)
	s.Nil(account)

	// The number counter must not have been consumed
	next := s.openAccount("Bob Jones", 0)
	s.Equal("1000", next.AccountNumber)
}

func (s *LedgerSuite) TestFindAccount() {
	opened := s.openAccount("Alice Smith", 100)

	found, err := s.ledger.FindAccount(opened.AccountNumber)
	s.Require().NoError(err)
	s.Equal(opened.AccountNumber, found.AccountNumber)
	s.Equal("Alice Smith", found.HolderName)

	_, err = s.ledger.FindAccount("9999")
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *LedgerSuite) TestListAccountsIncludesClosed() {
	first := s.openAccount("Alice Smith", 0)
	s.openAccount("Bob Jones", 10)

	result, err := s.ledger.CloseAccount(first.AccountNumber)
	s.Require().NoError(err)
	s.Require().True(result.Success)

	accounts, err := s.ledger.ListAccounts()
	s.Require().NoError(err)
	s.Require().Len(accounts, 2)
	s.Equal(models.AccountStatusClosed, accounts[0].Status)
	s.Equal(models.AccountStatusActive, accounts[1].Status)
}

func (s *LedgerSuite) TestDeposit() {
	account := s.openAccount("Alice Smith", 100)

	result, err := s.ledger.Deposit(account.AccountNumber, decimal.NewFromInt(50))
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal("Successfully deposited $50.00", result.Message)
	s.Require().NotNil(result.NewBalance)
	s.True(result.NewBalance.Equal(decimal.NewFromInt(150)))

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Require().Len(transactions, 2)
	s.Equal(models.TransactionTypeDeposit, transactions[1].Type)
	s.True(transactions[1].BalanceAfter.Equal(decimal.NewFromInt(150)))
}

func (s *LedgerSuite) TestDepositUnknownAccount() {
	result, err := s.ledger.Deposit("9999", decimal.NewFromInt(50))
	s.Require().NoError(err)
	s.False(result.Success)
	s.Equal(errs.AccountNotFoundOrInactive, result.Code)
	s.Equal("Account not found or inactive", result.Message)
	s.Nil(result.NewBalance)
}

func (s *LedgerSuite) TestDepositRejectsNonPositiveAmount() {
	account := s.openAccount("Alice Smith", 100)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		result, err := s.ledger.Deposit(account.AccountNumber, amount)
		s.Require().NoError(err)
		s.False(result.Success)
		s.Equal(errs.InvalidInput, result.Code)
	}

	// Balance untouched and nothing recorded beyond the seed deposit
	found, err := s.ledger.FindAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.True(found.Balance.Equal(decimal.NewFromInt(100)))

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Len(transactions, 1)
}

func (s *LedgerSuite) TestWithdraw() {
	account := s.openAccount("Alice Smith", 100)

	result, err := s.ledger.Withdraw(account.AccountNumber, decimal.NewFromInt(40))
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal("Successfully withdrew $40.00", result.Message)
	s.Require().NotNil(result.NewBalance)
	s.True(result.NewBalance.Equal(decimal.NewFromInt(60)))

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Require().Len(transactions, 2)
	s.Equal(models.TransactionTypeWithdrawal, transactions[1].Type)
	s.True(transactions[1].Amount.Equal(decimal.NewFromInt(40)))
	s.True(transactions[1].BalanceAfter.Equal(decimal.NewFromInt(60)))
}

func (s *LedgerSuite) TestWithdrawInsufficientFunds() {
	account := s.openAccount("Alice Smith", 100)

	result, err := s.ledger.Withdraw(account.AccountNumber, decimal.NewFromInt(101))
	s.Require().NoError(err)
	s.False(result.Success)
	s.Equal(errs.InsufficientFunds, result.Code)
	s.Equal("Insufficient funds", result.Message)

	// Rejection leaves balance and history untouched
	found, err := s.ledger.FindAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.True(found.Balance.Equal(decimal.NewFromInt(100)))

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Len(transactions, 1)
}

func (s *LedgerSuite) TestWithdrawExactBalance() {
	account := s.openAccount("Alice Smith", 100)

	result, err := s.ledger.Withdraw(account.AccountNumber, decimal.NewFromInt(100))
	s.Require().NoError(err)
	s.True(result.Success)
	s.True(result.NewBalance.IsZero())
}

func (s *LedgerSuite) TestBalanceConservation() {
	// Final balance equals initial plus accepted deposits minus accepted
	// withdrawals, regardless of rejected operations in between.
	account := s.openAccount("Alice Smith", 200)

	movements := []struct {
		op     string
		amount int64
	}{
		{"deposit", 75},
		{"withdraw", 120},
		{"withdraw", 999}, // rejected
		{"deposit", 30},
		{"withdraw", 185},
		{"withdraw", 1}, // rejected, balance is 0
	}

	expected := decimal.NewFromInt(200)
	recorded := 1 // the seed deposit
	for _, m := range movements {
		amount := decimal.NewFromInt(m.amount)
		if m.op == "deposit" {
			result, err := s.ledger.Deposit(account.AccountNumber, amount)
			s.Require().NoError(err)
			s.Require().True(result.Success)
			expected = expected.Add(amount)
			recorded++
			continue
		}

		result, err := s.ledger.Withdraw(account.AccountNumber, amount)
		s.Require().NoError(err)
		if result.Success {
			expected = expected.Sub(amount)
			recorded++
		}
	}

	found, err := s.ledger.FindAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.True(found.Balance.Equal(expected), "want %s, got %s", expected, found.Balance)

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Len(transactions, recorded)
}

func (s *LedgerSuite) TestCloseAccountDrainsBalance() {
	account := s.openAccount("Alice Smith", 80)

	result, err := s.ledger.CloseAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal("Account closed successfully", result.Message)

	found, err := s.ledger.FindAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Equal(models.AccountStatusClosed, found.Status)
	s.True(found.Balance.IsZero())
	s.NotNil(found.DateClosed)

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Require().Len(transactions, 2)
	final := transactions[1]
	s.Equal(models.TransactionTypeWithdrawal, final.Type)
	s.True(final.Amount.Equal(decimal.NewFromInt(80)))
	s.True(final.BalanceAfter.IsZero())
}

func (s *LedgerSuite) TestCloseAccountZeroBalanceRecordsNothing() {
	account := s.openAccount("Alice Smith", 0)

	result, err := s.ledger.CloseAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.True(result.Success)

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Empty(transactions)
}

func (s *LedgerSuite) TestClosedAccountRejectsEverything() {
	account := s.openAccount("Alice Smith", 50)

	result, err := s.ledger.CloseAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Require().True(result.Success)

	deposit, err := s.ledger.Deposit(account.AccountNumber, decimal.NewFromInt(10))
	s.Require().NoError(err)
	s.False(deposit.Success)
	s.Equal(errs.AccountNotFoundOrInactive, deposit.Code)

	withdraw, err := s.ledger.Withdraw(account.AccountNumber, decimal.NewFromInt(10))
	s.Require().NoError(err)
	s.False(withdraw.Success)
	s.Equal(errs.AccountNotFoundOrInactive, withdraw.Code)

	closeAgain, err := s.ledger.CloseAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.False(closeAgain.Success)
	s.Equal(errs.AccountAlreadyClosed, closeAgain.Code)
}

func (s *LedgerSuite) TestCloseUnknownAccount() {
	result, err := s.ledger.CloseAccount("9999")
	s.Require().NoError(err)
	s.False(result.Success)
	s.Equal(errs.AccountAlreadyClosed, result.Code)
	s.Equal("Account not found or already closed", result.Message)
}

func (s *LedgerSuite) TestHistorySurvivesClosure() {
	account := s.openAccount("Alice Smith", 100)

	_, err := s.ledger.Deposit(account.AccountNumber, decimal.NewFromInt(20))
	s.Require().NoError(err)

	result, err := s.ledger.CloseAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Require().True(result.Success)

	transactions, err := s.ledger.TransactionsForAccount(account.AccountNumber)
	s.Require().NoError(err)
	s.Len(transactions, 3) // seed deposit, deposit, draining withdrawal
}

func (s *LedgerSuite) TestTransactionsForAccountFiltersExactly() {
	first := s.openAccount("Alice Smith", 10)
	second := s.openAccount("Bob Jones", 20)

	firstHistory, err := s.ledger.TransactionsForAccount(first.AccountNumber)
	s.Require().NoError(err)
	s.Require().Len(firstHistory, 1)
	s.True(firstHistory[0].Amount.Equal(decimal.NewFromInt(10)))

	secondHistory, err := s.ledger.TransactionsForAccount(second.AccountNumber)
	s.Require().NoError(err)
	s.Require().Len(secondHistory, 1)
	s.True(secondHistory[0].Amount.Equal(decimal.NewFromInt(20)))

	empty, err := s.ledger.TransactionsForAccount("9999")
	s.Require().NoError(err)
	s.Empty(empty)
}

// TestAliceScenario walks the full lifecycle end to end: open with 100,
// deposit 50, reject a 200 withdrawal, withdraw 150, close with no
// draining transaction.
func (s *LedgerSuite) TestAliceScenario() {
	account, err := s.ledger.OpenAccount("Alice", "Savings", decimal.NewFromInt(100))
	s.Require().NoError(err)
	s.Equal("1000", account.AccountNumber)
	s.True(account.Balance.Equal(decimal.NewFromInt(100)))

	transactions, err := s.ledger.TransactionsForAccount("1000")
	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.Equal(models.TransactionTypeDeposit, transactions[0].Type)
	s.True(transactions[0].Amount.Equal(decimal.NewFromInt(100)))
	s.True(transactions[0].BalanceAfter.Equal(decimal.NewFromInt(100)))

	deposit, err := s.ledger.Deposit("1000", decimal.NewFromInt(50))
	s.Require().NoError(err)
	s.Require().True(deposit.Success)
	s.True(deposit.NewBalance.Equal(decimal.NewFromInt(150)))

	rejected, err := s.ledger.Withdraw("1000", decimal.NewFromInt(200))
	s.Require().NoError(err)
	s.False(rejected.Success)
	s.Equal(errs.InsufficientFunds, rejected.Code)

	found, err := s.ledger.FindAccount("1000")
	s.Require().NoError(err)
	s.True(found.Balance.Equal(decimal.NewFromInt(150)))

	withdraw, err := s.ledger.Withdraw("1000", decimal.NewFromInt(150))
	s.Require().NoError(err)
	s.Require().True(withdraw.Success)
	s.True(withdraw.NewBalance.IsZero())

	closed, err := s.ledger.CloseAccount("1000")
	s.Require().NoError(err)
	s.True(closed.Success)

	transactions, err = s.ledger.TransactionsForAccount("1000")
	s.Require().NoError(err)
	s.Len(transactions, 3) // no draining transaction, the balance was already zero

	found, err = s.ledger.FindAccount("1000")
	s.Require().NoError(err)
	s.Equal(models.AccountStatusClosed, found.Status)
}
