// Command bankledger is the command-line front end of the account ledger.
//
// Commands:
//
//	open       Open a new account
//	deposit    Deposit into an account
//	withdraw   Withdraw from an account
//	close      Close an account
//	show       Show account details
//	history    Show an account's transaction history
//	list       List active accounts
//	seed       Populate the store with demo data
//
// State persists in a local SQLite file (LEDGER_STORE_PATH). All input
// validation and display formatting lives here; the ledger itself only
// enforces the bookkeeping invariants.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/database"
	"bankledger/internal/dto"
	"bankledger/internal/ledger"
	"bankledger/internal/models"
	"bankledger/internal/store"
	"bankledger/internal/validation"

	"github.com/shopspring/decimal"
)

const version = "1.0.0"

type app struct {
	ledger    ledger.LedgerInterface
	validator *validation.Validator
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "version":
		fmt.Printf("bankledger v%s\n", version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg := config.Load()
	logger := cfg.Logger()

	db, err := database.New(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	a := &app{
		ledger: ledger.New(
			store.NewKVStore(db.DB),
			logger,
			ledger.NewPrometheusMetrics(nil),
		),
		validator: validation.NewValidator(),
	}

	var cmdErr error
	switch cmd {
	case "open":
		cmdErr = a.handleOpen(args)
	case "deposit":
		cmdErr = a.handleAmountOp(args, "deposit")
	case "withdraw":
		cmdErr = a.handleAmountOp(args, "withdraw")
	case "close":
		cmdErr = a.handleClose(args)
	case "show":
		cmdErr = a.handleShow(args)
	case "history":
		cmdErr = a.handleHistory(args)
	case "list":
		cmdErr = a.handleList()
	case "seed":
		cmdErr = a.handleSeed(args, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func (a *app) handleOpen(args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	holder := fs.String("holder", "", "account holder name")
	accountType := fs.String("type", "Checking", "account type")
	deposit := fs.String("deposit", "0", "initial deposit amount")
	_ = fs.Parse(args)

	amount, err := parseAmount(*deposit)
	if err != nil {
		return err
	}

	req := dto.OpenAccountRequest{
		HolderName:     *holder,
		AccountType:    *accountType,
		InitialDeposit: amount,
	}
	if err := a.validator.Struct(req); err != nil {
		return inputError(err)
	}

	account, err := a.ledger.OpenAccount(req.HolderName, req.AccountType, req.InitialDeposit)
	if err != nil {
		return err
	}

	fmt.Printf("Account created successfully! Account Number: %s\n", account.AccountNumber)
	printAccount(account)
	return nil
}

func (a *app) handleAmountOp(args []string, operation string) error {
	fs := flag.NewFlagSet(operation, flag.ExitOnError)
	account := fs.String("account", "", "account number")
	amountArg := fs.String("amount", "", "amount")
	_ = fs.Parse(args)

	amount, err := parseAmount(*amountArg)
	if err != nil {
		return err
	}

	req := dto.AmountRequest{AccountNumber: *account, Amount: amount}
	if err := a.validator.Struct(req); err != nil {
		return inputError(err)
	}

	var result ledger.Result
	if operation == "deposit" {
		result, err = a.ledger.Deposit(req.AccountNumber, req.Amount)
	} else {
		result, err = a.ledger.Withdraw(req.AccountNumber, req.Amount)
	}
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	if result.Success && result.NewBalance != nil {
		fmt.Printf("New balance: $%s\n", result.NewBalance.StringFixed(2))
	}
	return nil
}

func (a *app) handleClose(args []string) error {
	fs := flag.NewFlagSet("close", flag.ExitOnError)
	account := fs.String("account", "", "account number")
	_ = fs.Parse(args)

	req := dto.AccountRequest{AccountNumber: *account}
	if err := a.validator.Struct(req); err != nil {
		return inputError(err)
	}

	result, err := a.ledger.CloseAccount(req.AccountNumber)
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	return nil
}

func (a *app) handleShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	account := fs.String("account", "", "account number")
	_ = fs.Parse(args)

	req := dto.AccountRequest{AccountNumber: *account}
	if err := a.validator.Struct(req); err != nil {
		return inputError(err)
	}

	found, err := a.ledger.FindAccount(req.AccountNumber)
	if err != nil {
		return err
	}

	printAccount(found)
	return nil
}

func (a *app) handleHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	account := fs.String("account", "", "account number")
	_ = fs.Parse(args)

	req := dto.AccountRequest{AccountNumber: *account}
	if err := a.validator.Struct(req); err != nil {
		return inputError(err)
	}

	transactions, err := a.ledger.TransactionsForAccount(req.AccountNumber)
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions found.")
		return nil
	}

	fmt.Printf("%-20s  %-10s  %12s  %12s\n", "Date", "Type", "Amount", "Balance")
	for _, transaction := range models.SortNewestFirst(transactions) {
		fmt.Printf("%-20s  %-10s  %12s  %12s\n",
			transaction.Date.Local().Format("2006-01-02 15:04:05"),
			transaction.Type,
			"$"+transaction.Amount.StringFixed(2),
			"$"+transaction.BalanceAfter.StringFixed(2),
		)
	}
	return nil
}

func (a *app) handleList() error {
	accounts, err := a.ledger.ListAccounts()
	if err != nil {
		return err
	}

	active := 0
	for _, account := range accounts {
		if !account.IsActive() {
			continue
		}
		if active == 0 {
			fmt.Printf("%-10s  %-24s  %-14s  %12s\n", "Number", "Holder", "Type", "Balance")
		}
		fmt.Printf("%-10s  %-24s  %-14s  %12s\n",
			account.AccountNumber,
			account.HolderName,
			account.AccountType,
			"$"+account.Balance.StringFixed(2),
		)
		active++
	}

	if active == 0 {
		fmt.Println("No active accounts.")
	}
	return nil
}

func (a *app) handleSeed(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	accounts := fs.Int("accounts", cfg.Seed.Accounts, "number of accounts to create")
	transactions := fs.Int("transactions", cfg.Seed.TransactionsPerAccount, "transactions per account")
	seed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	_ = fs.Parse(args)

	generator := ledger.NewSeedGenerator(a.ledger, *seed)
	opened, err := generator.Seed(*accounts, *transactions)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d accounts:\n", len(opened))
	for _, account := range opened {
		fmt.Printf("  %s  %s (%s)\n", account.AccountNumber, account.HolderName, account.AccountType)
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

func inputError(err error) error {
	messages := validation.FieldMessages(err)
	if len(messages) == 0 {
		return err
	}
	return fmt.Errorf("invalid input: %s", messages[0])
}

func printAccount(account *models.Account) {
	fmt.Printf("Account Number: %s\n", account.AccountNumber)
	fmt.Printf("Account Holder: %s\n", account.HolderName)
	fmt.Printf("Account Type:   %s\n", account.AccountType)
	fmt.Printf("Balance:        $%s\n", account.Balance.StringFixed(2))
	fmt.Printf("Status:         %s\n", account.Status)
	fmt.Printf("Date Created:   %s\n", account.DateCreated.Local().Format("2006-01-02"))
	if account.DateClosed != nil {
		fmt.Printf("Date Closed:    %s\n", account.DateClosed.Local().Format("2006-01-02"))
	}
}

func printUsage() {
	fmt.Println("bankledger v" + version)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bankledger <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  open      -holder NAME -type TYPE -deposit AMOUNT   Open a new account")
	fmt.Println("  deposit   -account NUMBER -amount AMOUNT            Deposit into an account")
	fmt.Println("  withdraw  -account NUMBER -amount AMOUNT            Withdraw from an account")
	fmt.Println("  close     -account NUMBER                           Close an account")
	fmt.Println("  show      -account NUMBER                           Show account details")
	fmt.Println("  history   -account NUMBER                           Show transaction history")
	fmt.Println("  list                                                List active accounts")
	fmt.Println("  seed      [-accounts N] [-transactions N] [-seed N] Populate demo data")
	fmt.Println("  version                                             Print version")
	fmt.Println("  help                                                Show this help")
}
