package ledger

import (
	"fmt"

	"bankledger/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

var seedAccountTypes = []string{"Checking", "Savings", "Money Market"}

// SeedGenerator populates a ledger with demo accounts and a plausible
// deposit/withdrawal history. All writes go through the real ledger
// operations, so seeded state honors every invariant the ledger enforces.
type SeedGenerator struct {
	ledger LedgerInterface
	faker  *gofakeit.Faker
}

// NewSeedGenerator creates a seed generator; the seed makes runs reproducible
func NewSeedGenerator(l LedgerInterface, seed uint64) *SeedGenerator {
	return &SeedGenerator{
		ledger: l,
		faker:  gofakeit.New(seed),
	}
}

// Seed opens the requested number of accounts, each with an initial
// deposit and a history of random movements, and returns the accounts
// as they stood at opening time.
func (g *SeedGenerator) Seed(accounts, transactionsPerAccount int) ([]models.Account, error) {
	opened := make([]models.Account, 0, accounts)

	for i := 0; i < accounts; i++ {
		initial := priceAmount(g.faker, 100, 5000)

		account, err := g.ledger.OpenAccount(g.faker.Name(), g.faker.RandomString(seedAccountTypes), initial)
		if err != nil {
			return opened, fmt.Errorf("failed to open seed account: %w", err)
		}
		opened = append(opened, *account)

		if err := g.seedHistory(account.AccountNumber, transactionsPerAccount); err != nil {
			return opened, err
		}
	}

	return opened, nil
}

func (g *SeedGenerator) seedHistory(accountNumber string, count int) error {
	for i := 0; i < count; i++ {
		amount := priceAmount(g.faker, 10, 500)

		if g.faker.Number(0, 9) < 6 {
			if _, err := g.ledger.Deposit(accountNumber, amount); err != nil {
				return fmt.Errorf("failed to seed deposit: %w", err)
			}
			continue
		}

		// Withdrawals past the balance come back as a rejected Result,
		// which is fine for seeding: the history simply gets one fewer entry.
		if _, err := g.ledger.Withdraw(accountNumber, amount); err != nil {
			return fmt.Errorf("failed to seed withdrawal: %w", err)
		}
	}

	return nil
}

func priceAmount(faker *gofakeit.Faker, min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(faker.Price(min, max)).Round(2)
}
