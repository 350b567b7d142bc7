package store

import "bankledger/internal/models"

// Store defines the contract for whole-collection snapshot persistence.
// Every read returns the full collection and every write replaces it;
// there are no partial updates. Absence of persisted data is not an
// error, it is an empty collection.
type Store interface {
	LoadAccounts() ([]models.Account, error)
	SaveAccounts(accounts []models.Account) error
	LoadTransactions() ([]models.Transaction, error)
	SaveTransactions(transactions []models.Transaction) error

	// NextAccountNumber issues the next sequential account number,
	// persisting the counter before returning. Numbers start at 1000
	// and are never reused, including across restarts.
	NextAccountNumber() (int, error)
}
