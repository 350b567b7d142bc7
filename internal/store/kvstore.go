package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"bankledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Logical keys of the persisted state. Each key holds one snapshot value.
const (
	KeyAccounts          = "bankAccounts"
	KeyTransactions      = "bankTransactions"
	KeyLastAccountNumber = "lastAccountNumber"
)

// lastNumberDefault is the value the counter takes when nothing has been
// issued yet, so the first account number is 1000.
const lastNumberDefault = 999

// Entry is a single key/value row of the persisted ledger state.
// bankAccounts and bankTransactions hold JSON arrays; lastAccountNumber
// holds the decimal string of the last-issued account number.
type Entry struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value string `gorm:"type:text;not null"`
}

// TableName returns the table name for Entry
func (Entry) TableName() string {
	return "ledger_state"
}

// kvStore implements Store on top of a key/value table
type kvStore struct {
	db *gorm.DB
	mu sync.Mutex // For account number issuance
}

// NewKVStore creates a key/value backed snapshot store
func NewKVStore(db *gorm.DB) Store {
	return &kvStore{db: db}
}

// LoadAccounts returns the full persisted account collection
func (s *kvStore) LoadAccounts() ([]models.Account, error) {
	accounts := []models.Account{}
	if err := s.loadJSON(KeyAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccounts overwrites the persisted account collection
func (s *kvStore) SaveAccounts(accounts []models.Account) error {
	return s.saveJSON(KeyAccounts, accounts)
}

// LoadTransactions returns the full persisted transaction collection
func (s *kvStore) LoadTransactions() ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	if err := s.loadJSON(KeyTransactions, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// SaveTransactions overwrites the persisted transaction collection
func (s *kvStore) SaveTransactions(transactions []models.Transaction) error {
	return s.saveJSON(KeyTransactions, transactions)
}

// NextAccountNumber reads the last-issued number, increments it,
// persists the new value and returns it. The read and write happen in
// one database transaction under a mutex, so no two callers can observe
// the same number.
func (s *kvStore) NextAccountNumber() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		last := lastNumberDefault

		var entry Entry
		if err := tx.Where("key = ?", KeyLastAccountNumber).First(&entry).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to read account number counter: %w", err)
			}
		} else {
			parsed, err := strconv.Atoi(entry.Value)
			if err != nil {
				return fmt.Errorf("corrupt account number counter %q: %w", entry.Value, err)
			}
			last = parsed
		}

		next = last + 1
		return upsert(tx, KeyLastAccountNumber, strconv.Itoa(next))
	})
	if err != nil {
		return 0, err
	}

	return next, nil
}

func (s *kvStore) loadJSON(key string, out any) error {
	var entry Entry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		// No snapshot yet: the caller gets an empty collection
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		return fmt.Errorf("failed to decode %s snapshot: %w", key, err)
	}

	return nil
}

func (s *kvStore) saveJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", key, err)
	}

	if err := upsert(s.db, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}

// upsert replaces the value for a key in a single statement, so a
// partially written snapshot is never observable.
func upsert(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Entry{Key: key, Value: value}).Error
}
