package dto

import "github.com/shopspring/decimal"

// OpenAccountRequest carries the inputs of the open-account operation.
// Holder name and account type are free text; only presence is enforced.
type OpenAccountRequest struct {
	HolderName     string          `json:"holderName" validate:"required"`
	AccountType    string          `json:"accountType" validate:"required"`
	InitialDeposit decimal.Decimal `json:"initialDeposit" validate:"zero_or_positive_amount"`
}

// AmountRequest carries the inputs of the deposit and withdraw operations
type AmountRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required,account_number"`
	Amount        decimal.Decimal `json:"amount" validate:"positive_amount"`
}

// AccountRequest identifies an account for lookup, history and close operations
type AccountRequest struct {
	AccountNumber string `json:"accountNumber" validate:"required,account_number"`
}
