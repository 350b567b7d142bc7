package ledger

import (
	errs "bankledger/internal/errors"

	"github.com/shopspring/decimal"
)

// Result is the outcome of a deposit, withdraw or close operation.
// NewBalance is present only after a successful deposit or withdrawal.
type Result struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Code       errs.ErrorCode   `json:"code,omitempty"`
	NewBalance *decimal.Decimal `json:"newBalance,omitempty"`
}

func failure(code errs.ErrorCode) Result {
	return Result{
		Message: errs.GetErrorMessage(code),
		Code:    code,
	}
}

func success(message string) Result {
	return Result{
		Success: true,
		Message: message,
	}
}

func successWithBalance(message string, newBalance decimal.Decimal) Result {
	result := success(message)
	result.NewBalance = &newBalance
	return result
}
