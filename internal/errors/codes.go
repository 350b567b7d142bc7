package errors

// ErrorCode represents a standardized error code returned by ledger operations
type ErrorCode string

// Ledger error codes form a closed set: every failed operation maps to
// exactly one of these, and the caller can retry with corrected input.
const (
	AccountNotFoundOrInactive ErrorCode = "ACCOUNT_NOT_FOUND_OR_INACTIVE"
	InsufficientFunds         ErrorCode = "INSUFFICIENT_FUNDS"
	AccountAlreadyClosed      ErrorCode = "ACCOUNT_ALREADY_CLOSED"
	InvalidInput              ErrorCode = "INVALID_INPUT"
	StorageError              ErrorCode = "STORAGE_ERROR"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	AccountNotFoundOrInactive: "Account not found or inactive",
	InsufficientFunds:         "Insufficient funds",
	AccountAlreadyClosed:      "Account not found or already closed",
	InvalidInput:              "Please enter a valid amount greater than zero",
	StorageError:              "Storage operation failed",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
