package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var accountNumberPattern = regexp.MustCompile(`^\d{4,12}$`)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the ledger's custom rules
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("account_number", validateAccountNumber)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("zero_or_positive_amount", validateZeroOrPositiveAmount)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a request struct against its validate tags
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// FieldMessages flattens a validation error into per-field messages
// suitable for display. Non-validation errors produce a single generic entry.
func FieldMessages(err error) []string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"invalid input"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fieldErr.Field()+" is required")
		case "account_number":
			messages = append(messages, fieldErr.Field()+" must be a numeric account number")
		case "positive_amount":
			messages = append(messages, fieldErr.Field()+" must be greater than zero")
		case "zero_or_positive_amount":
			messages = append(messages, fieldErr.Field()+" must not be negative")
		default:
			messages = append(messages, fieldErr.Field()+" is invalid")
		}
	}
	return messages
}

// Custom validation functions

// validateAccountNumber validates that an account number is all digits.
// Issued numbers start at 1000, so anything shorter than 4 digits is
// rejected outright.
func validateAccountNumber(fl validator.FieldLevel) bool {
	return accountNumberPattern.MatchString(fl.Field().String())
}

// validatePositiveAmount validates that an amount is strictly greater than zero
func validatePositiveAmount(fl validator.FieldLevel) bool {
	amount, ok := amountValue(fl)
	return ok && amount.GreaterThan(decimal.Zero)
}

// validateZeroOrPositiveAmount validates that an amount is zero or greater
func validateZeroOrPositiveAmount(fl validator.FieldLevel) bool {
	amount, ok := amountValue(fl)
	return ok && amount.GreaterThanOrEqual(decimal.Zero)
}

func amountValue(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch field := fl.Field(); field.Kind() {
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(field.Float()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(field.Int()), true
	default:
		if amount, ok := field.Interface().(decimal.Decimal); ok {
			return amount, true
		}
		return decimal.Zero, false
	}
}
