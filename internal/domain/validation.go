package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrInvalidAccountCode = fmt.Errorf("%w: invalid account code", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
)

// Validation constants
const (
	MaxAccountNameLength   = 255
	MinAccountNameLength   = 1
	MaxCorrelationIDLength = 128
	MaxPostingAmount       = "1000000000000" // 1 trillion
	CurrencyPlaces         = 2
)

var accountCodeRegex = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z._-]{0,31}$`)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAccountCode validates a chart-of-accounts code such as "2000".
func ValidateAccountCode(code string) error {
	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountCode, code)
	}
	return nil
}

// ValidateAmount checks that amount is positive, bounded and has at most 2 decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(CurrencyPlaces)) {
		return fmt.Errorf("%w: %s", ErrAmountPrecision, amount.String())
	}

	maxAmount := decimal.RequireFromString(MaxPostingAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxPostingAmount)
	}

	return nil
}

// ValidateCorrelationID validates the idempotency key of a posting.
func ValidateCorrelationID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidCorrelationID)
	}

	if len(id) > MaxCorrelationIDLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidCorrelationID, MaxCorrelationIDLength)
	}

	return nil
}

// ValidateDateRange checks that from is not after to.
func ValidateDateRange(from, to time.Time) error {
	if from.After(to) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
