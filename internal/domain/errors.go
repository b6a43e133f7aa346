package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors wrap one of these so callers can branch with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("configuration error")
)

var (
	// Account errors
	ErrAccountNotFound      = fmt.Errorf("%w: account not found", ErrNotFound)
	ErrAccountInactive      = fmt.Errorf("%w: account is inactive", ErrValidation)
	ErrDuplicateAccountCode = fmt.Errorf("%w: account code already exists", ErrConflict)
	ErrInvalidAccountType   = fmt.Errorf("%w: invalid account type", ErrValidation)

	// Journal errors
	ErrEntryNotFound          = fmt.Errorf("%w: journal entry not found", ErrNotFound)
	ErrDuplicateCorrelationID = fmt.Errorf("%w: correlation id already posted", ErrConflict)
	ErrNoLines                = fmt.Errorf("%w: journal entry has no lines", ErrValidation)
	ErrUnbalancedEntry        = fmt.Errorf("%w: debits do not equal credits", ErrValidation)
	ErrInvalidLine            = fmt.Errorf("%w: line must have exactly one positive side", ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrAmountPrecision        = fmt.Errorf("%w: amount has more than 2 decimal places", ErrValidation)
	ErrInvalidCorrelationID   = fmt.Errorf("%w: invalid correlation id", ErrValidation)
	ErrInvalidDateRange       = fmt.Errorf("%w: from must not be after to", ErrValidation)
	ErrUnknownAccount         = fmt.Errorf("%w: line references unknown account", ErrValidation)

	// Charge errors
	ErrNoChargeRule      = fmt.Errorf("%w: no charge rule matches", ErrConfiguration)
	ErrInvalidChargeRule = fmt.Errorf("%w: invalid charge rule", ErrConfiguration)

	// Report errors
	ErrRendererUnavailable = fmt.Errorf("%w: statement renderer not configured", ErrConfiguration)

	// Reconciliation errors
	ErrReconciliationRunning  = fmt.Errorf("%w: wallet reconciliation already running", ErrConflict)
	ErrUnknownTransactionType = fmt.Errorf("%w: unknown wallet transaction type", ErrValidation)
)
