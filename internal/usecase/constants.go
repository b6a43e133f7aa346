package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one attempt at a posting transaction.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long a replayable HTTP response is kept.
	IdempotencyKeyTTL = 24 * time.Hour

	// ReconciliationLockKey guards wallet reconciliation runs.
	ReconciliationLockKey = "walletledger:lock:wallet-reconciliation"

	// ReconciliationLockTTL bounds how long a crashed run can block the next one.
	ReconciliationLockTTL = 15 * time.Minute
)
