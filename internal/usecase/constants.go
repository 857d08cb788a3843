package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from blocking tables.
	DefaultTransactionTimeout = 10 * time.Second

	// EmployeeLockTTL bounds how long an employee-scoped lock can be held so
	// a crashed holder cannot wedge the employee's ledger forever.
	EmployeeLockTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
