package domain

import "errors"

var (
	// Cash box errors
	ErrCashBoxNotFound = errors.New("cash box not found")
	ErrBoxNumberTaken  = errors.New("box number already used for this employee")
	ErrCashBoxNotEmpty = errors.New("cash box still owns entries or advances")

	// Ledger entry errors
	ErrEntryNotFound = errors.New("ledger entry not found")

	// Advance errors
	ErrAdvanceNotFound = errors.New("advance not found")
	ErrAdvanceAttached = errors.New("advance is attached to a cash box; detach it first")

	// Reconciliation errors
	ErrInvalidMode = errors.New("mode must be \"merge\" or \"replace\"")

	// Locking errors
	ErrEmployeeLocked = errors.New("employee ledger is locked by another operation")
)
