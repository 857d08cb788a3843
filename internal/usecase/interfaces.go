package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/domain"
)

// CashBoxRepository defines data access for cash boxes.
type CashBoxRepository interface {
	Create(ctx context.Context, box *domain.CashBox) error
	GetByID(ctx context.Context, id int64) (*domain.CashBox, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.CashBox, error)
	ListByEmployeeForUpdate(ctx context.Context, tx Transaction, employeeID int64) ([]*domain.CashBox, error)
	ListEmployeeIDs(ctx context.Context) ([]int64, error)
	NextBoxNumber(ctx context.Context, employeeID int64) (int, error)
	UpdateOpeningBalance(ctx context.Context, tx Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error
	Hide(ctx context.Context, id int64, updatedAt time.Time) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	// Create persists the entry and fills in its generated ID.
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByCashBox(ctx context.Context, cashBoxID int64) ([]*domain.LedgerEntry, error)
	MapByCashBoxes(ctx context.Context, tx Transaction, cashBoxIDs []int64) (map[int64][]*domain.LedgerEntry, error)
	ListIDsByCashBox(ctx context.Context, tx Transaction, cashBoxID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, tx Transaction, ids []int64) (int64, error)
	DeleteByCashBox(ctx context.Context, tx Transaction, cashBoxID int64) (int64, error)
	CountByCashBox(ctx context.Context, cashBoxID int64) (int64, error)
}

// AdvanceRepository defines data access for advances.
type AdvanceRepository interface {
	// Create persists the advance and fills in its generated ID.
	Create(ctx context.Context, advance *domain.Advance) error
	GetByID(ctx context.Context, id int64) (*domain.Advance, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Advance, error)
	MapByCashBoxes(ctx context.Context, tx Transaction, cashBoxIDs []int64) (map[int64][]*domain.Advance, error)
	UpdateCashBox(ctx context.Context, id int64, cashBoxID *int64, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	CountByCashBox(ctx context.Context, cashBoxID int64) (int64, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique run IDs.
type IDGenerator interface {
	Generate() string
}

// EmployeeLocker serializes read-then-write operations over one employee's
// box chain. Concurrent cascades or reconciliations for the same employee
// would otherwise race each other.
type EmployeeLocker interface {
	// Acquire takes the employee-scoped exclusive lock and returns a release
	// func. Returns domain.ErrEmployeeLocked while another holder is active.
	Acquire(ctx context.Context, employeeID int64, ttl time.Duration) (func(context.Context) error, error)
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
