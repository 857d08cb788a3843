package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// CashBoxRepository implements usecase.CashBoxRepository.
type CashBoxRepository struct {
	pool *pgxpool.Pool
}

// NewCashBoxRepository creates a new CashBoxRepository.
func NewCashBoxRepository(pool *pgxpool.Pool) *CashBoxRepository {
	return &CashBoxRepository{pool: pool}
}

const cashBoxColumns = `id, employee_id, box_number, opening_balance, business_date, visible, created_at, updated_at`

// Create inserts a new cash box and fills in its generated ID.
func (r *CashBoxRepository) Create(ctx context.Context, box *domain.CashBox) error {
	query := `
		INSERT INTO cash_boxes (employee_id, box_number, opening_balance, business_date, visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		box.EmployeeID,
		box.BoxNumber,
		decimalToNumeric(box.OpeningBalance),
		timeToPgTimestamptz(box.BusinessDate),
		box.Visible,
		timeToPgTimestamptz(box.CreatedAt),
		timeToPgTimestamptz(box.UpdatedAt),
	).Scan(&box.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrBoxNumberTaken
	}

	return err
}

// GetByID retrieves a visible cash box by ID.
func (r *CashBoxRepository) GetByID(ctx context.Context, id int64) (*domain.CashBox, error) {
	query := `SELECT ` + cashBoxColumns + ` FROM cash_boxes WHERE id = $1 AND visible`

	box, err := scanCashBox(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCashBoxNotFound
		}

		return nil, err
	}

	return box, nil
}

// ListByEmployee retrieves an employee's visible cash boxes in box number order.
func (r *CashBoxRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.CashBox, error) {
	query := `
		SELECT ` + cashBoxColumns + `
		FROM cash_boxes
		WHERE employee_id = $1 AND visible
		ORDER BY box_number, id
	`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCashBoxes(rows)
}

// ListByEmployeeForUpdate retrieves an employee's visible cash boxes with
// FOR UPDATE locks, in box number order.
func (r *CashBoxRepository) ListByEmployeeForUpdate(ctx context.Context, tx usecase.Transaction, employeeID int64) ([]*domain.CashBox, error) {
	query := `
		SELECT ` + cashBoxColumns + `
		FROM cash_boxes
		WHERE employee_id = $1 AND visible
		ORDER BY box_number, id
		FOR UPDATE
	`

	rows, err := pgxTxOf(tx).Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCashBoxes(rows)
}

// ListEmployeeIDs retrieves the IDs of every employee with at least one
// visible cash box.
func (r *CashBoxRepository) ListEmployeeIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT DISTINCT employee_id FROM cash_boxes WHERE visible ORDER BY employee_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// NextBoxNumber returns the next free box number in the employee's sequence.
func (r *CashBoxRepository) NextBoxNumber(ctx context.Context, employeeID int64) (int, error) {
	query := `SELECT COALESCE(MAX(box_number), 0) + 1 FROM cash_boxes WHERE employee_id = $1 AND visible`

	var next int
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(&next); err != nil {
		return 0, err
	}

	return next, nil
}

// UpdateOpeningBalance updates the opening balance of a cash box.
func (r *CashBoxRepository) UpdateOpeningBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE cash_boxes SET opening_balance = $2, updated_at = $3 WHERE id = $1`

	_, err := pgxTxOf(tx).Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// Hide soft-deletes a cash box.
func (r *CashBoxRepository) Hide(ctx context.Context, id int64, updatedAt time.Time) error {
	query := `UPDATE cash_boxes SET visible = FALSE, updated_at = $2 WHERE id = $1 AND visible`

	tag, err := r.pool.Exec(ctx, query, id, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCashBoxNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCashBox(row rowScanner) (*domain.CashBox, error) {
	var (
		box          domain.CashBox
		opening      pgtype.Numeric
		businessDate pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&box.ID,
		&box.EmployeeID,
		&box.BoxNumber,
		&opening,
		&businessDate,
		&box.Visible,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	box.OpeningBalance = numericToDecimal(opening)
	box.BusinessDate = businessDate.Time
	box.CreatedAt = createdAt.Time
	box.UpdatedAt = updatedAt.Time

	return &box, nil
}

func collectCashBoxes(rows pgx.Rows) ([]*domain.CashBox, error) {
	var boxes []*domain.CashBox
	for rows.Next() {
		box, err := scanCashBox(rows)
		if err != nil {
			return nil, err
		}

		boxes = append(boxes, box)
	}

	return boxes, rows.Err()
}
