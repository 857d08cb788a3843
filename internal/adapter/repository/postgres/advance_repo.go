package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// AdvanceRepository implements usecase.AdvanceRepository.
type AdvanceRepository struct {
	pool *pgxpool.Pool
}

// NewAdvanceRepository creates a new AdvanceRepository.
func NewAdvanceRepository(pool *pgxpool.Pool) *AdvanceRepository {
	return &AdvanceRepository{pool: pool}
}

const advanceColumns = `id, owner_id, cash_box_id, advance_date, name, outflow, visible, created_at, updated_at`

// Create inserts a new advance and fills in its generated ID.
func (r *AdvanceRepository) Create(ctx context.Context, advance *domain.Advance) error {
	query := `
		INSERT INTO advances (owner_id, cash_box_id, advance_date, name, outflow, visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		advance.OwnerID,
		advance.CashBoxID,
		timeToPgTimestamptz(advance.Date),
		advance.Name,
		advance.Outflow,
		advance.Visible,
		timeToPgTimestamptz(advance.CreatedAt),
		timeToPgTimestamptz(advance.UpdatedAt),
	).Scan(&advance.ID)
}

// GetByID retrieves a visible advance by ID.
func (r *AdvanceRepository) GetByID(ctx context.Context, id int64) (*domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE id = $1 AND visible`

	advance, err := scanAdvance(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdvanceNotFound
		}

		return nil, err
	}

	return advance, nil
}

// ListByOwner retrieves an owner's visible advances with pagination, newest
// first.
func (r *AdvanceRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Advance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE owner_id = $1 AND visible
		ORDER BY advance_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAdvances(rows)
}

// MapByCashBoxes retrieves the visible advances attached to the given cash
// boxes, grouped by box.
func (r *AdvanceRepository) MapByCashBoxes(ctx context.Context, tx usecase.Transaction, cashBoxIDs []int64) (map[int64][]*domain.Advance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE cash_box_id = ANY($1) AND visible
		ORDER BY advance_date, id
	`

	rows, err := pgxTxOf(tx).Query(ctx, query, cashBoxIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advances, err := collectAdvances(rows)
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]*domain.Advance, len(cashBoxIDs))
	for _, advance := range advances {
		if advance.CashBoxID == nil {
			continue
		}

		result[*advance.CashBoxID] = append(result[*advance.CashBoxID], advance)
	}

	return result, nil
}

// UpdateCashBox rebinds the advance to a cash box; nil detaches it.
func (r *AdvanceRepository) UpdateCashBox(ctx context.Context, id int64, cashBoxID *int64, updatedAt time.Time) error {
	query := `UPDATE advances SET cash_box_id = $2, updated_at = $3 WHERE id = $1 AND visible`

	tag, err := r.pool.Exec(ctx, query, id, cashBoxID, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAdvanceNotFound
	}

	return nil
}

// Delete hard-deletes an advance.
func (r *AdvanceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM advances WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAdvanceNotFound
	}

	return nil
}

// CountByCashBox counts the visible advances attached to a cash box.
func (r *AdvanceRepository) CountByCashBox(ctx context.Context, cashBoxID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM advances WHERE cash_box_id = $1 AND visible`, cashBoxID).Scan(&count)

	return count, err
}

func scanAdvance(row rowScanner) (*domain.Advance, error) {
	var (
		advance   domain.Advance
		date      pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&advance.ID,
		&advance.OwnerID,
		&advance.CashBoxID,
		&date,
		&advance.Name,
		&advance.Outflow,
		&advance.Visible,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	advance.Date = date.Time
	advance.CreatedAt = createdAt.Time
	advance.UpdatedAt = updatedAt.Time

	return &advance, nil
}

func collectAdvances(rows pgx.Rows) ([]*domain.Advance, error) {
	var advances []*domain.Advance
	for rows.Next() {
		advance, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}

		advances = append(advances, advance)
	}

	return advances, rows.Err()
}
