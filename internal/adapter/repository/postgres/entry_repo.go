package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Amounts are stored as
// the raw submitted text; parsing happens in the domain at sum time.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, cash_box_id, entry_date, description, document, inflow, outflow, visible, created_at`

// Create inserts a new ledger entry and fills in its generated ID.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (cash_box_id, entry_date, description, document, inflow, outflow, visible, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	return pgxTxOf(tx).QueryRow(ctx, query,
		entry.CashBoxID,
		timeToPgTimestamptz(entry.Date),
		entry.Description,
		entry.Document,
		entry.Inflow,
		entry.Outflow,
		entry.Visible,
		timeToPgTimestamptz(entry.CreatedAt),
	).Scan(&entry.ID)
}

// ListByCashBox retrieves the visible entries of a cash box in date order.
func (r *EntryRepository) ListByCashBox(ctx context.Context, cashBoxID int64) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE cash_box_id = $1 AND visible
		ORDER BY entry_date, id
	`

	rows, err := r.pool.Query(ctx, query, cashBoxID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// MapByCashBoxes retrieves the visible entries of the given cash boxes in one
// round trip, grouped by box.
func (r *EntryRepository) MapByCashBoxes(ctx context.Context, tx usecase.Transaction, cashBoxIDs []int64) (map[int64][]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE cash_box_id = ANY($1) AND visible
		ORDER BY entry_date, id
	`

	rows, err := pgxTxOf(tx).Query(ctx, query, cashBoxIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]*domain.LedgerEntry, len(cashBoxIDs))
	for _, entry := range entries {
		result[entry.CashBoxID] = append(result[entry.CashBoxID], entry)
	}

	return result, nil
}

// ListIDsByCashBox retrieves the IDs of a cash box's visible entries.
func (r *EntryRepository) ListIDsByCashBox(ctx context.Context, tx usecase.Transaction, cashBoxID int64) ([]int64, error) {
	query := `SELECT id FROM ledger_entries WHERE cash_box_id = $1 AND visible ORDER BY id`

	rows, err := pgxTxOf(tx).Query(ctx, query, cashBoxID)
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

// DeleteByIDs hard-deletes the given entries and reports how many existed.
func (r *EntryRepository) DeleteByIDs(ctx context.Context, tx usecase.Transaction, ids []int64) (int64, error) {
	tag, err := pgxTxOf(tx).Exec(ctx, `DELETE FROM ledger_entries WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteByCashBox hard-deletes every entry of a cash box.
func (r *EntryRepository) DeleteByCashBox(ctx context.Context, tx usecase.Transaction, cashBoxID int64) (int64, error) {
	tag, err := pgxTxOf(tx).Exec(ctx, `DELETE FROM ledger_entries WHERE cash_box_id = $1`, cashBoxID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// CountByCashBox counts the visible entries of a cash box.
func (r *EntryRepository) CountByCashBox(ctx context.Context, cashBoxID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE cash_box_id = $1 AND visible`, cashBoxID).Scan(&count)

	return count, err
}

func collectEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		var (
			entry     domain.LedgerEntry
			date      pgtype.Timestamptz
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.CashBoxID,
			&date,
			&entry.Description,
			&entry.Document,
			&entry.Inflow,
			&entry.Outflow,
			&entry.Visible,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Date = date.Time
		entry.CreatedAt = createdAt.Time
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
