package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/infrastructure/metrics"
)

// Mode selects how a submitted transaction list is applied to a cash box.
type Mode string

const (
	// ModeMerge reconciles by entry identity: kept ids survive, missing ids
	// are deleted, id-less rows become new entries.
	ModeMerge Mode = "merge"

	// ModeReplace wipes the box's entries and recreates them from the
	// submission, ignoring any ids it carries.
	ModeReplace Mode = "replace"
)

// ParseMode maps a request string onto a Mode. Empty means merge.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", domain.ErrInvalidMode
	}
}

// RowInput is one client-submitted transaction row. A nil ID marks a new
// row; a non-nil ID claims an existing entry.
type RowInput struct {
	ID          *int64
	Date        string
	Description string
	Document    string
	Inflow      string
	Outflow     string
}

// SkippedRow reports a row that was dropped instead of applied.
type SkippedRow struct {
	Index  int
	Reason string
}

// ReconcileReport is the outcome of one reconciliation.
type ReconcileReport struct {
	RunID        string
	Created      []*domain.LedgerEntry
	DeletedCount int
	Skipped      []SkippedRow
}

// ReconcileUseCase merges a client-submitted transaction list against the
// entries stored for a cash box without duplicating or orphaning rows.
// It never recomputes balances; callers trigger the cascade afterwards.
type ReconcileUseCase struct {
	txManager   TransactionManager
	cashBoxRepo CashBoxRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	locker      EmployeeLocker
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewReconcileUseCase creates a new ReconcileUseCase. auditRepo and metrics
// may be nil.
func NewReconcileUseCase(
	txManager TransactionManager,
	cashBoxRepo CashBoxRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	locker EmployeeLocker,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		txManager:   txManager,
		cashBoxRepo: cashBoxRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		locker:      locker,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// Reconcile applies the submitted rows to the cash box under the owning
// employee's lock. Invalid rows are skipped and reported, never fatal.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, cashBoxID int64, rows []RowInput, mode Mode) (*ReconcileReport, error) {
	if mode != ModeMerge && mode != ModeReplace {
		return nil, domain.ErrInvalidMode
	}

	box, err := uc.cashBoxRepo.GetByID(ctx, cashBoxID)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, box.EmployeeID, EmployeeLockTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = release(ctx) }()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	report := &ReconcileReport{RunID: uc.idGen.Generate()}

	switch mode {
	case ModeReplace:
		err = uc.replace(txCtx, tx, box, rows, report)
	case ModeMerge:
		err = uc.merge(txCtx, tx, box, rows, report)
	}

	if err != nil {
		uc.audit(ctx, report.RunID, cashBoxID, err)
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Add(float64(len(report.Created)))
		uc.metrics.EntriesDeleted.Add(float64(report.DeletedCount))
		uc.metrics.RowsSkipped.Add(float64(len(report.Skipped)))
	}

	uc.audit(ctx, report.RunID, cashBoxID, nil)

	return report, nil
}

// replace deletes every stored entry and recreates the box's ledger from
// the valid submitted rows. Submitted ids are ignored.
func (uc *ReconcileUseCase) replace(ctx context.Context, tx Transaction, box *domain.CashBox, rows []RowInput, report *ReconcileReport) error {
	deleted, err := uc.entryRepo.DeleteByCashBox(ctx, tx, box.ID)
	if err != nil {
		return err
	}

	report.DeletedCount = int(deleted)

	now := time.Now().UTC()
	for i, row := range rows {
		entry, reason := buildEntry(box.ID, row, now)
		if reason != "" {
			report.Skipped = append(report.Skipped, SkippedRow{Index: i, Reason: reason})
			continue
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		report.Created = append(report.Created, entry)
	}

	return nil
}

// merge deletes the stored ids missing from the submission and creates the
// id-less rows. Rows that keep an existing id are left untouched; editing a
// kept row in place is deliberately not supported.
func (uc *ReconcileUseCase) merge(ctx context.Context, tx Transaction, box *domain.CashBox, rows []RowInput, report *ReconcileReport) error {
	existingIDs, err := uc.entryRepo.ListIDsByCashBox(ctx, tx, box.ID)
	if err != nil {
		return err
	}

	existing := make(map[int64]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	kept := make(map[int64]bool)
	for _, row := range rows {
		if row.ID != nil {
			kept[*row.ID] = true
		}
	}

	var toDelete []int64
	for _, id := range existingIDs {
		if !kept[id] {
			toDelete = append(toDelete, id)
		}
	}

	if len(toDelete) > 0 {
		deleted, err := uc.entryRepo.DeleteByIDs(ctx, tx, toDelete)
		if err != nil {
			return err
		}

		report.DeletedCount = int(deleted)
	}

	now := time.Now().UTC()
	for i, row := range rows {
		if row.ID != nil {
			if !existing[*row.ID] {
				report.Skipped = append(report.Skipped, SkippedRow{
					Index:  i,
					Reason: fmt.Sprintf("unknown entry id %d", *row.ID),
				})
			}

			continue
		}

		entry, reason := buildEntry(box.ID, row, now)
		if reason != "" {
			report.Skipped = append(report.Skipped, SkippedRow{Index: i, Reason: reason})
			continue
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		report.Created = append(report.Created, entry)
	}

	return nil
}

// buildEntry validates one submitted row. A row needs at least one amount
// that parses; a missing or unparseable date falls back to now by policy.
// The raw amount text is stored as submitted.
func buildEntry(cashBoxID int64, row RowInput, now time.Time) (*domain.LedgerEntry, string) {
	_, inflowOK := domain.ParseAmount(row.Inflow)
	_, outflowOK := domain.ParseAmount(row.Outflow)

	if !inflowOK && !outflowOK {
		return nil, "no parseable amount"
	}

	date := now
	if domain.HasValue(row.Date) {
		if parsed, ok := parseRowDate(row.Date); ok {
			date = parsed
		}
	}

	return &domain.LedgerEntry{
		CashBoxID:   cashBoxID,
		Date:        date,
		Description: strings.TrimSpace(row.Description),
		Document:    strings.TrimSpace(row.Document),
		Inflow:      row.Inflow,
		Outflow:     row.Outflow,
		Visible:     true,
		CreatedAt:   now,
	}, ""
}

var rowDateLayouts = []string{time.RFC3339, "2006-01-02", "02.01.2006"}

func parseRowDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range rowDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func (uc *ReconcileUseCase) audit(ctx context.Context, runID string, cashBoxID int64, opErr error) {
	if uc.auditRepo == nil {
		return
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	log := &domain.AuditLog{
		UserID:       userID,
		Action:       string(domain.AuditActionReconcile),
		ResourceType: "cashbox",
		ResourceID:   fmt.Sprintf("%d", cashBoxID),
		RunID:        runID,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	if opErr != nil {
		log.Status = string(domain.AuditStatusFailure)
		log.ErrorMessage = opErr.Error()
	}

	_ = uc.auditRepo.Create(ctx, log)
}
