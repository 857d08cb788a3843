package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/infrastructure/metrics"
)

// CascadeUseCase recomputes the balance chain of employees' cash boxes:
// each box's closing balance is carried forward as the next box's opening
// balance, in ascending box number order.
type CascadeUseCase struct {
	txManager   TransactionManager
	cashBoxRepo CashBoxRepository
	entryRepo   EntryRepository
	advanceRepo AdvanceRepository
	auditRepo   AuditRepository
	locker      EmployeeLocker
	retrier     Retrier
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewCascadeUseCase creates a new CascadeUseCase. auditRepo and metrics may
// be nil.
func NewCascadeUseCase(
	txManager TransactionManager,
	cashBoxRepo CashBoxRepository,
	entryRepo EntryRepository,
	advanceRepo AdvanceRepository,
	auditRepo AuditRepository,
	locker EmployeeLocker,
	retrier Retrier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *CascadeUseCase {
	return &CascadeUseCase{
		txManager:   txManager,
		cashBoxRepo: cashBoxRepo,
		entryRepo:   entryRepo,
		advanceRepo: advanceRepo,
		auditRepo:   auditRepo,
		locker:      locker,
		retrier:     retrier,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// BoxReport describes one cascaded box.
type BoxReport struct {
	BoxID          int64
	BoxNumber      int
	EmployeeID     int64
	OpeningBalance decimal.Decimal
	InflowSum      decimal.Decimal
	OutflowSum     decimal.Decimal
	AdvanceSum     decimal.Decimal
	ClosingBalance decimal.Decimal
}

// EmployeeFailure records a per-employee failure in a bulk recompute.
type EmployeeFailure struct {
	EmployeeID int64
	Reason     string
}

// RecomputeReport is the outcome of one recompute run. Closing balances are
// derived values: they are reported here but never persisted.
type RecomputeReport struct {
	RunID  string
	Boxes  []BoxReport
	Failed []EmployeeFailure
}

// Recompute cascades balances for one employee, or for every employee with
// at least one visible cash box when employeeID is nil. In bulk mode a
// failing employee is reported and skipped; the others still run. Running
// the same recompute twice with no intervening writes changes nothing the
// second time.
func (uc *CascadeUseCase) Recompute(ctx context.Context, employeeID *int64) (*RecomputeReport, error) {
	start := time.Now()
	report := &RecomputeReport{RunID: uc.idGen.Generate()}

	var employees []int64
	if employeeID != nil {
		employees = []int64{*employeeID}
	} else {
		ids, err := uc.cashBoxRepo.ListEmployeeIDs(ctx)
		if err != nil {
			return nil, err
		}

		employees = ids
	}

	for _, id := range employees {
		boxes, err := uc.recomputeEmployee(ctx, id)
		if err != nil {
			if employeeID != nil {
				uc.observe(start, false)
				uc.audit(ctx, report.RunID, id, err)

				return nil, err
			}

			report.Failed = append(report.Failed, EmployeeFailure{
				EmployeeID: id,
				Reason:     err.Error(),
			})

			continue
		}

		report.Boxes = append(report.Boxes, boxes...)
	}

	uc.observe(start, true)
	uc.audit(ctx, report.RunID, 0, nil)

	return report, nil
}

// recomputeEmployee cascades one employee's chain under the employee lock.
func (uc *CascadeUseCase) recomputeEmployee(ctx context.Context, employeeID int64) ([]BoxReport, error) {
	release, err := uc.locker.Acquire(ctx, employeeID, EmployeeLockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeLocked) && uc.metrics != nil {
			uc.metrics.LockContention.Inc()
		}

		return nil, err
	}
	defer func() { _ = release(ctx) }()

	var reports []BoxReport
	err = uc.retrier.Retry(ctx, func() error {
		reports = reports[:0]
		return uc.cascadeOnce(ctx, employeeID, &reports)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BoxesCascaded.Add(float64(len(reports)))
	}

	return reports, nil
}

// cascadeOnce runs one cascade transaction: load boxes FOR UPDATE in box
// number order, sum entries and advances, persist only the opening balances
// that actually changed.
func (uc *CascadeUseCase) cascadeOnce(ctx context.Context, employeeID int64, out *[]BoxReport) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	boxes, err := uc.cashBoxRepo.ListByEmployeeForUpdate(txCtx, tx, employeeID)
	if err != nil {
		return err
	}

	// Zero boxes is not an error: the employee is simply absent from the report.
	if len(boxes) == 0 {
		return nil
	}

	domain.SortBoxesByNumber(boxes)

	boxIDs := make([]int64, len(boxes))
	for i, box := range boxes {
		boxIDs[i] = box.ID
	}

	entries, err := uc.entryRepo.MapByCashBoxes(txCtx, tx, boxIDs)
	if err != nil {
		return err
	}

	advances, err := uc.advanceRepo.MapByCashBoxes(txCtx, tx, boxIDs)
	if err != nil {
		return err
	}

	totals := domain.CascadeChain(boxes, entries, advances)

	now := time.Now().UTC()
	for _, t := range totals {
		if t.OpeningChanged {
			if err := uc.cashBoxRepo.UpdateOpeningBalance(txCtx, tx, t.Box.ID, t.OpeningBalance, now); err != nil {
				return err
			}
		}

		*out = append(*out, BoxReport{
			BoxID:          t.Box.ID,
			BoxNumber:      t.Box.BoxNumber,
			EmployeeID:     t.Box.EmployeeID,
			OpeningBalance: t.OpeningBalance,
			InflowSum:      t.InflowSum,
			OutflowSum:     t.OutflowSum,
			AdvanceSum:     t.AdvanceSum,
			ClosingBalance: t.ClosingBalance,
		})
	}

	return tx.Commit(txCtx)
}

func (uc *CascadeUseCase) observe(start time.Time, success bool) {
	if uc.metrics == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}

	uc.metrics.RecomputesTotal.WithLabelValues(status).Inc()
	uc.metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
}

func (uc *CascadeUseCase) audit(ctx context.Context, runID string, employeeID int64, opErr error) {
	if uc.auditRepo == nil {
		return
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	log := &domain.AuditLog{
		UserID:       userID,
		Action:       string(domain.AuditActionRecompute),
		ResourceType: "employee",
		RunID:        runID,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	if employeeID != 0 {
		log.ResourceID = fmt.Sprintf("%d", employeeID)
	}

	if opErr != nil {
		log.Status = string(domain.AuditStatusFailure)
		log.ErrorMessage = opErr.Error()
	}

	// Best effort: a failed audit write never fails the operation.
	_ = uc.auditRepo.Create(ctx, log)
}
