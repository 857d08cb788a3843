package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
	"github.com/traveldesk/cashbox/internal/usecase/mocks"
)

type cascadeFixture struct {
	uc          *usecase.CascadeUseCase
	cashBoxRepo *mocks.MockCashBoxRepository
	entryRepo   *mocks.MockEntryRepository
	advanceRepo *mocks.MockAdvanceRepository
	auditRepo   *mocks.MockAuditRepository
	locker      *mocks.MockEmployeeLocker
}

func newCascadeFixture() *cascadeFixture {
	f := &cascadeFixture{
		cashBoxRepo: mocks.NewMockCashBoxRepository(),
		entryRepo:   mocks.NewMockEntryRepository(),
		advanceRepo: mocks.NewMockAdvanceRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		locker:      mocks.NewMockEmployeeLocker(),
	}

	f.uc = usecase.NewCascadeUseCase(
		mocks.NewMockTransactionManager(),
		f.cashBoxRepo,
		f.entryRepo,
		f.advanceRepo,
		f.auditRepo,
		f.locker,
		mocks.NewMockRetrier(),
		mocks.NewMockIDGenerator(),
		nil,
	)

	return f
}

func (f *cascadeFixture) seedBox(employeeID int64, number int, opening string) *domain.CashBox {
	box := &domain.CashBox{
		EmployeeID:     employeeID,
		BoxNumber:      number,
		OpeningBalance: decimal.RequireFromString(opening),
		BusinessDate:   time.Now().UTC(),
		Visible:        true,
	}
	if err := f.cashBoxRepo.Create(context.Background(), box); err != nil {
		panic(err)
	}

	return box
}

func (f *cascadeFixture) seedEntry(boxID int64, inflow, outflow string) {
	f.entryRepo.Seed(&domain.LedgerEntry{
		CashBoxID: boxID,
		Date:      time.Now().UTC(),
		Inflow:    inflow,
		Outflow:   outflow,
		Visible:   true,
	})
}

func (f *cascadeFixture) seedAdvance(boxID int64, outflow string) {
	_ = f.advanceRepo.Create(context.Background(), &domain.Advance{
		OwnerID:   1,
		CashBoxID: &boxID,
		Date:      time.Now().UTC(),
		Name:      "trip",
		Outflow:   outflow,
		Visible:   true,
	})
}

func TestCascadeRecomputeCarriesClosingForward(t *testing.T) {
	f := newCascadeFixture()

	box1 := f.seedBox(7, 1, "100")
	box2 := f.seedBox(7, 2, "999") // stale, must be overwritten
	f.seedEntry(box1.ID, "50", "")
	f.seedEntry(box1.ID, "", "30")
	f.seedEntry(box2.ID, "", "20")

	employeeID := int64(7)
	report, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	require.Len(t, report.Boxes, 2)
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t, "100", report.Boxes[0].OpeningBalance.String())
	assert.Equal(t, "120", report.Boxes[0].ClosingBalance.String())
	assert.Equal(t, "120", report.Boxes[1].OpeningBalance.String())
	assert.Equal(t, "100", report.Boxes[1].ClosingBalance.String())

	assert.Equal(t, "120", box2.OpeningBalance.String())
}

func TestCascadeRecomputeNeverRewritesFirstBox(t *testing.T) {
	f := newCascadeFixture()

	box1 := f.seedBox(3, 1, "250")
	f.seedEntry(box1.ID, "", "250")

	var writes []int64
	f.cashBoxRepo.UpdateOpeningBalanceFunc = func(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
		writes = append(writes, id)
		return nil
	}

	employeeID := int64(3)
	report, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	require.Len(t, report.Boxes, 1)

	assert.Equal(t, "250", report.Boxes[0].OpeningBalance.String())
	assert.Equal(t, "0", report.Boxes[0].ClosingBalance.String())
	assert.Empty(t, writes, "first box opening balance is source data")
}

func TestCascadeRecomputeIsIdempotent(t *testing.T) {
	f := newCascadeFixture()

	box1 := f.seedBox(7, 1, "100")
	box2 := f.seedBox(7, 2, "0")
	box3 := f.seedBox(7, 3, "0")
	f.seedEntry(box1.ID, "40", "")
	f.seedEntry(box2.ID, "", "15")

	boxes := map[int64]*domain.CashBox{box1.ID: box1, box2.ID: box2, box3.ID: box3}

	var writes int
	f.cashBoxRepo.UpdateOpeningBalanceFunc = func(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
		writes++
		boxes[id].OpeningBalance = balance
		return nil
	}

	employeeID := int64(7)
	_, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	assert.Equal(t, 2, writes)

	writes = 0
	report, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	assert.Zero(t, writes, "second run over unchanged data must not write")
	require.Len(t, report.Boxes, 3)
	assert.Equal(t, "125", report.Boxes[2].OpeningBalance.String())
}

func TestCascadeRecomputeAdvancesIncreaseBalance(t *testing.T) {
	f := newCascadeFixture()

	box := f.seedBox(5, 1, "0")
	f.seedAdvance(box.ID, "500")
	f.seedEntry(box.ID, "", "120,50")

	employeeID := int64(5)
	report, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	require.Len(t, report.Boxes, 1)

	assert.Equal(t, "500", report.Boxes[0].AdvanceSum.String())
	assert.Equal(t, "379.5", report.Boxes[0].ClosingBalance.String())
}

func TestCascadeRecomputeSkipsUnparseableAmounts(t *testing.T) {
	f := newCascadeFixture()

	box := f.seedBox(5, 1, "100")
	f.seedEntry(box.ID, "n/a", "")
	f.seedEntry(box.ID, "25", "")

	employeeID := int64(5)
	report, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	require.Len(t, report.Boxes, 1)

	assert.Equal(t, "25", report.Boxes[0].InflowSum.String())
	assert.Equal(t, "125", report.Boxes[0].ClosingBalance.String())
}

func TestCascadeRecomputeZeroBoxesIsNoOp(t *testing.T) {
	f := newCascadeFixture()

	employeeID := int64(42)
	report, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	assert.Empty(t, report.Boxes)
	assert.Empty(t, report.Failed)
}

func TestCascadeRecomputeLockedEmployee(t *testing.T) {
	f := newCascadeFixture()
	f.seedBox(7, 1, "100")

	f.locker.AcquireFunc = func(ctx context.Context, employeeID int64, ttl time.Duration) (func(context.Context) error, error) {
		return nil, domain.ErrEmployeeLocked
	}

	employeeID := int64(7)
	_, err := f.uc.Recompute(context.Background(), &employeeID)
	assert.ErrorIs(t, err, domain.ErrEmployeeLocked)
}

func TestCascadeRecomputeBulkPartialFailure(t *testing.T) {
	f := newCascadeFixture()

	f.seedBox(1, 1, "10")
	f.seedBox(2, 1, "20")

	f.locker.AcquireFunc = func(ctx context.Context, employeeID int64, ttl time.Duration) (func(context.Context) error, error) {
		if employeeID == 2 {
			return nil, domain.ErrEmployeeLocked
		}
		return func(context.Context) error { return nil }, nil
	}

	report, err := f.uc.Recompute(context.Background(), nil)
	require.NoError(t, err, "bulk mode reports per-employee failures instead of failing")

	require.Len(t, report.Boxes, 1)
	assert.Equal(t, int64(1), report.Boxes[0].EmployeeID)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, int64(2), report.Failed[0].EmployeeID)
	assert.Equal(t, domain.ErrEmployeeLocked.Error(), report.Failed[0].Reason)
}

func TestCascadeRecomputeReleasesLock(t *testing.T) {
	f := newCascadeFixture()
	f.seedBox(9, 1, "0")

	employeeID := int64(9)
	_, err := f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)

	// A second run must be able to take the lock again.
	_, err = f.uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
}

func TestCascadeRecomputeRetriesTransientFailures(t *testing.T) {
	f := newCascadeFixture()

	box1 := f.seedBox(7, 1, "100")
	f.seedBox(7, 2, "0")
	f.seedEntry(box1.ID, "10", "")

	transient := errors.New("deadlock detected")
	attempts := 0
	base := f.cashBoxRepo
	f.cashBoxRepo.ListByEmployeeForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, employeeID int64) ([]*domain.CashBox, error) {
		attempts++
		if attempts == 1 {
			return nil, transient
		}
		return base.ListByEmployee(ctx, employeeID)
	}

	retrier := mocks.NewMockRetrier()
	retrier.RetryFunc = func(ctx context.Context, operation func() error) error {
		var err error
		for i := 0; i < 3; i++ {
			if err = operation(); err == nil {
				return nil
			}
		}
		return err
	}

	uc := usecase.NewCascadeUseCase(
		mocks.NewMockTransactionManager(),
		f.cashBoxRepo,
		f.entryRepo,
		f.advanceRepo,
		nil,
		f.locker,
		retrier,
		mocks.NewMockIDGenerator(),
		nil,
	)

	employeeID := int64(7)
	report, err := uc.Recompute(context.Background(), &employeeID)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.Len(t, report.Boxes, 2, "retried run must not report boxes twice")
	assert.Equal(t, "110", report.Boxes[1].OpeningBalance.String())
}

func TestCascadeRecomputeWritesAuditLog(t *testing.T) {
	f := newCascadeFixture()
	f.seedBox(7, 1, "0")

	ctx := domain.WithUser(context.Background(), &domain.User{ID: "u-1", Role: domain.RoleOperator})

	employeeID := int64(7)
	_, err := f.uc.Recompute(ctx, &employeeID)
	require.NoError(t, err)

	require.NotEmpty(t, f.auditRepo.Logs)
	last := f.auditRepo.Logs[len(f.auditRepo.Logs)-1]
	assert.Equal(t, string(domain.AuditActionRecompute), last.Action)
	assert.Equal(t, "u-1", last.UserID)
	assert.Equal(t, string(domain.AuditStatusSuccess), last.Status)
}
