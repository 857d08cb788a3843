package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
	"github.com/traveldesk/cashbox/internal/usecase/mocks"
)

type advanceFixture struct {
	uc          *usecase.AdvanceUseCase
	advanceRepo *mocks.MockAdvanceRepository
	cashBoxRepo *mocks.MockCashBoxRepository
	auditRepo   *mocks.MockAuditRepository
}

func newAdvanceFixture() *advanceFixture {
	f := &advanceFixture{
		advanceRepo: mocks.NewMockAdvanceRepository(),
		cashBoxRepo: mocks.NewMockCashBoxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
	}

	f.uc = usecase.NewAdvanceUseCase(f.advanceRepo, f.cashBoxRepo, f.auditRepo, nil)

	return f
}

func (f *advanceFixture) seedBox() *domain.CashBox {
	box := &domain.CashBox{
		EmployeeID:     7,
		BoxNumber:      1,
		OpeningBalance: decimal.Zero,
		BusinessDate:   time.Now().UTC(),
		Visible:        true,
	}
	_ = f.cashBoxRepo.Create(context.Background(), box)

	return box
}

func TestAdvanceCreateUnattached(t *testing.T) {
	f := newAdvanceFixture()

	advance, err := f.uc.Create(context.Background(), usecase.CreateAdvanceInput{
		OwnerID: 7,
		Name:    "conference trip",
		Outflow: "1.200,00",
	})
	require.NoError(t, err)

	assert.NotZero(t, advance.ID)
	assert.Nil(t, advance.CashBoxID)
	assert.False(t, advance.Attached())
	assert.Equal(t, "1.200,00", advance.Outflow)
}

func TestAdvanceCreateAttachedToMissingBox(t *testing.T) {
	f := newAdvanceFixture()

	missing := int64(9999)
	_, err := f.uc.Create(context.Background(), usecase.CreateAdvanceInput{
		OwnerID:   7,
		Name:      "trip",
		Outflow:   "100",
		CashBoxID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrCashBoxNotFound)
}

func TestAdvanceAttachOverwritesPriorAttachment(t *testing.T) {
	f := newAdvanceFixture()

	first := f.seedBox()
	second := &domain.CashBox{EmployeeID: 7, BoxNumber: 2, Visible: true, BusinessDate: time.Now().UTC()}
	require.NoError(t, f.cashBoxRepo.Create(context.Background(), second))

	advance, err := f.uc.Create(context.Background(), usecase.CreateAdvanceInput{
		OwnerID:   7,
		Name:      "trip",
		Outflow:   "100",
		CashBoxID: &first.ID,
	})
	require.NoError(t, err)

	updated, err := f.uc.Attach(context.Background(), advance.ID, second.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CashBoxID)
	assert.Equal(t, second.ID, *updated.CashBoxID)

	stored, err := f.advanceRepo.GetByID(context.Background(), advance.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CashBoxID)
	assert.Equal(t, second.ID, *stored.CashBoxID)
}

func TestAdvanceAttachMissingBoxLeavesAdvanceUntouched(t *testing.T) {
	f := newAdvanceFixture()

	box := f.seedBox()
	advance, err := f.uc.Create(context.Background(), usecase.CreateAdvanceInput{
		OwnerID:   7,
		Name:      "trip",
		Outflow:   "100",
		CashBoxID: &box.ID,
	})
	require.NoError(t, err)

	_, err = f.uc.Attach(context.Background(), advance.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrCashBoxNotFound)

	stored, err := f.advanceRepo.GetByID(context.Background(), advance.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CashBoxID)
	assert.Equal(t, box.ID, *stored.CashBoxID, "failed attach must not detach")
}

func TestAdvanceDetach(t *testing.T) {
	f := newAdvanceFixture()

	box := f.seedBox()
	advance, err := f.uc.Create(context.Background(), usecase.CreateAdvanceInput{
		OwnerID:   7,
		Name:      "trip",
		Outflow:   "100",
		CashBoxID: &box.ID,
	})
	require.NoError(t, err)

	detached, err := f.uc.Detach(context.Background(), advance.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.CashBoxID)

	// Detaching an already detached advance is fine.
	detached, err = f.uc.Detach(context.Background(), advance.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.CashBoxID)
}

func TestAdvanceDeleteAttachedRejected(t *testing.T) {
	f := newAdvanceFixture()

	box := f.seedBox()
	advance, err := f.uc.Create(context.Background(), usecase.CreateAdvanceInput{
		OwnerID:   7,
		Name:      "trip",
		Outflow:   "100",
		CashBoxID: &box.ID,
	})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), advance.ID)
	assert.ErrorIs(t, err, domain.ErrAdvanceAttached)

	_, err = f.uc.Get(context.Background(), advance.ID)
	require.NoError(t, err)

	_, err = f.uc.Detach(context.Background(), advance.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), advance.ID))

	_, err = f.uc.Get(context.Background(), advance.ID)
	assert.ErrorIs(t, err, domain.ErrAdvanceNotFound)
}

func TestAdvanceListByOwnerClampsLimit(t *testing.T) {
	f := newAdvanceFixture()

	var captured int
	f.advanceRepo.ListByOwnerFunc = func(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Advance, error) {
		captured = limit
		return nil, nil
	}

	_, err := f.uc.ListByOwner(context.Background(), usecase.ListByOwnerInput{OwnerID: 7, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, captured)

	_, err = f.uc.ListByOwner(context.Background(), usecase.ListByOwnerInput{OwnerID: 7})
	require.NoError(t, err)
	assert.Equal(t, 20, captured)
}

func TestAdvanceOperationsAreAudited(t *testing.T) {
	f := newAdvanceFixture()

	advance, err := f.uc.Create(context.Background(), usecase.CreateAdvanceInput{
		OwnerID: 7,
		Name:    "trip",
		Outflow: "100",
	})
	require.NoError(t, err)

	box := f.seedBox()
	_, err = f.uc.Attach(context.Background(), advance.ID, box.ID)
	require.NoError(t, err)

	require.Len(t, f.auditRepo.Logs, 2)
	assert.Equal(t, string(domain.AuditActionAdvanceCreate), f.auditRepo.Logs[0].Action)
	assert.Equal(t, string(domain.AuditActionAdvanceAttach), f.auditRepo.Logs[1].Action)
}
