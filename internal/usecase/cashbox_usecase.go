package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/domain"
)

// CashBoxUseCase manages the cash box records themselves. Balance math
// lives in CascadeUseCase.
type CashBoxUseCase struct {
	cashBoxRepo CashBoxRepository
	entryRepo   EntryRepository
	advanceRepo AdvanceRepository
}

// NewCashBoxUseCase creates a new CashBoxUseCase.
func NewCashBoxUseCase(
	cashBoxRepo CashBoxRepository,
	entryRepo EntryRepository,
	advanceRepo AdvanceRepository,
) *CashBoxUseCase {
	return &CashBoxUseCase{
		cashBoxRepo: cashBoxRepo,
		entryRepo:   entryRepo,
		advanceRepo: advanceRepo,
	}
}

// CreateCashBoxInput represents input for creating a cash box. A zero
// BoxNumber asks for the next free number in the employee's sequence.
type CreateCashBoxInput struct {
	EmployeeID     int64
	BoxNumber      int
	OpeningBalance decimal.Decimal
	BusinessDate   *time.Time
}

// Create opens a new cash box for an employee.
func (uc *CashBoxUseCase) Create(ctx context.Context, input CreateCashBoxInput) (*domain.CashBox, error) {
	number := input.BoxNumber
	if number <= 0 {
		next, err := uc.cashBoxRepo.NextBoxNumber(ctx, input.EmployeeID)
		if err != nil {
			return nil, err
		}

		number = next
	}

	now := time.Now().UTC()

	businessDate := now
	if input.BusinessDate != nil {
		businessDate = *input.BusinessDate
	}

	box := &domain.CashBox{
		EmployeeID:     input.EmployeeID,
		BoxNumber:      number,
		OpeningBalance: input.OpeningBalance,
		BusinessDate:   businessDate,
		Visible:        true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.cashBoxRepo.Create(ctx, box); err != nil {
		return nil, err
	}

	return box, nil
}

// Get retrieves a visible cash box by ID.
func (uc *CashBoxUseCase) Get(ctx context.Context, id int64) (*domain.CashBox, error) {
	return uc.cashBoxRepo.GetByID(ctx, id)
}

// ListByEmployee lists an employee's visible cash boxes in box number order.
func (uc *CashBoxUseCase) ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.CashBox, error) {
	boxes, err := uc.cashBoxRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	domain.SortBoxesByNumber(boxes)

	return boxes, nil
}

// ListEntries lists the visible ledger entries of a cash box.
func (uc *CashBoxUseCase) ListEntries(ctx context.Context, cashBoxID int64) ([]*domain.LedgerEntry, error) {
	if _, err := uc.cashBoxRepo.GetByID(ctx, cashBoxID); err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByCashBox(ctx, cashBoxID)
}

// Hide soft-deletes a cash box. A box that still owns entries or advances
// cannot be hidden.
func (uc *CashBoxUseCase) Hide(ctx context.Context, id int64) error {
	if _, err := uc.cashBoxRepo.GetByID(ctx, id); err != nil {
		return err
	}

	entryCount, err := uc.entryRepo.CountByCashBox(ctx, id)
	if err != nil {
		return err
	}

	advanceCount, err := uc.advanceRepo.CountByCashBox(ctx, id)
	if err != nil {
		return err
	}

	if entryCount > 0 || advanceCount > 0 {
		return domain.ErrCashBoxNotEmpty
	}

	return uc.cashBoxRepo.Hide(ctx, id, time.Now().UTC())
}
