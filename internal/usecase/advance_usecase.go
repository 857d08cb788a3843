package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/infrastructure/metrics"
)

// AdvanceUseCase manages trip advances: transactions that exist on their own
// and can later be attached to exactly one cash box. Attach and detach do
// not recompute balances; the caller runs the cascade for the affected
// employee afterwards so the engine stays free of cross-employee side
// effects.
type AdvanceUseCase struct {
	advanceRepo AdvanceRepository
	cashBoxRepo CashBoxRepository
	auditRepo   AuditRepository
	metrics     *metrics.Metrics
}

// NewAdvanceUseCase creates a new AdvanceUseCase. auditRepo and metrics may
// be nil.
func NewAdvanceUseCase(
	advanceRepo AdvanceRepository,
	cashBoxRepo CashBoxRepository,
	auditRepo AuditRepository,
	metrics *metrics.Metrics,
) *AdvanceUseCase {
	return &AdvanceUseCase{
		advanceRepo: advanceRepo,
		cashBoxRepo: cashBoxRepo,
		auditRepo:   auditRepo,
		metrics:     metrics,
	}
}

// CreateAdvanceInput represents input for creating an advance.
type CreateAdvanceInput struct {
	OwnerID   int64
	Date      *time.Time
	Name      string
	Outflow   string
	CashBoxID *int64
}

// Create records a new advance, optionally attached to a cash box.
func (uc *AdvanceUseCase) Create(ctx context.Context, input CreateAdvanceInput) (*domain.Advance, error) {
	if input.CashBoxID != nil {
		if _, err := uc.cashBoxRepo.GetByID(ctx, *input.CashBoxID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	date := now
	if input.Date != nil {
		date = *input.Date
	}

	advance := &domain.Advance{
		OwnerID:   input.OwnerID,
		CashBoxID: input.CashBoxID,
		Date:      date,
		Name:      input.Name,
		Outflow:   input.Outflow,
		Visible:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.advanceRepo.Create(ctx, advance); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAdvanceCreate, advance.ID, nil)

	return advance, nil
}

// Get retrieves an advance by ID.
func (uc *AdvanceUseCase) Get(ctx context.Context, id int64) (*domain.Advance, error) {
	return uc.advanceRepo.GetByID(ctx, id)
}

// ListByOwnerInput represents input for listing advances.
type ListByOwnerInput struct {
	OwnerID int64
	Limit   int
	Offset  int
}

// ListByOwner lists an owner's advances with pagination.
func (uc *AdvanceUseCase) ListByOwner(ctx context.Context, input ListByOwnerInput) ([]*domain.Advance, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.advanceRepo.ListByOwner(ctx, input.OwnerID, input.Limit, input.Offset)
}

// Attach binds the advance to the given cash box, overwriting any prior
// attachment. When the target box does not exist or is hidden the advance
// keeps its previous attachment.
func (uc *AdvanceUseCase) Attach(ctx context.Context, advanceID, cashBoxID int64) (*domain.Advance, error) {
	if _, err := uc.cashBoxRepo.GetByID(ctx, cashBoxID); err != nil {
		return nil, err
	}

	advance, err := uc.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.advanceRepo.UpdateCashBox(ctx, advanceID, &cashBoxID, now); err != nil {
		return nil, err
	}

	advance.CashBoxID = &cashBoxID
	advance.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.AdvancesAttached.Inc()
	}

	uc.audit(ctx, domain.AuditActionAdvanceAttach, advanceID, nil)

	return advance, nil
}

// Detach unconditionally unbinds the advance from its cash box.
func (uc *AdvanceUseCase) Detach(ctx context.Context, advanceID int64) (*domain.Advance, error) {
	advance, err := uc.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.advanceRepo.UpdateCashBox(ctx, advanceID, nil, now); err != nil {
		return nil, err
	}

	advance.CashBoxID = nil
	advance.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.AdvancesDetached.Inc()
	}

	uc.audit(ctx, domain.AuditActionAdvanceDetach, advanceID, nil)

	return advance, nil
}

// Delete removes an advance. An advance still attached to a box must be
// detached first.
func (uc *AdvanceUseCase) Delete(ctx context.Context, advanceID int64) error {
	advance, err := uc.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		return err
	}

	if advance.Attached() {
		uc.audit(ctx, domain.AuditActionAdvanceDelete, advanceID, domain.ErrAdvanceAttached)
		return domain.ErrAdvanceAttached
	}

	if err := uc.advanceRepo.Delete(ctx, advanceID); err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionAdvanceDelete, advanceID, nil)

	return nil
}

func (uc *AdvanceUseCase) audit(ctx context.Context, action domain.AuditAction, advanceID int64, opErr error) {
	if uc.auditRepo == nil {
		return
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	log := &domain.AuditLog{
		UserID:       userID,
		Action:       string(action),
		ResourceType: "advance",
		ResourceID:   fmt.Sprintf("%d", advanceID),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	if opErr != nil {
		log.Status = string(domain.AuditStatusFailure)
		log.ErrorMessage = opErr.Error()
	}

	_ = uc.auditRepo.Create(ctx, log)
}
