package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/traveldesk/cashbox/internal/adapter/http/dto"
	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// CashBoxService defines the cash box behavior needed by CashBoxHandler.
type CashBoxService interface {
	Create(ctx context.Context, input usecase.CreateCashBoxInput) (*domain.CashBox, error)
	Get(ctx context.Context, id int64) (*domain.CashBox, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.CashBox, error)
	ListEntries(ctx context.Context, cashBoxID int64) ([]*domain.LedgerEntry, error)
	Hide(ctx context.Context, id int64) error
}

// ReconcileService defines the reconciliation behavior needed by
// CashBoxHandler.
type ReconcileService interface {
	Reconcile(ctx context.Context, cashBoxID int64, rows []usecase.RowInput, mode usecase.Mode) (*usecase.ReconcileReport, error)
}

// CashBoxHandler handles cash box HTTP requests.
type CashBoxHandler struct {
	cashBoxUC   CashBoxService
	reconcileUC ReconcileService
}

// NewCashBoxHandler creates a new CashBoxHandler.
func NewCashBoxHandler(cashBoxUC CashBoxService, reconcileUC ReconcileService) *CashBoxHandler {
	return &CashBoxHandler{
		cashBoxUC:   cashBoxUC,
		reconcileUC: reconcileUC,
	}
}

// Create opens a new cash box.
func (h *CashBoxHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCashBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.EmployeeID <= 0 {
		writeError(w, http.StatusBadRequest, "employee_id is required", "")
		return
	}

	box, err := h.cashBoxUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create cash box", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CashBoxFromDomain(box))
}

// Get retrieves a cash box by ID.
func (h *CashBoxHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cash box ID", "")
		return
	}

	box, err := h.cashBoxUC.Get(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get cash box", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CashBoxFromDomain(box))
}

// ListByEmployee lists an employee's cash boxes in box number order.
func (h *CashBoxHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employeeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee ID", "")
		return
	}

	boxes, err := h.cashBoxUC.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cash boxes", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCashBoxesResponse{
		CashBoxes: dto.CashBoxesFromDomain(boxes),
		Total:     int64(len(boxes)),
	})
}

// ListEntries lists the ledger entries of a cash box.
func (h *CashBoxHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cash box ID", "")
		return
	}

	entries, err := h.cashBoxUC.ListEntries(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list entries", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.LedgerEntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// SubmitTransactions reconciles a submitted transaction list against the
// box's stored entries.
func (h *CashBoxHandler) SubmitTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cash box ID", "")
		return
	}

	var req dto.SubmitTransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	mode, err := usecase.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mode", req.Mode)
		return
	}

	report, err := h.reconcileUC.Reconcile(r.Context(), id, req.ToRowInputs(), mode)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to submit transactions", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileFromReport(report))
}

// Delete hides a cash box.
func (h *CashBoxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cash box ID", "")
		return
	}

	if err := h.cashBoxUC.Hide(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete cash box", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
