package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/traveldesk/cashbox/internal/adapter/http/dto"
	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// AdvanceService defines the behavior needed by AdvanceHandler.
type AdvanceService interface {
	Create(ctx context.Context, input usecase.CreateAdvanceInput) (*domain.Advance, error)
	Get(ctx context.Context, id int64) (*domain.Advance, error)
	ListByOwner(ctx context.Context, input usecase.ListByOwnerInput) ([]*domain.Advance, error)
	Attach(ctx context.Context, advanceID, cashBoxID int64) (*domain.Advance, error)
	Detach(ctx context.Context, advanceID int64) (*domain.Advance, error)
	Delete(ctx context.Context, advanceID int64) error
}

// AdvanceHandler handles advance HTTP requests.
type AdvanceHandler struct {
	advanceUC AdvanceService
}

// NewAdvanceHandler creates a new AdvanceHandler.
func NewAdvanceHandler(advanceUC AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceUC: advanceUC}
}

// Create records a new advance.
func (h *AdvanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.OwnerID <= 0 {
		writeError(w, http.StatusBadRequest, "owner_id is required", "")
		return
	}

	advance, err := h.advanceUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create advance", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AdvanceFromDomain(advance))
}

// Get retrieves an advance by ID.
func (h *AdvanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid advance ID", "")
		return
	}

	advance, err := h.advanceUC.Get(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get advance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AdvanceFromDomain(advance))
}

// ListByOwner lists an employee's advances.
func (h *AdvanceHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := parseIDParam(r, "employeeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee ID", "")
		return
	}

	advances, err := h.advanceUC.ListByOwner(r.Context(), usecase.ListByOwnerInput{
		OwnerID: ownerID,
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list advances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAdvancesResponse{
		Advances: dto.AdvancesFromDomain(advances),
		Total:    int64(len(advances)),
	})
}

// Attach binds an advance to a cash box.
func (h *AdvanceHandler) Attach(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid advance ID", "")
		return
	}

	var req dto.AttachAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	advance, err := h.advanceUC.Attach(r.Context(), id, req.CashBoxID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to attach advance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AdvanceFromDomain(advance))
}

// Detach unbinds an advance from its cash box.
func (h *AdvanceHandler) Detach(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid advance ID", "")
		return
	}

	advance, err := h.advanceUC.Detach(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to detach advance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AdvanceFromDomain(advance))
}

// Delete removes a detached advance.
func (h *AdvanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid advance ID", "")
		return
	}

	if err := h.advanceUC.Delete(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete advance", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
