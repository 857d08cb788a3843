package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/traveldesk/cashbox/internal/adapter/http/dto"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	Recompute(ctx context.Context, employeeID *int64) (*usecase.RecomputeReport, error)
}

// BalanceHandler handles balance recompute requests.
type BalanceHandler struct {
	cascadeUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(cascadeUC BalanceService) *BalanceHandler {
	return &BalanceHandler{cascadeUC: cascadeUC}
}

// Recompute cascades balances for one employee, or for everyone when the
// body carries no employee_id. An empty body means everyone too.
func (h *BalanceHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	var req dto.RecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.cascadeUC.Recompute(r.Context(), req.EmployeeID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to recompute balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RecomputeFromReport(report))
}
