package handler

import (
	"context"
	"net/http"

	"github.com/traveldesk/cashbox/internal/adapter/http/dto"
	"github.com/traveldesk/cashbox/internal/domain"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler handles audit log HTTP requests.
type AuditHandler struct {
	auditRepo AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditRepo AuditService) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List retrieves audit logs with filtering.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	logs, err := h.auditRepo.List(r.Context(), domain.AuditFilter{
		UserID:       q.Get("user_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
