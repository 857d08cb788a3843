package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// CashBoxResponse represents a cash box in API responses.
type CashBoxResponse struct {
	ID             int64           `json:"id"`
	EmployeeID     int64           `json:"employee_id"`
	BoxNumber      int             `json:"box_number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	BusinessDate   time.Time       `json:"business_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CashBoxFromDomain converts a domain cash box to a response.
func CashBoxFromDomain(b *domain.CashBox) *CashBoxResponse {
	return &CashBoxResponse{
		ID:             b.ID,
		EmployeeID:     b.EmployeeID,
		BoxNumber:      b.BoxNumber,
		OpeningBalance: b.OpeningBalance,
		BusinessDate:   b.BusinessDate,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// CashBoxesFromDomain converts domain cash boxes to responses.
func CashBoxesFromDomain(boxes []*domain.CashBox) []*CashBoxResponse {
	result := make([]*CashBoxResponse, len(boxes))
	for i, b := range boxes {
		result[i] = CashBoxFromDomain(b)
	}
	return result
}

// ListCashBoxesResponse wraps a cash box listing.
type ListCashBoxesResponse struct {
	CashBoxes []*CashBoxResponse `json:"cash_boxes"`
	Total     int64              `json:"total"`
}

// LedgerEntryResponse represents a ledger entry in API responses. Inflow and
// outflow are the raw submitted text.
type LedgerEntryResponse struct {
	ID          int64     `json:"id"`
	CashBoxID   int64     `json:"cash_box_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Document    string    `json:"document,omitempty"`
	Inflow      string    `json:"inflow,omitempty"`
	Outflow     string    `json:"outflow,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LedgerEntryFromDomain converts a domain entry to a response.
func LedgerEntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:          e.ID,
		CashBoxID:   e.CashBoxID,
		Date:        e.Date,
		Description: e.Description,
		Document:    e.Document,
		Inflow:      e.Inflow,
		Outflow:     e.Outflow,
		CreatedAt:   e.CreatedAt,
	}
}

// LedgerEntriesFromDomain converts domain entries to responses.
func LedgerEntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerEntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps an entry listing.
type ListEntriesResponse struct {
	Entries []*LedgerEntryResponse `json:"entries"`
	Total   int64                  `json:"total"`
}

// AdvanceResponse represents an advance in API responses.
type AdvanceResponse struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	CashBoxID *int64    `json:"cash_box_id,omitempty"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	Outflow   string    `json:"outflow"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdvanceFromDomain converts a domain advance to a response.
func AdvanceFromDomain(a *domain.Advance) *AdvanceResponse {
	return &AdvanceResponse{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		CashBoxID: a.CashBoxID,
		Date:      a.Date,
		Name:      a.Name,
		Outflow:   a.Outflow,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AdvancesFromDomain converts domain advances to responses.
func AdvancesFromDomain(advances []*domain.Advance) []*AdvanceResponse {
	result := make([]*AdvanceResponse, len(advances))
	for i, a := range advances {
		result[i] = AdvanceFromDomain(a)
	}
	return result
}

// ListAdvancesResponse wraps an advance listing.
type ListAdvancesResponse struct {
	Advances []*AdvanceResponse `json:"advances"`
	Total    int64              `json:"total"`
}

// BoxReportResponse describes one cascaded box in a recompute response.
type BoxReportResponse struct {
	BoxID          int64           `json:"box_id"`
	BoxNumber      int             `json:"box_number"`
	EmployeeID     int64           `json:"employee_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	InflowSum      decimal.Decimal `json:"inflow_sum"`
	OutflowSum     decimal.Decimal `json:"outflow_sum"`
	AdvanceSum     decimal.Decimal `json:"advance_sum"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// EmployeeFailureResponse reports a skipped employee in a bulk recompute.
type EmployeeFailureResponse struct {
	EmployeeID int64  `json:"employee_id"`
	Reason     string `json:"reason"`
}

// RecomputeResponse represents the outcome of a recompute run.
type RecomputeResponse struct {
	RunID  string                    `json:"run_id"`
	Boxes  []BoxReportResponse       `json:"boxes"`
	Failed []EmployeeFailureResponse `json:"failed,omitempty"`
}

// RecomputeFromReport converts a recompute report to a response.
func RecomputeFromReport(report *usecase.RecomputeReport) *RecomputeResponse {
	resp := &RecomputeResponse{
		RunID: report.RunID,
		Boxes: make([]BoxReportResponse, len(report.Boxes)),
	}

	for i, b := range report.Boxes {
		resp.Boxes[i] = BoxReportResponse{
			BoxID:          b.BoxID,
			BoxNumber:      b.BoxNumber,
			EmployeeID:     b.EmployeeID,
			OpeningBalance: b.OpeningBalance,
			InflowSum:      b.InflowSum,
			OutflowSum:     b.OutflowSum,
			AdvanceSum:     b.AdvanceSum,
			ClosingBalance: b.ClosingBalance,
		}
	}

	for _, f := range report.Failed {
		resp.Failed = append(resp.Failed, EmployeeFailureResponse{
			EmployeeID: f.EmployeeID,
			Reason:     f.Reason,
		})
	}

	return resp
}

// SkippedRowResponse reports a dropped submission row.
type SkippedRowResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ReconcileResponse represents the outcome of a transaction submission.
type ReconcileResponse struct {
	RunID        string                 `json:"run_id"`
	Created      []*LedgerEntryResponse `json:"created"`
	DeletedCount int                    `json:"deleted_count"`
	Skipped      []SkippedRowResponse   `json:"skipped,omitempty"`
}

// ReconcileFromReport converts a reconciliation report to a response.
func ReconcileFromReport(report *usecase.ReconcileReport) *ReconcileResponse {
	resp := &ReconcileResponse{
		RunID:        report.RunID,
		Created:      LedgerEntriesFromDomain(report.Created),
		DeletedCount: report.DeletedCount,
	}

	for _, s := range report.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedRowResponse{Index: s.Index, Reason: s.Reason})
	}

	return resp
}

// AuditLogResponse represents an audit log in API responses.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	RunID        string      `json:"run_id,omitempty"`
	Detail       domain.JSON `json:"detail,omitempty"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RunID:        l.RunID,
			Detail:       l.Detail,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
