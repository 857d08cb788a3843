package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/usecase"
)

// RecomputeRequest asks for a balance recompute. A nil EmployeeID means
// every employee with at least one cash box.
type RecomputeRequest struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
}

// CreateCashBoxRequest represents a request to open a cash box.
type CreateCashBoxRequest struct {
	EmployeeID     int64           `json:"employee_id"`
	BoxNumber      int             `json:"box_number,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	BusinessDate   *time.Time      `json:"business_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCashBoxRequest) ToUseCaseInput() usecase.CreateCashBoxInput {
	return usecase.CreateCashBoxInput{
		EmployeeID:     r.EmployeeID,
		BoxNumber:      r.BoxNumber,
		OpeningBalance: r.OpeningBalance,
		BusinessDate:   r.BusinessDate,
	}
}

// TransactionRow is one submitted transaction. Amounts stay raw text; the
// ledger parses them leniently at sum time.
type TransactionRow struct {
	ID          *int64 `json:"id,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Document    string `json:"document,omitempty"`
	Inflow      string `json:"inflow,omitempty"`
	Outflow     string `json:"outflow,omitempty"`
}

// SubmitTransactionsRequest represents a transaction list submission.
type SubmitTransactionsRequest struct {
	Mode         string           `json:"mode,omitempty"`
	Transactions []TransactionRow `json:"transactions"`
}

// ToRowInputs converts the submitted rows to use case inputs.
func (r *SubmitTransactionsRequest) ToRowInputs() []usecase.RowInput {
	rows := make([]usecase.RowInput, len(r.Transactions))
	for i, t := range r.Transactions {
		rows[i] = usecase.RowInput{
			ID:          t.ID,
			Date:        t.Date,
			Description: t.Description,
			Document:    t.Document,
			Inflow:      t.Inflow,
			Outflow:     t.Outflow,
		}
	}

	return rows
}

// CreateAdvanceRequest represents a request to record an advance.
type CreateAdvanceRequest struct {
	OwnerID   int64      `json:"owner_id"`
	Date      *time.Time `json:"date,omitempty"`
	Name      string     `json:"name"`
	Outflow   string     `json:"outflow"`
	CashBoxID *int64     `json:"cash_box_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAdvanceRequest) ToUseCaseInput() usecase.CreateAdvanceInput {
	return usecase.CreateAdvanceInput{
		OwnerID:   r.OwnerID,
		Date:      r.Date,
		Name:      r.Name,
		Outflow:   r.Outflow,
		CashBoxID: r.CashBoxID,
	}
}

// AttachAdvanceRequest represents a request to attach an advance to a box.
type AttachAdvanceRequest struct {
	CashBoxID int64 `json:"cash_box_id"`
}
